package synthesis

import (
	"fmt"

	"github.com/fastertools/hokusai/pkg/addon"
	"github.com/fastertools/hokusai/pkg/types"
)

// CommonFile is the compose file local environments extend
const CommonFile = "common.yml"

// LocalDocuments are the compose documents for local environments
type LocalDocuments struct {
	Common       *types.ComposeDocument
	Environments map[types.Environment]*types.ComposeDocument
}

// Development returns the development document
func (d *LocalDocuments) Development() *types.ComposeDocument {
	return d.Environments[types.Development]
}

// Test returns the test document
func (d *LocalDocuments) Test() *types.ComposeDocument {
	return d.Environments[types.Test]
}

// Local builds the common, development and test compose documents
func (s *Synthesizer) Local(sel types.AddonSelection) (*LocalDocuments, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if err := types.ValidateLocalEnvironments(s.localEnvs); err != nil {
		return nil, err
	}

	common := types.NewComposeDocument()
	if err := common.Add(&types.Service{
		Name:  s.identity.Name,
		Build: &types.BuildContext{Context: "../"},
	}); err != nil {
		return nil, err
	}

	docs := &LocalDocuments{
		Common:       common,
		Environments: make(map[types.Environment]*types.ComposeDocument, len(s.localEnvs)),
	}
	for _, env := range s.localEnvs {
		doc, err := s.localEnvironment(env, sel)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", env.Name, err)
		}
		docs.Environments[env.Name] = doc
	}
	return docs, nil
}

func (s *Synthesizer) localEnvironment(env types.LocalEnvironment, sel types.AddonSelection) (*types.ComposeDocument, error) {
	project := s.identity.Name

	app := &types.Service{
		Name:        project,
		Extends:     &types.Extends{File: CommonFile, Service: project},
		Command:     s.profile.CommandFor(env.Name),
		Environment: s.profile.Seeds(env.Name),
	}
	if env.PublishPorts {
		app.Ports = []string{addon.PortMapping(s.port, s.port)}
	}

	doc := types.NewComposeDocument()
	if err := doc.Add(app); err != nil {
		return nil, err
	}

	for _, def := range s.enabled(sel) {
		svc := def.LocalService(project, env)
		if err := doc.Add(svc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrServiceCollision, err)
		}
		app.Environment = append(app.Environment, def.LocalEnvVar(project, env))
		app.DependsOn = append(app.DependsOn, svc.Name)
	}

	return doc, nil
}
