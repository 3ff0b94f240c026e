// Package synthesis turns a project identity, framework profile and add-on
// selection into the per-environment orchestration documents.
package synthesis

import (
	"errors"
	"fmt"

	"github.com/fastertools/hokusai/pkg/addon"
	"github.com/fastertools/hokusai/pkg/types"
)

// ErrServiceCollision is returned when two services would share a name
var ErrServiceCollision = errors.New("service name collision")

// Synthesizer builds local compose documents and remote manifests.
// It holds no mutable state; every call builds fresh documents.
type Synthesizer struct {
	identity  types.ProjectIdentity
	profile   *types.FrameworkProfile
	port      int
	catalog   []addon.Definition
	localEnvs []types.LocalEnvironment
}

// NewSynthesizer creates a synthesizer over the built-in add-on catalog
func NewSynthesizer(identity types.ProjectIdentity, profile *types.FrameworkProfile, port int) *Synthesizer {
	return &Synthesizer{
		identity:  identity,
		profile:   profile,
		port:      port,
		catalog:   addon.Catalog(),
		localEnvs: types.LocalEnvironments,
	}
}

// WithCatalog replaces the add-on catalog, for extended catalogs
func (s *Synthesizer) WithCatalog(defs []addon.Definition) *Synthesizer {
	cp := *s
	cp.catalog = defs
	return &cp
}

// check validates the inputs shared by both synthesizers
func (s *Synthesizer) check() error {
	if s.identity.Name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if s.profile == nil {
		return fmt.Errorf("framework profile is required")
	}
	if err := s.profile.Validate(); err != nil {
		return err
	}
	if s.port < 1 || s.port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", s.port)
	}
	if err := addon.ValidateCatalog(s.catalog); err != nil {
		return fmt.Errorf("%w: %v", ErrServiceCollision, err)
	}
	for _, d := range s.catalog {
		if d.ServiceName(s.identity.Name) == s.identity.Name {
			return fmt.Errorf("%w: add-on %q resolves to the application name", ErrServiceCollision, d.Addon)
		}
	}
	return nil
}

// enabled returns the selected add-ons in catalog order
func (s *Synthesizer) enabled(sel types.AddonSelection) []addon.Definition {
	return addon.Enabled(s.catalog, sel)
}
