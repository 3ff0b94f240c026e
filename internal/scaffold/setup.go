package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fastertools/hokusai/internal/config"
	"github.com/fastertools/hokusai/pkg/manifest"
	"github.com/fastertools/hokusai/pkg/profile"
	"github.com/fastertools/hokusai/pkg/synthesis"
	"github.com/fastertools/hokusai/pkg/types"
	"github.com/fastertools/hokusai/pkg/validation"
)

// Kinds of generated files
const (
	KindBuildFile = "build-file"
	KindCompose   = "compose"
	KindManifest  = "manifest"
	KindConfig    = "config"
)

// Options are the inputs of a setup run
type Options struct {
	ProjectName  string
	AWSAccountID string
	AWSECRRegion string
	Framework    string
	Port         int
	Addons       types.AddonSelection
}

// File is one rendered file, held in memory until written
type File struct {
	Path    string
	Kind    string
	Content []byte
}

// GeneratedFile describes a file written by Setup
type GeneratedFile struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// Render builds, encodes and validates every generated file without
// touching the filesystem. Paths are relative to the project root and
// returned in write order.
func (s *Scaffolder) Render(opts Options) ([]File, error) {
	prof, err := profile.Resolve(opts.Framework)
	if err != nil {
		return nil, err
	}

	identity := types.NewProjectIdentity(opts.ProjectName, opts.AWSAccountID, opts.AWSECRRegion)

	validator, err := validation.New()
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateProjectName(identity.Name); err != nil {
		return nil, err
	}
	if opts.Port < 1 || opts.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d: must be between 1 and 65535", opts.Port)
	}

	buildFile, err := s.RenderBuildFile(prof.BuildTemplateName, prof.BaseImage, prof.RunCommand, opts.Port)
	if err != nil {
		return nil, err
	}

	synth := synthesis.NewSynthesizer(identity, prof, opts.Port)
	local, err := synth.Local(opts.Addons)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize local documents: %w", err)
	}
	remote, err := synth.Remote(opts.Addons)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize remote documents: %w", err)
	}

	files := []File{{Path: "Dockerfile", Kind: KindBuildFile, Content: []byte(buildFile)}}

	composeDocs := []struct {
		name string
		doc  *types.ComposeDocument
	}{
		{synthesis.CommonFile, local.Common},
		{fileName(types.Development), local.Development()},
		{fileName(types.Test), local.Test()},
	}
	for _, c := range composeDocs {
		data, err := encodeCompose(validator, c.doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.name, err)
		}
		files = append(files, File{Path: filepath.Join(config.Dir, c.name), Kind: KindCompose, Content: data})
	}

	for _, doc := range []*synthesis.RemoteDocument{remote.Staging(), remote.Production()} {
		name := fileName(doc.Environment)
		data, err := encodeRemote(validator, doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		files = append(files, File{Path: filepath.Join(config.Dir, name), Kind: KindManifest, Content: data})
	}

	record := &config.ProjectConfig{
		ProjectName:  identity.Name,
		AWSAccountID: identity.RegistryAccountID,
		AWSECRRegion: identity.RegistryRegion,
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	data, err := record.Marshal()
	if err != nil {
		return nil, err
	}
	files = append(files, File{Path: filepath.Join(config.Dir, config.FileName), Kind: KindConfig, Content: data})

	return files, nil
}

// Setup renders every file and writes it under root, overwriting existing
// files. Writing stops at the first failure; files already written stay.
func (s *Scaffolder) Setup(root string, opts Options) ([]GeneratedFile, error) {
	files, err := s.Render(opts)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(root, config.Dir), 0750); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", config.Dir, err)
	}

	generated := make([]GeneratedFile, 0, len(files))
	for _, f := range files {
		if err := config.WriteFileAtomic(filepath.Join(root, f.Path), f.Content); err != nil {
			return generated, fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		generated = append(generated, GeneratedFile{Path: f.Path, Kind: f.Kind})
	}
	return generated, nil
}

// Setup runs a setup with a fresh scaffolder
func Setup(root string, opts Options) ([]GeneratedFile, error) {
	s, err := NewScaffolder()
	if err != nil {
		return nil, err
	}
	return s.Setup(root, opts)
}

func encodeCompose(validator *validation.Validator, doc *types.ComposeDocument) ([]byte, error) {
	if err := validation.CheckCompose(doc); err != nil {
		return nil, err
	}
	data, err := manifest.EncodeCompose(doc)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateCompose(data); err != nil {
		return nil, err
	}
	return data, nil
}

func encodeRemote(validator *validation.Validator, doc *synthesis.RemoteDocument) ([]byte, error) {
	for _, obj := range doc.Objects {
		data, err := manifest.EncodeObject(obj)
		if err != nil {
			return nil, err
		}
		if err := validator.ValidateObject(data); err != nil {
			return nil, fmt.Errorf("%s: %w", obj.GetObjectKind().GroupVersionKind().Kind, err)
		}
	}
	return manifest.EncodeObjects(doc.Objects)
}

func fileName(env types.Environment) string {
	return string(env) + ".yml"
}
