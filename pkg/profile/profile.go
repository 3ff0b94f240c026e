// Package profile resolves a framework tag to its build and runtime profile.
package profile

import (
	"fmt"
	"sync"

	"github.com/fastertools/hokusai/pkg/types"
)

// Registry holds framework profiles keyed by tag
type Registry struct {
	mu       sync.RWMutex
	profiles map[types.Framework]*types.FrameworkProfile
	order    []types.Framework
}

// NewRegistry creates a registry from the given profiles
func NewRegistry(profiles ...*types.FrameworkProfile) (*Registry, error) {
	r := &Registry{profiles: make(map[types.Framework]*types.FrameworkProfile)}
	for _, p := range profiles {
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the registry of built-in frameworks
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(builtins()...)
		if err != nil {
			panic(fmt.Sprintf("built-in framework profiles are invalid: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Register adds a profile. Tags must be unique and the profile complete.
func (r *Registry) Register(p *types.FrameworkProfile) error {
	if p == nil {
		return fmt.Errorf("profile cannot be nil")
	}
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.profiles[p.Framework]; exists {
		return fmt.Errorf("framework %q is already registered", p.Framework)
	}
	r.profiles[p.Framework] = p.Clone()
	r.order = append(r.order, p.Framework)
	return nil
}

// Resolve returns a copy of the profile registered for tag
func (r *Registry) Resolve(tag string) (*types.FrameworkProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[types.Framework(tag)]
	if !ok {
		return nil, fmt.Errorf("%w '%s': must be one of %v", types.ErrInvalidFramework, tag, r.frameworksLocked())
	}
	return p.Clone(), nil
}

// Frameworks returns the registered tags in registration order
func (r *Registry) Frameworks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frameworksLocked()
}

func (r *Registry) frameworksLocked() []string {
	tags := make([]string, 0, len(r.order))
	for _, f := range r.order {
		tags = append(tags, string(f))
	}
	return tags
}

// Resolve looks a tag up in the default registry
func Resolve(tag string) (*types.FrameworkProfile, error) {
	return Default().Resolve(tag)
}

// seeds builds the four per-environment seed lists for a single variable
func seeds(name, dev, test, staging, production string) map[types.Environment][]types.EnvVar {
	return map[types.Environment][]types.EnvVar{
		types.Development: {types.Literal(name, dev)},
		types.Test:        {types.Literal(name, test)},
		types.Staging:     {types.Literal(name, staging)},
		types.Production:  {types.Literal(name, production)},
	}
}

func builtins() []*types.FrameworkProfile {
	return []*types.FrameworkProfile{
		{
			Framework:          types.Rack,
			BuildTemplateName:  "Dockerfile-ruby",
			BaseImage:          "ruby:latest",
			RunCommand:         "bundle exec rackup",
			DevelopmentCommand: "bundle exec rackup",
			TestCommand:        "bundle exec rake",
			EnvironmentSeeds:   seeds("RACK_ENV", "development", "test", "staging", "production"),
		},
		{
			Framework:          types.NodeJS,
			BuildTemplateName:  "Dockerfile-node",
			BaseImage:          "node:latest",
			RunCommand:         "node index.js",
			DevelopmentCommand: "node index.js",
			TestCommand:        "npm test",
			EnvironmentSeeds:   seeds("NODE_ENV", "development", "test", "staging", "production"),
		},
		{
			// mix has no staging env; both remote targets run prod
			Framework:          types.Elixir,
			BuildTemplateName:  "Dockerfile-elixir",
			BaseImage:          "elixir:latest",
			RunCommand:         "mix run --no-halt",
			DevelopmentCommand: "mix run",
			TestCommand:        "mix test",
			EnvironmentSeeds:   seeds("MIX_ENV", "dev", "test", "prod", "prod"),
		},
	}
}
