package types

import "fmt"

// Framework is a registered framework tag
type Framework string

const (
	Rack   Framework = "rack"
	NodeJS Framework = "nodejs"
	Elixir Framework = "elixir"
)

// FrameworkProfile pins the build template, base image and invocation commands
// of one framework. Run, development and test commands are distinct slots.
type FrameworkProfile struct {
	Framework          Framework
	BuildTemplateName  string
	BaseImage          string
	RunCommand         string
	DevelopmentCommand string
	TestCommand        string
	EnvironmentSeeds   map[Environment][]EnvVar
}

// CommandFor returns the command a local environment runs
func (p *FrameworkProfile) CommandFor(env Environment) string {
	switch env {
	case Development:
		return p.DevelopmentCommand
	case Test:
		return p.TestCommand
	default:
		return p.RunCommand
	}
}

// Seeds returns a copy of the seeded variables for an environment
func (p *FrameworkProfile) Seeds(env Environment) []EnvVar {
	return CopyEnv(p.EnvironmentSeeds[env])
}

// Validate checks that the profile is complete
func (p *FrameworkProfile) Validate() error {
	if p.Framework == "" {
		return fmt.Errorf("framework tag cannot be empty")
	}
	if p.BuildTemplateName == "" || p.BaseImage == "" {
		return fmt.Errorf("framework %s: build template and base image are required", p.Framework)
	}
	if p.RunCommand == "" || p.DevelopmentCommand == "" || p.TestCommand == "" {
		return fmt.Errorf("framework %s: run, development and test commands are required", p.Framework)
	}
	for _, env := range AllEnvironments {
		if len(p.EnvironmentSeeds[env]) == 0 {
			return fmt.Errorf("framework %s: no environment seeds for %s", p.Framework, env)
		}
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate a registered profile
func (p *FrameworkProfile) Clone() *FrameworkProfile {
	out := *p
	out.EnvironmentSeeds = make(map[Environment][]EnvVar, len(p.EnvironmentSeeds))
	for env, seeds := range p.EnvironmentSeeds {
		out.EnvironmentSeeds[env] = CopyEnv(seeds)
	}
	return &out
}
