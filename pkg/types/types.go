// Package types provides the data model shared by the hokusai synthesizers.
// Values here are plain records; the resolver, catalog and synthesizers
// decide what goes into them.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFramework is returned when a framework tag is not registered
var ErrInvalidFramework = errors.New("invalid framework")

// Environment names a deployment target
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// AllEnvironments lists every environment a framework profile must seed
var AllEnvironments = []Environment{Development, Test, Staging, Production}

// RemoteEnvironments are served by the cluster orchestrator from registry images
var RemoteEnvironments = []Environment{Staging, Production}

// LocalEnvironment describes a compose-driven environment on a developer machine.
// Slot is the numeric index slotted add-ons embed in their connection strings;
// each local environment owns a distinct slot so they never share a keyspace.
type LocalEnvironment struct {
	Name         Environment
	Slot         int
	PublishPorts bool
}

// LocalEnvironments is the ordered table of local environments
var LocalEnvironments = []LocalEnvironment{
	{Name: Development, Slot: 0, PublishPorts: true},
	{Name: Test, Slot: 1, PublishPorts: false},
}

// ValidateLocalEnvironments checks that slots and names are unique
func ValidateLocalEnvironments(envs []LocalEnvironment) error {
	slots := make(map[int]Environment, len(envs))
	names := make(map[Environment]bool, len(envs))
	for _, env := range envs {
		if names[env.Name] {
			return fmt.Errorf("duplicate local environment %q", env.Name)
		}
		names[env.Name] = true
		if other, taken := slots[env.Slot]; taken {
			return fmt.Errorf("local environments %q and %q share slot %d", other, env.Name, env.Slot)
		}
		slots[env.Slot] = env.Name
	}
	return nil
}

// ProjectIdentity is the read-only record every synthesizer consumes
type ProjectIdentity struct {
	Name              string
	RegistryAccountID string
	RegistryRegion    string
}

// NewProjectIdentity normalizes the project name to lowercase with hyphens
func NewProjectIdentity(name, accountID, region string) ProjectIdentity {
	return ProjectIdentity{
		Name:              NormalizeProjectName(name),
		RegistryAccountID: strings.TrimSpace(accountID),
		RegistryRegion:    strings.TrimSpace(region),
	}
}

// NormalizeProjectName lowercases a name and replaces underscores with hyphens
func NormalizeProjectName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
}

// SecretName is the platform secret holding add-on endpoints in remote environments
func (p ProjectIdentity) SecretName() string {
	return p.Name + "-secrets"
}

// Addon identifies an optional backing service
type Addon string

const (
	Memcached Addon = "memcached"
	Redis     Addon = "redis"
	MongoDB   Addon = "mongodb"
	Postgres  Addon = "postgres"
	RabbitMQ  Addon = "rabbitmq"
)

// AddonSelection holds one independent flag per add-on
type AddonSelection struct {
	Memcached bool
	Redis     bool
	MongoDB   bool
	Postgres  bool
	RabbitMQ  bool
}

// Enabled reports whether the given add-on was requested
func (s AddonSelection) Enabled(addon Addon) bool {
	switch addon {
	case Memcached:
		return s.Memcached
	case Redis:
		return s.Redis
	case MongoDB:
		return s.MongoDB
	case Postgres:
		return s.Postgres
	case RabbitMQ:
		return s.RabbitMQ
	default:
		return false
	}
}

// Set toggles an add-on by name
func (s *AddonSelection) Set(addon Addon, enabled bool) error {
	switch addon {
	case Memcached:
		s.Memcached = enabled
	case Redis:
		s.Redis = enabled
	case MongoDB:
		s.MongoDB = enabled
	case Postgres:
		s.Postgres = enabled
	case RabbitMQ:
		s.RabbitMQ = enabled
	default:
		return fmt.Errorf("unknown add-on %q", addon)
	}
	return nil
}

// Any reports whether at least one add-on is enabled
func (s AddonSelection) Any() bool {
	return s.Memcached || s.Redis || s.MongoDB || s.Postgres || s.RabbitMQ
}

// SecretRef points at one key of a platform secret
type SecretRef struct {
	Name string
	Key  string
}

// EnvVar is either a literal value or a secret reference
type EnvVar struct {
	Name      string
	Value     string
	SecretRef *SecretRef
}

// Literal builds a literal environment variable
func Literal(name, value string) EnvVar {
	return EnvVar{Name: name, Value: value}
}

// FromSecret builds an environment variable resolved from a secret key
func FromSecret(name, secret, key string) EnvVar {
	return EnvVar{Name: name, SecretRef: &SecretRef{Name: secret, Key: key}}
}

// IsSecret reports whether the variable is resolved indirectly
func (e EnvVar) IsSecret() bool {
	return e.SecretRef != nil
}

// String renders a literal as NAME=value, the compose list form
func (e EnvVar) String() string {
	if e.IsSecret() {
		return fmt.Sprintf("%s=<secret %s/%s>", e.Name, e.SecretRef.Name, e.SecretRef.Key)
	}
	return e.Name + "=" + e.Value
}

// CopyEnv returns an independent copy of an environment list
func CopyEnv(env []EnvVar) []EnvVar {
	out := make([]EnvVar, len(env))
	for i, v := range env {
		out[i] = v
		if v.SecretRef != nil {
			ref := *v.SecretRef
			out[i].SecretRef = &ref
		}
	}
	return out
}
