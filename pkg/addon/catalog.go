// Package addon defines the catalog of optional backing services a project
// can be scaffolded with, and what each one contributes to the generated
// documents.
package addon

import (
	"fmt"
	"strconv"

	"github.com/fastertools/hokusai/pkg/types"
)

// Shape selects how a connection string tells local environments apart
type Shape int

const (
	// Shared endpoints are identical in every local environment
	Shared Shape = iota
	// Slotted endpoints embed the local environment's numeric slot
	Slotted
	// Namespaced endpoints embed the environment name as the database/vhost
	Namespaced
)

func (s Shape) String() string {
	switch s {
	case Shared:
		return "shared"
	case Slotted:
		return "slotted"
	case Namespaced:
		return "namespaced"
	default:
		return "unknown"
	}
}

// Definition is one catalog entry.
//
// URLFormat is a fmt format whose first verb is the service host. Slotted
// formats take the slot (%d) second, namespaced formats the environment
// name (%s) second, shared formats nothing else.
type Definition struct {
	Addon          types.Addon
	Suffix         string
	Image          string
	Command        string
	PrimaryPort    int
	SecondaryPorts []int
	EnvVarName     string
	Shape          Shape
	URLFormat      string
	// DevelopmentOnlyPorts publishes ports to the host only in environments
	// that publish ports (development).
	DevelopmentOnlyPorts bool
}

var catalog = []Definition{
	{
		Addon:                types.Memcached,
		Suffix:               "memcached",
		Image:                "memcached",
		PrimaryPort:          11211,
		EnvVarName:           "MEMCACHED_SERVERS",
		Shape:                Shared,
		URLFormat:            "%s:11211",
		DevelopmentOnlyPorts: true,
	},
	{
		Addon:                types.Redis,
		Suffix:               "redis",
		Image:                "redis:3.2-alpine",
		PrimaryPort:          6379,
		EnvVarName:           "REDIS_URL",
		Shape:                Slotted,
		URLFormat:            "redis://%s:6379/%d",
		DevelopmentOnlyPorts: true,
	},
	// Remote workloads use mongo:3.0 too; mongodb:3.0 is not a published image
	{
		Addon:                types.MongoDB,
		Suffix:               "mongodb",
		Image:                "mongo:3.0",
		Command:              "mongod --smallfiles",
		PrimaryPort:          27017,
		EnvVarName:           "MONGO_URL",
		Shape:                Namespaced,
		URLFormat:            "mongodb://%s:27017/%s",
		DevelopmentOnlyPorts: true,
	},
	{
		Addon:                types.Postgres,
		Suffix:               "postgres",
		Image:                "postgres:9.4",
		PrimaryPort:          5432,
		EnvVarName:           "DATABASE_URL",
		Shape:                Namespaced,
		URLFormat:            "postgresql://%s/%s",
		DevelopmentOnlyPorts: true,
	},
	{
		Addon:                types.RabbitMQ,
		Suffix:               "rabbitmq",
		Image:                "rabbitmq:3.6-management",
		PrimaryPort:          5672,
		SecondaryPorts:       []int{15672},
		EnvVarName:           "RABBITMQ_URL",
		Shape:                Namespaced,
		URLFormat:            "amqp://%s/%s",
		DevelopmentOnlyPorts: true,
	},
}

// Catalog returns a copy of the built-in catalog in declaration order
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	for i := range out {
		out[i].SecondaryPorts = append([]int(nil), catalog[i].SecondaryPorts...)
	}
	return out
}

// Enabled filters a catalog down to the selected add-ons, keeping catalog order
func Enabled(defs []Definition, sel types.AddonSelection) []Definition {
	var out []Definition
	for _, d := range defs {
		if sel.Enabled(d.Addon) {
			out = append(out, d)
		}
	}
	return out
}

// Lookup finds the built-in definition of an add-on
func Lookup(addon types.Addon) (Definition, bool) {
	for _, d := range Catalog() {
		if d.Addon == addon {
			return d, true
		}
	}
	return Definition{}, false
}

// Names returns the add-on names of a catalog
func Names(defs []Definition) []string {
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, string(d.Addon))
	}
	return names
}

// ValidateCatalog rejects entries whose service names or variables would collide
func ValidateCatalog(defs []Definition) error {
	suffixes := make(map[string]types.Addon)
	envVars := make(map[string]types.Addon)
	for _, d := range defs {
		if d.Suffix == "" || d.Image == "" || d.EnvVarName == "" || d.PrimaryPort <= 0 {
			return fmt.Errorf("add-on %q: suffix, image, env var and primary port are required", d.Addon)
		}
		if other, ok := suffixes[d.Suffix]; ok {
			return fmt.Errorf("add-ons %q and %q share service suffix %q", other, d.Addon, d.Suffix)
		}
		suffixes[d.Suffix] = d.Addon
		if other, ok := envVars[d.EnvVarName]; ok {
			return fmt.Errorf("add-ons %q and %q share env var %q", other, d.Addon, d.EnvVarName)
		}
		envVars[d.EnvVarName] = d.Addon
	}
	return nil
}

// ServiceName is the compose service / workload name for a project
func (d Definition) ServiceName(project string) string {
	return project + "-" + d.Suffix
}

// ConnectionString renders the endpoint the application uses in a local environment
func (d Definition) ConnectionString(project string, env types.LocalEnvironment) string {
	host := d.ServiceName(project)
	switch d.Shape {
	case Slotted:
		return fmt.Sprintf(d.URLFormat, host, env.Slot)
	case Namespaced:
		return fmt.Sprintf(d.URLFormat, host, env.Name)
	default:
		return fmt.Sprintf(d.URLFormat, host)
	}
}

// Ports returns primary then secondary ports
func (d Definition) Ports() []int {
	return append([]int{d.PrimaryPort}, d.SecondaryPorts...)
}

// LocalService builds the compose service entry for a local environment
func (d Definition) LocalService(project string, env types.LocalEnvironment) *types.Service {
	svc := &types.Service{
		Name:    d.ServiceName(project),
		Image:   d.Image,
		Command: d.Command,
	}
	if env.PublishPorts || !d.DevelopmentOnlyPorts {
		for _, p := range d.Ports() {
			svc.Ports = append(svc.Ports, PortMapping(p, p))
		}
	}
	return svc
}

// LocalEnvVar is the literal variable the application receives locally
func (d Definition) LocalEnvVar(project string, env types.LocalEnvironment) types.EnvVar {
	return types.Literal(d.EnvVarName, d.ConnectionString(project, env))
}

// SecretEnvVar is the variable the application receives remotely, resolved
// from the project's secret under the add-on's env var key
func (d Definition) SecretEnvVar(project types.ProjectIdentity) types.EnvVar {
	return types.FromSecret(d.EnvVarName, project.SecretName(), d.EnvVarName)
}

// Workload is the internal-only remote deployment of the add-on
func (d Definition) Workload(project string) types.Workload {
	return types.Workload{
		Name:  d.ServiceName(project),
		Image: d.Image,
		Port:  d.PrimaryPort,
	}
}

// PortMapping renders a host:container port publication
func PortMapping(host, container int) string {
	return strconv.Itoa(host) + ":" + strconv.Itoa(container)
}
