package validation

import (
	"fmt"

	"github.com/docker/go-connections/nat"

	"github.com/fastertools/hokusai/pkg/types"
)

// CheckCompose verifies cross-service rules a schema cannot express:
// every dependency names a service of the same document, dependency lists
// are never empty, port publications parse, and no two services publish the
// same host port.
func CheckCompose(doc *types.ComposeDocument) error {
	hostPorts := make(map[string]string)

	for _, svc := range doc.Services {
		if svc.DependsOn != nil && len(svc.DependsOn) == 0 {
			return fmt.Errorf("service %q has an empty dependency list", svc.Name)
		}
		for _, dep := range svc.DependsOn {
			if dep == svc.Name {
				return fmt.Errorf("service %q depends on itself", svc.Name)
			}
			if doc.Service(dep) == nil {
				return fmt.Errorf("service %q depends on undefined service %q", svc.Name, dep)
			}
		}

		for _, spec := range svc.Ports {
			mappings, err := nat.ParsePortSpec(spec)
			if err != nil {
				return fmt.Errorf("service %q: invalid port %q: %w", svc.Name, spec, err)
			}
			for _, m := range mappings {
				host := m.Binding.HostPort
				if host == "" {
					continue
				}
				if owner, taken := hostPorts[host]; taken {
					return fmt.Errorf("services %q and %q both publish host port %s", owner, svc.Name, host)
				}
				hostPorts[host] = svc.Name
			}
		}
	}
	return nil
}
