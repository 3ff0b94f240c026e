package types

import "fmt"

// ComposeVersion is the compose file format the local documents declare
const ComposeVersion = "2"

// BuildContext declares a service built from local source
type BuildContext struct {
	Context string
}

// Extends points a service at a definition in another compose file
type Extends struct {
	File    string
	Service string
}

// Service is one entry of a compose document. Fields are emitted in
// declaration order; empty fields are omitted.
type Service struct {
	Name        string
	Build       *BuildContext
	Extends     *Extends
	Image       string
	Command     string
	Ports       []string
	Environment []EnvVar
	DependsOn   []string
}

// ComposeDocument is an ordered mapping from service name to service
type ComposeDocument struct {
	Version  string
	Services []*Service
}

// NewComposeDocument creates an empty document at the current compose version
func NewComposeDocument() *ComposeDocument {
	return &ComposeDocument{Version: ComposeVersion}
}

// Add appends a service, rejecting duplicate names
func (d *ComposeDocument) Add(svc *Service) error {
	if d.Service(svc.Name) != nil {
		return fmt.Errorf("service %q already defined", svc.Name)
	}
	d.Services = append(d.Services, svc)
	return nil
}

// Service looks up a service by name
func (d *ComposeDocument) Service(name string) *Service {
	for _, svc := range d.Services {
		if svc.Name == name {
			return svc
		}
	}
	return nil
}

// Names returns service names in document order
func (d *ComposeDocument) Names() []string {
	names := make([]string, 0, len(d.Services))
	for _, svc := range d.Services {
		names = append(names, svc.Name)
	}
	return names
}

// Workload describes one remote deployment and the service exposing it
type Workload struct {
	Name        string
	Image       string
	Port        int
	Environment []EnvVar
	AlwaysPull  bool
	External    bool
}
