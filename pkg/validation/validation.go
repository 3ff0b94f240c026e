// Package validation checks generated documents before they are written:
// CUE schemas for structure, plus cross-service consistency rules.
package validation

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaCUE string

// Validator provides CUE-based validation for generated documents
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// New creates a new validator with the embedded schema compiled
func New() (*Validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", schema.Err())
	}
	return &Validator{ctx: ctx, schema: schema}, nil
}

// ValidateProjectName checks that a project name is lowercase with hyphens
func (v *Validator) ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}

	nameValidator := v.ctx.CompileString(fmt.Sprintf(`
		import "regexp"
		name: %q
		valid: regexp.Match("^[a-z][a-z0-9-]*$", name) && !regexp.Match("--|-$", name)
	`, name))

	valid := nameValidator.LookupPath(cue.ParsePath("valid"))
	if ok, _ := valid.Bool(); !ok {
		return fmt.Errorf("invalid project name '%s': must be lowercase with hyphens (e.g., my-app)", name)
	}
	return nil
}

// ValidateCompose validates an encoded compose document
func (v *Validator) ValidateCompose(data []byte) error {
	return v.validateYAML("compose.yml", data, "#ComposeFile")
}

// ValidateObject validates one encoded remote object against the schema for its kind
func (v *Validator) ValidateObject(data []byte) error {
	value, err := v.extract("object.yml", data)
	if err != nil {
		return err
	}

	kind, err := value.LookupPath(cue.ParsePath("kind")).String()
	if err != nil {
		return fmt.Errorf("object has no kind: %w", err)
	}

	switch kind {
	case "Deployment":
		return v.unify(value, "#Deployment")
	case "Service":
		return v.unify(value, "#Service")
	default:
		return fmt.Errorf("unsupported object kind %q", kind)
	}
}

func (v *Validator) validateYAML(filename string, data []byte, definition string) error {
	value, err := v.extract(filename, data)
	if err != nil {
		return err
	}
	return v.unify(value, definition)
}

func (v *Validator) extract(filename string, data []byte) (cue.Value, error) {
	file, err := yaml.Extract(filename, data)
	if err != nil {
		return cue.Value{}, fmt.Errorf("invalid YAML: %w", err)
	}

	value := v.ctx.BuildFile(file)
	if value.Err() != nil {
		return cue.Value{}, fmt.Errorf("failed to parse YAML: %w", value.Err())
	}
	return value, nil
}

func (v *Validator) unify(value cue.Value, definition string) error {
	schema := v.schema.LookupPath(cue.ParsePath(definition))
	if !schema.Exists() {
		return fmt.Errorf("%s schema not found", definition)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
