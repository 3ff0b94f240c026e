// Package scaffold renders build files from embedded CUE templates and
// writes the full set of generated project files.
package scaffold

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed templates.cue
var templatesCUE string

// Scaffolder renders build files using CUE templates
type Scaffolder struct {
	ctx       *cue.Context
	templates cue.Value
}

// NewScaffolder creates a new scaffolder with embedded templates
func NewScaffolder() (*Scaffolder, error) {
	ctx := cuecontext.New()

	templates := ctx.CompileString(templatesCUE, cue.Filename("templates.cue"))
	if templates.Err() != nil {
		return nil, fmt.Errorf("failed to compile templates: %w", templates.Err())
	}

	return &Scaffolder{
		ctx:       ctx,
		templates: templates,
	}, nil
}

// ListTemplates returns the available build-file template names
func (s *Scaffolder) ListTemplates() []string {
	var names []string

	iter, err := s.templates.LookupPath(cue.ParsePath("buildFiles")).Fields()
	if err != nil {
		return names
	}
	for iter.Next() {
		names = append(names, iter.Selector().Unquoted())
	}
	sort.Strings(names)
	return names
}

// RenderBuildFile fills a build-file template with the base image, command
// and exposed port
func (s *Scaffolder) RenderBuildFile(template, baseImage, command string, port int) (string, error) {
	tmpl := s.templates.LookupPath(cue.MakePath(cue.Str("buildFiles"), cue.Str(template)))
	if !tmpl.Exists() {
		return "", fmt.Errorf("unknown build template '%s': must be one of %v", template, s.ListTemplates())
	}

	filled := tmpl.FillPath(cue.ParsePath("base_image"), baseImage)
	filled = filled.FillPath(cue.ParsePath("command"), command)
	filled = filled.FillPath(cue.ParsePath("target_port"), port)
	if err := filled.Validate(cue.Concrete(true)); err != nil {
		return "", fmt.Errorf("failed to fill template %s: %w", template, err)
	}

	content, err := filled.LookupPath(cue.ParsePath("content")).String()
	if err != nil {
		return "", fmt.Errorf("failed to extract content for %s: %w", template, err)
	}

	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content, nil
}
