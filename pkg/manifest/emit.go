// Package manifest serializes synthesized documents to their final text.
// Output is deterministic: the same document always encodes to the same bytes.
package manifest

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/runtime"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/fastertools/hokusai/pkg/types"
)

// Header marks generated files
const Header = "# This file was generated by hokusai setup. Re-running setup overwrites it.\n"

// DocumentSeparator starts each object of a multi-document stream
const DocumentSeparator = "---\n"

// EncodeCompose renders a compose document with keys in insertion order
func EncodeCompose(doc *types.ComposeDocument) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("compose document is nil")
	}
	if doc.Version == "" {
		return nil, fmt.Errorf("compose document has no version")
	}

	services := mapping()
	for _, svc := range doc.Services {
		services.Content = append(services.Content, str(svc.Name), serviceNode(svc))
	}

	root := mapping(
		str("version"), quoted(doc.Version),
		str("services"), services,
	)

	var buf bytes.Buffer
	buf.WriteString(Header)
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return nil, fmt.Errorf("failed to encode compose document: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode compose document: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeObjects renders objects as a multi-document YAML stream
func EncodeObjects(objects []runtime.Object) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	for i, obj := range objects {
		data, err := EncodeObject(obj)
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		buf.WriteString(DocumentSeparator)
		buf.Write(data)
	}
	return buf.Bytes(), nil
}

// EncodeObject renders a single object without header or separator
func EncodeObject(obj runtime.Object) ([]byte, error) {
	if obj == nil {
		return nil, fmt.Errorf("object is nil")
	}
	data, err := sigsyaml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", obj.GetObjectKind().GroupVersionKind().Kind, err)
	}
	return data, nil
}

func serviceNode(svc *types.Service) *yaml.Node {
	node := mapping()
	add := func(key string, value *yaml.Node) {
		node.Content = append(node.Content, str(key), value)
	}

	if svc.Build != nil {
		add("build", mapping(str("context"), str(svc.Build.Context)))
	}
	if svc.Extends != nil {
		add("extends", mapping(
			str("file"), str(svc.Extends.File),
			str("service"), str(svc.Extends.Service),
		))
	}
	if svc.Image != "" {
		add("image", str(svc.Image))
	}
	if svc.Command != "" {
		add("command", str(svc.Command))
	}
	if len(svc.Ports) > 0 {
		ports := sequence()
		for _, p := range svc.Ports {
			// unquoted host:container pairs read as base-60 ints in YAML 1.1
			ports.Content = append(ports.Content, quoted(p))
		}
		add("ports", ports)
	}
	if len(svc.Environment) > 0 {
		env := sequence()
		for _, v := range svc.Environment {
			env.Content = append(env.Content, str(v.String()))
		}
		add("environment", env)
	}
	if len(svc.DependsOn) > 0 {
		deps := sequence()
		for _, d := range svc.DependsOn {
			deps.Content = append(deps.Content, str(d))
		}
		add("depends_on", deps)
	}
	return node
}

func mapping(content ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: content}
}

func sequence() *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
}

func str(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func quoted(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.DoubleQuotedStyle}
}
