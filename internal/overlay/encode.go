package overlay

import (
	"bytes"
	"fmt"
	"io"

	"go.yaml.in/yaml/v4"
)

// Node returns the YAML tree of the document.
func (d Document) Node() *yaml.Node {
	services := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if len(d.Services) == 0 {
		services.Style = yaml.FlowStyle
	}
	for _, svc := range d.Services {
		services.Content = append(services.Content, str(svc.Name), svc.node())
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	root.Content = append(root.Content, str("services"), services)
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
}

func (s Service) node() *yaml.Node {
	env := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, item := range s.Environment {
		env.Content = append(env.Content, str(item.String()))
	}

	extends := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	extends.Content = append(extends.Content,
		str("service"), str(s.Extends.Service),
		str("file"), str(s.Extends.File),
	)

	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	out.Content = append(out.Content,
		str("container_name"), str(s.ContainerName),
		str("environment"), env,
		str("extends"), extends,
	)
	return out
}

func str(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// Encode writes the document as YAML with two-space indentation.
func Encode(w io.Writer, d Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d.Node()); err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	return nil
}

// Marshal returns the encoded document.
func Marshal(d Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
