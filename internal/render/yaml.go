package render

import (
	"bytes"

	"github.com/flarebyte/ssr/internal/environment"
	"github.com/flarebyte/ssr/internal/ssr"
	"gopkg.in/yaml.v3"
)

// MarshalYAML returns canonical YAML for results: fixed field order and
// environments in declaration order.
func MarshalYAML(results []ssr.Result) ([]byte, error) {
	top := &yaml.Node{Kind: yaml.SequenceNode}
	if len(results) == 0 {
		top.Style = yaml.FlowStyle
	}
	for _, r := range results {
		top.Content = append(top.Content, resultNode(r))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(top); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	out = append(out, '\n')
	return out, nil
}

func resultNode(r ssr.Result) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	n.Content = append(n.Content,
		scalarNode("name"), scalarNode(r.Name),
		scalarNode("description"), scalarNode(r.Description),
		scalarNode("key"), scalarNode(r.Key),
		scalarNode("url"), urlNode(r),
	)
	return n
}

func urlNode(r ssr.Result) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, t := range environment.All() {
		u, ok := r.URL(t)
		if !ok {
			continue
		}
		n.Content = append(n.Content, scalarNode(t.String()), scalarNode(u))
	}
	if len(n.Content) == 0 {
		n.Style = yaml.FlowStyle
	}
	return n
}

func scalarNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
