package blueprint

import (
	"gopkg.in/yaml.v3"
)

// MarshalYAML renders the blueprint as an ordered mapping. Literals become
// scalars; keyword and function rules become small mappings.
func (b *Blueprint) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, attr := range b.order {
		root.Content = append(root.Content, scalar(attr), ruleNode(b.rules[attr]))
	}
	return root, nil
}

// String returns the YAML rendering, or the encoding error text.
func (b *Blueprint) String() string {
	out, err := yaml.Marshal(b)
	if err != nil {
		return err.Error()
	}
	return string(out)
}

func ruleNode(r Rule) *yaml.Node {
	switch r.Kind {
	case KindLiteral:
		return scalar(r.Value)
	case KindFunction:
		return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
			scalar("function"), scalar(r.Value),
		}}
	default:
		keys := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, k := range r.Keys {
			keys.Content = append(keys.Content, scalar(k))
		}
		n := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
			scalar("keywords"), keys,
		}}
		if r.HasDefault {
			n.Content = append(n.Content, scalar("default"), scalar(r.Default))
		}
		return n
	}
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
