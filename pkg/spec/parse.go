package spec

import (
	"fmt"

	"github.com/keboola/go-utils/pkg/orderedmap"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML or JSON document. Mappings at every level become
// *orderedmap.OrderedMap so their order survives decoding, or *LabeledMap when
// a key is typed as something other than a string.
func Parse(data []byte) (*Document, error) {
	return ParseFrom(nil, data)
}

// ParseFrom decodes data and records src as the document origin.
func ParseFrom(src Source, data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, specErrorf(src, "decode: %v", err)
	}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return nil, specErrorf(src, "document is empty")
	}

	value, err := convertNode(&root)
	if err != nil {
		return nil, specErrorf(src, "%v", err)
	}
	top, ok := asOrdered(value)
	if !ok {
		return nil, specErrorf(src, "top level must be a mapping of column name to backend, got %T", value)
	}

	columns := make([]Column, 0, len(top.Keys()))
	for _, name := range top.Keys() {
		raw, _ := top.Get(name)
		backends, ok := asOrdered(raw)
		if !ok {
			return nil, specErrorf(src, "column %q: expected a mapping of backend name to configuration, got %T", name, raw)
		}
		columns = append(columns, Column{Name: name, Backends: backends})
	}
	return newDocument(src, columns)
}

func convertNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return convertNode(node.Content[0])
	case yaml.AliasNode:
		return convertNode(node.Alias)
	case yaml.MappingNode:
		out := orderedmap.New()
		var labels map[string]any
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			key := keyNode.Value
			var label any
			if err := keyNode.Decode(&label); err != nil {
				return nil, fmt.Errorf("line %d: %w", keyNode.Line, err)
			}
			if _, isString := label.(string); !isString {
				if labels == nil {
					labels = make(map[string]any)
				}
				labels[key] = label
			}
			if _, exists := out.Get(key); exists {
				return nil, fmt.Errorf("line %d: duplicate key %q", keyNode.Line, key)
			}
			value, err := convertNode(valueNode)
			if err != nil {
				return nil, err
			}
			out.Set(key, value)
		}
		if labels != nil {
			return &LabeledMap{OrderedMap: out, labels: labels}, nil
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := convertNode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.ScalarNode:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %v", node.Line, node.Kind)
	}
}
