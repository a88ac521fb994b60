package spec

import "github.com/keboola/go-utils/pkg/orderedmap"

// LabeledMap is a mapping with at least one key that YAML types as something
// other than a string, such as `1: 5` or `true: 2`. Entries stay addressable by
// the key's source text through the embedded OrderedMap; Label recovers the
// typed key.
type LabeledMap struct {
	*orderedmap.OrderedMap
	labels map[string]any
}

// NewLabeledMap wraps m, recording the typed form of the keys in labels.
// Keys missing from labels are plain strings.
func NewLabeledMap(m *orderedmap.OrderedMap, labels map[string]any) *LabeledMap {
	if m == nil {
		m = orderedmap.New()
	}
	copied := make(map[string]any, len(labels))
	for k, v := range labels {
		copied[k] = v
	}
	return &LabeledMap{OrderedMap: m, labels: copied}
}

// Label returns the typed key stored under key.
func (m *LabeledMap) Label(key string) any {
	if label, ok := m.labels[key]; ok {
		return label
	}
	return key
}

// asOrdered unwraps the mapping forms produced by Parse.
func asOrdered(value any) (*orderedmap.OrderedMap, bool) {
	switch v := value.(type) {
	case *orderedmap.OrderedMap:
		return v, v != nil
	case *LabeledMap:
		if v == nil || v.OrderedMap == nil {
			return nil, false
		}
		return v.OrderedMap, true
	}
	return nil, false
}
