package avro

import (
	"fmt"
	"strings"
)

var primitives = map[string]bool{
	"null":    true,
	"boolean": true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
	"bytes":   true,
	"string":  true,
}

// node is the validator's view of a schema. Named types are shared between
// every place that references them, so recursive schemas form cycles.
type node struct {
	kind    string
	name    string // full name of records, enums and fixed
	logical string

	fields  []field
	symbols map[string]bool
	size    int
	items   *node
	values  *node
	members []*node
}

type field struct {
	name       string
	typ        *node
	hasDefault bool
}

// logicalUnionKeys are the logical types goavro builds a dedicated codec
// for. Inside a union their values are keyed "<type>.<logicalType>"; other
// logical types fall back to the underlying type's key.
var logicalUnionKeys = map[string]bool{
	"int.date":               true,
	"int.time-millis":        true,
	"long.time-micros":       true,
	"long.timestamp-millis":  true,
	"long.timestamp-micros":  true,
	"bytes.decimal":          true,
	"string.validated-string": true,
}

// unionKey is the key goavro uses for a value of this type inside a union.
// Named types, decimal fixed included, use their full name.
func (n *node) unionKey() string {
	if n.name != "" {
		return n.name
	}
	if n.logical != "" {
		if key := n.kind + "." + n.logical; logicalUnionKeys[key] {
			return key
		}
	}
	return n.kind
}

type treeBuilder struct {
	named map[string]*node
}

func newTreeBuilder() *treeBuilder {
	return &treeBuilder{named: make(map[string]*node)}
}

func (b *treeBuilder) build(raw interface{}, namespace string) (*node, error) {
	switch v := raw.(type) {
	case string:
		return b.reference(v, namespace)
	case []interface{}:
		n := &node{kind: "union"}
		for _, m := range v {
			member, err := b.build(m, namespace)
			if err != nil {
				return nil, err
			}
			n.members = append(n.members, member)
		}
		return n, nil
	case map[string]interface{}:
		return b.complex(v, namespace)
	default:
		return nil, fmt.Errorf("unexpected schema element %T", raw)
	}
}

func (b *treeBuilder) reference(name, namespace string) (*node, error) {
	if primitives[name] {
		return &node{kind: name}, nil
	}
	if n, ok := b.named[qualify(name, namespace)]; ok {
		return n, nil
	}
	if n, ok := b.named[name]; ok {
		return n, nil
	}
	return nil, fmt.Errorf("unknown type %q", name)
}

func (b *treeBuilder) complex(v map[string]interface{}, namespace string) (*node, error) {
	typ, _ := v["type"].(string)
	logical, _ := v["logicalType"].(string)

	switch typ {
	case "record", "error", "enum", "fixed":
		return b.namedType(typ, v, namespace)
	case "array":
		items, err := b.build(v["items"], namespace)
		if err != nil {
			return nil, err
		}
		return &node{kind: "array", items: items}, nil
	case "map":
		values, err := b.build(v["values"], namespace)
		if err != nil {
			return nil, err
		}
		return &node{kind: "map", values: values}, nil
	case "":
		// {"type": {...}} or {"type": [...]}
		n, err := b.build(v["type"], namespace)
		if err != nil {
			return nil, err
		}
		return n, nil
	default:
		n, err := b.reference(typ, namespace)
		if err != nil {
			return nil, err
		}
		if logical != "" && primitives[typ] {
			return &node{kind: n.kind, logical: logical}, nil
		}
		return n, nil
	}
}

func (b *treeBuilder) namedType(typ string, v map[string]interface{}, namespace string) (*node, error) {
	name, _ := v["name"].(string)
	if ns, ok := v["namespace"].(string); ok && !strings.Contains(name, ".") {
		namespace = ns
	}
	fullName := qualify(name, namespace)
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		namespace = fullName[:i]
	}

	n := &node{name: fullName}
	n.logical, _ = v["logicalType"].(string)
	b.named[fullName] = n

	switch typ {
	case "enum":
		n.kind = "enum"
		n.symbols = make(map[string]bool)
		symbols, _ := v["symbols"].([]interface{})
		for _, s := range symbols {
			if str, ok := s.(string); ok {
				n.symbols[str] = true
			}
		}
	case "fixed":
		n.kind = "fixed"
		size, _ := v["size"].(float64)
		n.size = int(size)
	default:
		n.kind = "record"
		fields, _ := v["fields"].([]interface{})
		for _, f := range fields {
			fm, ok := f.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("record %q: field is not an object", fullName)
			}
			fieldName, _ := fm["name"].(string)
			ft, err := b.build(fm["type"], namespace)
			if err != nil {
				return nil, fmt.Errorf("record %q field %q: %w", fullName, fieldName, err)
			}
			_, hasDefault := fm["default"]
			n.fields = append(n.fields, field{name: fieldName, typ: ft, hasDefault: hasDefault})
		}
	}
	return n, nil
}

func qualify(name, namespace string) string {
	if strings.Contains(name, ".") || namespace == "" {
		return name
	}
	return namespace + "." + name
}
