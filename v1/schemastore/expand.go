package schemastore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var primitiveTypes = map[string]bool{
	"null": true, "boolean": true, "int": true, "long": true,
	"float": true, "double": true, "bytes": true, "string": true,
}

// loadFunc reads the raw definition stored under a full name.
type loadFunc func(ctx context.Context, fullName string) (string, error)

// expand loads name and inlines the definition of every named type it
// references that it does not define itself. Each type is inlined once, at
// its first use; later uses stay references. The result is compact JSON that
// keeps the stored key order and number literals.
func expand(ctx context.Context, name string, load loadFunc) (string, error) {
	e := &expander{ctx: ctx, load: load, defined: make(map[string]bool)}

	root, err := e.loadType(name, "")
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := writeJSON(&buf, root); err != nil {
		return "", fmt.Errorf("failed to encode schema %q: %w", name, err)
	}
	return buf.String(), nil
}

type expander struct {
	ctx     context.Context
	load    loadFunc
	defined map[string]bool
}

// loadType reads fullName and walks it as if it were written inside
// namespace, which is where it ends up once inlined.
func (e *expander) loadType(fullName, namespace string) (interface{}, error) {
	text, err := e.load(e.ctx, fullName)
	if err != nil {
		return nil, err
	}

	raw, err := decodeJSON(text)
	if err != nil {
		return nil, fmt.Errorf("schema %q is not valid JSON: %w", fullName, err)
	}
	return e.walk(raw, namespace)
}

func (e *expander) walk(raw interface{}, namespace string) (interface{}, error) {
	switch v := raw.(type) {
	case string:
		return e.reference(v, namespace)
	case []interface{}:
		for i, member := range v {
			expanded, err := e.walk(member, namespace)
			if err != nil {
				return nil, err
			}
			v[i] = expanded
		}
		return v, nil
	case *jsonObject:
		return e.object(v, namespace)
	default:
		return raw, nil
	}
}

func (e *expander) reference(name, namespace string) (interface{}, error) {
	if primitiveTypes[name] {
		return name, nil
	}

	// qualify leaves name bare only when namespace is empty, so a short name
	// defined in another namespace never counts as a match.
	fullName := qualify(name, namespace)
	if e.defined[fullName] {
		return name, nil
	}

	loaded, err := e.loadType(fullName, namespace)
	if errors.Is(err, ErrSchemaNotFound) && fullName != name {
		loaded, err = e.loadType(name, namespace)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve referenced type %q: %w", name, err)
	}
	return loaded, nil
}

func (e *expander) object(v *jsonObject, namespace string) (interface{}, error) {
	typ, isString := v.get("type").(string)
	if !isString {
		expanded, err := e.walk(v.get("type"), namespace)
		if err != nil {
			return nil, err
		}
		v.set("type", expanded)
		return v, nil
	}

	switch typ {
	case "record", "error", "enum", "fixed":
		name, _ := v.get("name").(string)
		if ns, ok := v.get("namespace").(string); ok && !strings.Contains(name, ".") {
			namespace = ns
		}
		fullName := qualify(name, namespace)
		e.defined[fullName] = true
		if i := strings.LastIndex(fullName, "."); i >= 0 {
			namespace = fullName[:i]
		}

		fields, _ := v.get("fields").([]interface{})
		for _, f := range fields {
			field, ok := f.(*jsonObject)
			if !ok {
				continue
			}
			expanded, err := e.walk(field.get("type"), namespace)
			if err != nil {
				return nil, err
			}
			field.set("type", expanded)
		}
	case "array":
		expanded, err := e.walk(v.get("items"), namespace)
		if err != nil {
			return nil, err
		}
		v.set("items", expanded)
	case "map":
		expanded, err := e.walk(v.get("values"), namespace)
		if err != nil {
			return nil, err
		}
		v.set("values", expanded)
	default:
		expanded, err := e.reference(typ, namespace)
		if err != nil {
			return nil, err
		}
		v.set("type", expanded)
	}
	return v, nil
}

func qualify(name, namespace string) string {
	if strings.Contains(name, ".") || namespace == "" {
		return name
	}
	return namespace + "." + name
}

// jsonObject is a JSON object that remembers the order of its keys.
type jsonObject struct {
	keys   []string
	values map[string]interface{}
}

func (o *jsonObject) get(key string) interface{} {
	return o.values[key]
}

func (o *jsonObject) set(key string, value interface{}) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *jsonObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, o.values[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSON appends v to buf without HTML escaping or a trailing newline.
func writeJSON(buf *bytes.Buffer, v interface{}) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Truncate(buf.Len() - 1)
	return nil
}

// decodeJSON parses text into strings, json.Number, bool, nil, slices and
// *jsonObject values.
func decodeJSON(text string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after the top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch tok {
	case json.Delim('{'):
		obj := &jsonObject{values: make(map[string]interface{})}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", keyTok)
			}
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case json.Delim('['):
		arr := []interface{}{}
		for dec.More() {
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return tok, nil
	}
}
