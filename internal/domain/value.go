package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AttributeValue is the value of a metafield as supplied by a caller: either a Scalar or a List.
type AttributeValue interface {
	attributeValue()
	// Items returns the value as a list of trimmed, non-empty strings.
	Items() []string
}

// Scalar is a single raw string value. It may itself hold a JSON array literal.
type Scalar string

// List is an ordered sequence of strings.
type List []string

func (Scalar) attributeValue() {}
func (List) attributeValue()   {}

// Items splits a JSON array literal, otherwise returns the trimmed scalar.
func (s Scalar) Items() []string {
	v := strings.TrimSpace(string(s))
	if v == "" {
		return nil
	}
	if strings.HasPrefix(v, "[") {
		var arr []interface{}
		if err := json.Unmarshal([]byte(v), &arr); err == nil {
			return List(stringifyAll(arr)).Items()
		}
	}
	return []string{v}
}

func (l List) Items() []string {
	out := make([]string, 0, len(l))
	for _, v := range l {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Metafield is one custom attribute the caller wants written on the product
type Metafield struct {
	Namespace string
	Key       string
	Type      string
	Value     AttributeValue
}

type metafieldJSON struct {
	Namespace string          `json:"namespace"`
	Key       string          `json:"key"`
	Type      string          `json:"type,omitempty"`
	Value     json.RawMessage `json:"value"`
}

// UnmarshalJSON accepts a string, number, bool or array value.
func (m *Metafield) UnmarshalJSON(data []byte) error {
	var raw metafieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Namespace = raw.Namespace
	m.Key = raw.Key
	m.Type = raw.Type
	v, err := decodeAttributeValue(raw.Value)
	if err != nil {
		return fmt.Errorf("metafield %s.%s: %w", raw.Namespace, raw.Key, err)
	}
	m.Value = v
	return nil
}

func (m Metafield) MarshalJSON() ([]byte, error) {
	var value interface{} = ""
	switch v := m.Value.(type) {
	case Scalar:
		value = string(v)
	case List:
		value = []string(v)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(metafieldJSON{Namespace: m.Namespace, Key: m.Key, Type: m.Type, Value: raw})
}

// TypeOrDefault returns the declared type or single_line_text_field
func (m Metafield) TypeOrDefault() string {
	if strings.TrimSpace(m.Type) == "" {
		return MetafieldTypeSingleLine
	}
	return m.Type
}

// NamespaceOrDefault returns the declared namespace or custom
func (m Metafield) NamespaceOrDefault() string {
	if strings.TrimSpace(m.Namespace) == "" {
		return NamespaceCustom
	}
	return m.Namespace
}

func decodeAttributeValue(raw json.RawMessage) (AttributeValue, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Scalar(""), nil
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return Scalar(s), nil
	case '[':
		var arr []interface{}
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil, err
		}
		return List(stringifyAll(arr)), nil
	default:
		var v interface{}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		return Scalar(stringify(v)), nil
	}
}

func stringifyAll(arr []interface{}) []string {
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if v == nil {
			continue
		}
		out = append(out, stringify(v))
	}
	return out
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
