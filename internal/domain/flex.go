package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FlexString accepts a JSON string or number and keeps its literal text ("2", 2, 2.50 all decode).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// FlexBool accepts true/false or the form strings "true", "1", "yes" (anything else is false).
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*f = true
	case bytes.Equal(data, []byte("false")), bytes.Equal(data, []byte("null")):
		*f = false
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "1", "yes":
			*f = true
		default:
			*f = false
		}
	default:
		*f = string(data) != "0"
	}
	return nil
}

// StringList accepts a JSON array, a string holding a JSON array, or a single string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	v, err := decodeAttributeValue(data)
	if err != nil {
		return err
	}
	*l = StringList(v.Items())
	return nil
}

// Items returns the trimmed, non-empty entries
func (l StringList) Items() []string {
	return List(l).Items()
}
