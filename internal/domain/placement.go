package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MediaPlacement is one entry of the caller's desired media order.
// It is either an UploadPlacement or a PlatformPlacement.
type MediaPlacement interface {
	mediaPlacement()
	// TargetPosition returns the explicit 1-based position, if one was supplied.
	TargetPosition() (int, bool)
}

// UploadPlacement refers to the Sequence-th newly uploaded file (0-based, in upload order).
type UploadPlacement struct {
	Sequence int
	Position int
}

// PlatformPlacement refers to media already on Shopify, by REST id or global id.
type PlatformPlacement struct {
	ID       string
	Position int
}

func (UploadPlacement) mediaPlacement()   {}
func (PlatformPlacement) mediaPlacement() {}

func (p UploadPlacement) TargetPosition() (int, bool)   { return p.Position, p.Position > 0 }
func (p PlatformPlacement) TargetPosition() (int, bool) { return p.Position, p.Position > 0 }

// MediaOrder is the ordered list of placements sent by the front end
type MediaOrder []MediaPlacement

type placementJSON struct {
	Type     string          `json:"type"`
	Index    int             `json:"index"`
	ID       json.RawMessage `json:"id,omitempty"`
	Position *int            `json:"position,omitempty"`
}

// UnmarshalJSON decodes [{"type":"upload","index":0}, {"type":"shopify","id":"...","position":2}].
// "platform" is accepted as an alias of "shopify".
func (o *MediaOrder) UnmarshalJSON(data []byte) error {
	var raw []placementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(MediaOrder, 0, len(raw))
	for i, item := range raw {
		position := 0
		if item.Position != nil {
			position = *item.Position
		}
		switch strings.ToLower(strings.TrimSpace(item.Type)) {
		case "upload":
			out = append(out, UploadPlacement{Sequence: item.Index, Position: position})
		case "shopify", "platform":
			out = append(out, PlatformPlacement{ID: rawID(item.ID), Position: position})
		default:
			return fmt.Errorf("media_order[%d]: unknown type %q", i, item.Type)
		}
	}
	*o = out
	return nil
}

func (o MediaOrder) MarshalJSON() ([]byte, error) {
	raw := make([]map[string]interface{}, 0, len(o))
	for _, p := range o {
		item := map[string]interface{}{}
		switch v := p.(type) {
		case UploadPlacement:
			item["type"] = "upload"
			item["index"] = v.Sequence
		case PlatformPlacement:
			item["type"] = "shopify"
			item["id"] = v.ID
		}
		if pos, ok := p.TargetPosition(); ok {
			item["position"] = pos
		}
		raw = append(raw, item)
	}
	return json.Marshal(raw)
}

// rawID accepts both "gid://shopify/MediaImage/1" and 123
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return strings.Trim(string(raw), `"`)
}
