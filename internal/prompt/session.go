package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// SessionValues holds one guest's answers for a single pass through an
// experience, keyed by step id.
type SessionValues map[string]SessionValue

// SessionValue is what a completed step wrote into the session. Questions
// fill Text or Selections; capture steps may leave a textual Label.
//
// In JSON and YAML a bare string decodes as Text and a list as a
// multi-select answer; an object sets the fields directly.
type SessionValue struct {
	Text        string   `json:"text,omitempty" yaml:"text,omitempty"`
	Selections  []string `json:"selections,omitempty" yaml:"selections,omitempty"`
	MultiSelect bool     `json:"multiSelect,omitempty" yaml:"multiSelect,omitempty"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty"`
}

// TextValue is the answer to a text or single-select question.
func TextValue(s string) SessionValue {
	return SessionValue{Text: s}
}

// MultiSelectValue is the answer to a multi-select question.
func MultiSelectValue(selections ...string) SessionValue {
	return SessionValue{Selections: selections, MultiSelect: true}
}

// CaptureLabel is the textual label a capture step produced.
func CaptureLabel(label string) SessionValue {
	return SessionValue{Label: label}
}

type sessionValueFields SessionValue

func (v *SessionValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = SessionValue{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("session value list: %w", err)
		}
		*v = MultiSelectValue(list...)
	case '{':
		var fields sessionValueFields
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return err
		}
		*v = SessionValue(fields)
	default:
		// Numbers and booleans keep their literal spelling.
		*v = TextValue(string(trimmed))
	}
	return nil
}

func (v *SessionValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*v = SessionValue{}
			return nil
		}
		*v = TextValue(node.Value)
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("session value list: %w", err)
		}
		*v = MultiSelectValue(list...)
	case yaml.MappingNode:
		var fields sessionValueFields
		if err := node.Decode(&fields); err != nil {
			return err
		}
		*v = SessionValue(fields)
	default:
		return fmt.Errorf("unsupported session value at line %d", node.Line)
	}
	return nil
}

// text renders the value as prompt text. Multi-select answers become a
// natural-language list.
func (v SessionValue) text(multi bool) string {
	if (multi || v.MultiSelect) && len(v.Selections) > 0 {
		return JoinNatural(v.Selections)
	}
	if v.Text != "" {
		return v.Text
	}
	return JoinNatural(v.Selections)
}

// JoinNatural joins items as "a", "a and b" or "a, b and c". Blank items
// are skipped.
func JoinNatural(items []string) string {
	kept := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(it); s != "" {
			kept = append(kept, s)
		}
	}
	switch len(kept) {
	case 0:
		return ""
	case 1:
		return kept[0]
	}
	return strings.Join(kept[:len(kept)-1], ", ") + " and " + kept[len(kept)-1]
}
