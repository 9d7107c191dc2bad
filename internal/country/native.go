package country

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// NativeName is one language's rendering of a country name.
type NativeName struct {
	Official string `json:"official"         yaml:"official"`
	Common   string `json:"common,omitempty" yaml:"common,omitempty"`
}

// NativeNameEntry pairs a language code with its NativeName.
type NativeNameEntry struct {
	Language string
	Name     NativeName
}

// NativeNames is a language-code keyed map that remembers the key order of the
// JSON object it was decoded from. Display joins values in that order.
type NativeNames []NativeNameEntry

// Officials returns the official native names in source order.
func (n NativeNames) Officials() []string {
	out := make([]string, 0, len(n))
	for _, e := range n {
		out = append(out, e.Name.Official)
	}
	return out
}

// Joined returns the official native names joined with ", ".
func (n NativeNames) Joined() string {
	return strings.Join(n.Officials(), ", ")
}

// Get returns the entry for a language code.
func (n NativeNames) Get(lang string) (NativeName, bool) {
	for _, e := range n {
		if e.Language == lang {
			return e.Name, true
		}
	}
	return NativeName{}, false
}

// UnmarshalJSON decodes a JSON object while keeping its key order. A JSON null
// leaves the receiver empty.
func (n *NativeNames) UnmarshalJSON(data []byte) error {
	if n == nil {
		return errors.New("cannot unmarshal into nil NativeNames")
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("nativeName: expected object, got %v", tok)
	}

	var entries NativeNames
	for dec.More() {
		keyTok, keyErr := dec.Token()
		if keyErr != nil {
			return keyErr
		}
		lang, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("nativeName: expected string key, got %v", keyTok)
		}
		var name NativeName
		if decErr := dec.Decode(&name); decErr != nil {
			return fmt.Errorf("nativeName[%s]: %w", lang, decErr)
		}
		entries = append(entries, NativeNameEntry{Language: lang, Name: name})
	}
	if _, err = dec.Token(); err != nil {
		return err
	}

	*n = entries
	return nil
}

// MarshalJSON encodes the entries as a JSON object in their stored order.
func (n NativeNames) MarshalJSON() ([]byte, error) {
	if n == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range n {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Language)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the entries as an ordered YAML mapping.
func (n NativeNames) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range n {
		var val yaml.Node
		if err := val.Encode(e.Name); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Language},
			&val,
		)
	}
	return node, nil
}
