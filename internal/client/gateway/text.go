package gateway

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Text decodes a message field that servers send either as a string or as a
// list of strings (validation errors). Lists are joined with "; ".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '[' {
		var parts []string
		if err := json.Unmarshal(b, &parts); err != nil {
			return err
		}
		*t = Text(strings.Join(parts, "; "))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = Text(s)
	return nil
}

// inspect reads message and token from a top-level JSON object. Bodies of
// any other shape, and fields of unexpected types, yield zero values.
func inspect(raw json.RawMessage) (message, token string) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return "", ""
	}

	var m Text
	if v, ok := fields["message"]; ok {
		if err := json.Unmarshal(v, &m); err != nil {
			m = ""
		}
	}
	if v, ok := fields["token"]; ok {
		if err := json.Unmarshal(v, &token); err != nil {
			token = ""
		}
	}
	return strings.TrimSpace(string(m)), token
}
