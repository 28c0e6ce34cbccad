package view

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ping-crm/dashboard/pkg/apiclient"
)

// Values flattens a JSON-tagged record into field name → display string.
func Values(record any) (map[string]string, error) {
	out := map[string]string{}
	if record == nil {
		return out, nil
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("record is not an object: %w", err)
	}
	for k, v := range fields {
		out[k] = stringify(v)
	}
	return out, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		raw, _ := json.Marshal(t)
		return string(raw)
	}
}

// Message converts an error into text fit for end users.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var rf *apiclient.RequestFailure
	if errors.As(err, &rf) && rf.Message != "" {
		return rf.Message
	}
	return "Something went wrong. Please try again."
}
