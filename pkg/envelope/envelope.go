// Package envelope flattens JSON:API style response bodies
// ({"data": {"id": ..., "attributes": {...}}}) into plain entity objects.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidID is returned when a resource id is not a positive base-10 integer.
var ErrInvalidID = errors.New("envelope: invalid resource id")

type document struct {
	Data json.RawMessage `json:"data"`
}

type resource struct {
	ID         json.RawMessage            `json:"id"`
	Attributes map[string]json.RawMessage `json:"attributes"`
}

// DecodeCollection flattens {"data": [{id, attributes}, ...]} into a slice of T,
// preserving order. Bodies without an array-shaped data field are decoded as []T as-is.
func DecodeCollection[T any](body []byte) ([]T, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []T{}, nil
	}
	data, ok := dataField(body)
	if !ok || !isArray(data) {
		var out []T
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("decode collection: %w", err)
		}
		return out, nil
	}

	var items []resource
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := flatten[T](item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodeOne flattens {"data": {id, attributes}} into a T.
// Bodies without that shape are decoded as T as-is.
func DecodeOne[T any](body []byte) (T, error) {
	var zero T
	if len(bytes.TrimSpace(body)) == 0 {
		return zero, nil
	}
	if data, ok := dataField(body); ok && isObject(data) {
		var item resource
		if err := json.Unmarshal(data, &item); err == nil && item.Attributes != nil {
			return flatten[T](item)
		}
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return zero, fmt.Errorf("decode resource: %w", err)
	}
	return out, nil
}

// ParseID accepts a JSON number or a JSON string holding a positive integer.
func ParseID(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, ErrInvalidID
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, ErrInvalidID
		}
	}
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidID, string(raw))
	}
	return id, nil
}

// flatten merges attributes at the top level; the envelope id always wins.
func flatten[T any](item resource) (T, error) {
	var out T
	id, err := ParseID(item.ID)
	if err != nil {
		return out, err
	}
	flat := make(map[string]json.RawMessage, len(item.Attributes)+1)
	for k, v := range item.Attributes {
		flat[k] = v
	}
	flat["id"] = json.RawMessage(strconv.Itoa(id))

	raw, err := json.Marshal(flat)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode attributes: %w", err)
	}
	return out, nil
}

func dataField(body []byte) (json.RawMessage, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil || len(doc.Data) == 0 {
		return nil, false
	}
	return doc.Data, true
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
