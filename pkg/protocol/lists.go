package protocol

import "encoding/json"

// EncodeList converts a string slice to its JSON array TEXT representation.
// nil and empty slices both encode as "[]".
func EncodeList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeList parses a JSON array TEXT column into a string slice.
// Empty or malformed input decodes as nil.
func DecodeList(s string) []string {
	if s == "" || s == "[]" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil
	}
	return items
}

// EncodeIDList converts a task id slice to its JSON array TEXT representation.
func EncodeIDList(ids []int64) string {
	if len(ids) == 0 {
		return "[]"
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeIDList parses a JSON array TEXT column into a task id slice.
func DecodeIDList(s string) []int64 {
	if s == "" || s == "[]" {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil
	}
	return ids
}
