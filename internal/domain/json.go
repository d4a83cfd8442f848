package domain

import "encoding/json"

// DecodeOr unmarshals a JSON text column into a value of type T, returning
// fallback when the column is empty or malformed. Centralizes the
// parse-or-default policy for loosely typed columns.
func DecodeOr[T any](raw string, fallback T) T {
	if raw == "" || raw == "null" {
		return fallback
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return fallback
	}
	return v
}

// EncodeJSON marshals v for storage in a text column. Marshal failures
// degrade to "null" rather than aborting the write.
func EncodeJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}
