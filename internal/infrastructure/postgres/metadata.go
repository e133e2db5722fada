package postgres

import (
	"encoding/json"
	"fmt"
)

// metadataValue serializes provider metadata for a JSONB column.
// Nil and empty maps both become the empty JSON object so the SQL-side
// merge (metadata || $n::jsonb) always has a valid right-hand side.
func metadataValue(m map[string]string) ([]byte, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return data, nil
}

// scanMetadata deserializes a JSONB column into provider metadata.
// The empty object scans to nil so records without metadata stay light.
func scanMetadata(raw []byte, dest *map[string]string) error {
	if len(raw) == 0 {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	if len(m) > 0 {
		*dest = m
	}
	return nil
}
