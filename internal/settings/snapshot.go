// Package settings exposes database-backed site configuration through an
// in-memory snapshot, refreshed at startup and on a timer so request paths
// never query the settings table.
package settings

import (
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cardly-iq/cardly/internal/models"
)

// snapshot is an immutable view of the settings table. A refresh replaces it
// wholesale; readers never see a partially updated map.
type snapshot struct {
	updatedAt time.Time
	values    map[string]json.RawMessage
}

var current atomic.Pointer[snapshot]

func init() {
	current.Store(&snapshot{values: map[string]json.RawMessage{}})
}

// Store replaces the snapshot with the given setting rows. Rows with blank
// keys are dropped; the snapshot timestamp is the newest row update.
func Store(rows []models.Setting) {
	next := snapshot{values: make(map[string]json.RawMessage, len(rows))}
	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			continue
		}
		next.values[key] = append(json.RawMessage(nil), row.Value...)
		if ts := row.UpdatedAt.UTC(); ts.After(next.updatedAt) {
			next.updatedAt = ts
		}
	}
	current.Store(&next)
}

// UpdatedAt returns the update timestamp of the newest row in the snapshot.
func UpdatedAt() time.Time {
	return current.Load().updatedAt
}

// Value returns a copy of the raw JSON for a key, or ok=false when absent.
func Value(key string) (json.RawMessage, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	raw, ok := current.Load().values[key]
	if !ok {
		return nil, false
	}
	return append(json.RawMessage(nil), raw...), true
}

// StringValue decodes a string setting, falling back when the key is absent
// or holds a non-string value.
func StringValue(key, fallback string) string {
	raw, ok := Value(key)
	if !ok || raw == nil {
		return fallback
	}
	var s string
	if errDecode := json.Unmarshal(raw, &s); errDecode != nil {
		return fallback
	}
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// IntValue decodes an integer setting, falling back when absent or invalid.
func IntValue(key string, fallback int) int {
	raw, ok := Value(key)
	if !ok || raw == nil {
		return fallback
	}
	var n int
	if errDecode := json.Unmarshal(raw, &n); errDecode != nil {
		return fallback
	}
	return n
}
