package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// StringSet stores a deduplicated set of strings inside a JSONB column.
// Entries are trimmed and kept in sorted order so zone snapshots compare
// deterministically.
type StringSet []string

// NewStringSet builds a normalized set from raw values.
func NewStringSet(values []string) StringSet {
	seen := make(map[string]struct{}, len(values))
	out := make(StringSet, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether the set includes the given value.
func (s StringSet) Contains(value string) bool {
	for _, entry := range s {
		if entry == value {
			return true
		}
	}
	return false
}

// Union returns a new set with the provided values merged in.
func (s StringSet) Union(values []string) StringSet {
	merged := make([]string, 0, len(s)+len(values))
	merged = append(merged, s...)
	merged = append(merged, values...)
	return NewStringSet(merged)
}

// Difference returns a new set with the provided values removed.
func (s StringSet) Difference(values []string) StringSet {
	drop := make(map[string]struct{}, len(values))
	for _, v := range values {
		drop[strings.TrimSpace(v)] = struct{}{}
	}
	out := make([]string, 0, len(s))
	for _, entry := range s {
		if _, ok := drop[entry]; ok {
			continue
		}
		out = append(out, entry)
	}
	return NewStringSet(out)
}

// Intersects reports whether the two sets share any value.
func (s StringSet) Intersects(other StringSet) bool {
	if len(s) == 0 || len(other) == 0 {
		return false
	}
	lookup := make(map[string]struct{}, len(s))
	for _, entry := range s {
		lookup[entry] = struct{}{}
	}
	for _, entry := range other {
		if _, ok := lookup[entry]; ok {
			return true
		}
	}
	return false
}

// Value serializes the set to JSON.
func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan decodes JSONB into the set.
func (s *StringSet) Scan(value interface{}) error {
	if value == nil {
		*s = StringSet{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded []string
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*s = NewStringSet(decoded)
	return nil
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", value)
	}
}
