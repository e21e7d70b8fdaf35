package eventset

import (
	"fmt"
	"slices"
)

// FieldMapping describes how one structured-logging field key is enriched:
// specific field values map to marker strings, with an optional fallback for
// values not listed. MetadataFields names sibling fields worth attaching
// alongside the marker.
type FieldMapping struct {
	Key            string            `yaml:"key" json:"key"`
	Markers        map[string]string `yaml:"markers,omitempty" json:"markers,omitempty"`
	DefaultMarker  string            `yaml:"default_marker,omitempty" json:"default_marker,omitempty"`
	MetadataFields []string          `yaml:"metadata_fields,omitempty" json:"metadata_fields,omitempty"`
}

// EventSet is a named collection of field mappings contributed by one
// source, typically a definition file. Sets with higher Priority win when
// several sets map the same field key.
type EventSet struct {
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Priority    int            `yaml:"priority,omitempty" json:"priority,omitempty"`
	Mappings    []FieldMapping `yaml:"mappings" json:"mappings"`
}

// Validate checks that the set can serve lookups: it must be named, carry at
// least one mapping, and every mapping must name a distinct field key and
// provide at least one marker to resolve to.
func (s EventSet) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidEventSet)
	}
	if len(s.Mappings) == 0 {
		return fmt.Errorf("%w: set %q has no mappings", ErrInvalidEventSet, s.Name)
	}

	seen := make(map[string]bool, len(s.Mappings))
	for _, m := range s.Mappings {
		if m.Key == "" {
			return fmt.Errorf("%w: set %q has a mapping without a key", ErrInvalidEventSet, s.Name)
		}
		if seen[m.Key] {
			return fmt.Errorf("%w: set %q maps key %q twice", ErrInvalidEventSet, s.Name, m.Key)
		}
		seen[m.Key] = true
		if len(m.Markers) == 0 && m.DefaultMarker == "" {
			return fmt.Errorf("%w: set %q key %q has no markers", ErrInvalidEventSet, s.Name, m.Key)
		}
	}
	return nil
}

// resolve looks up the mapping for key within this set. It reports a miss
// when the set has no mapping for the key, or when the mapping lists value
// markers but covers neither the value nor a default.
func (s EventSet) resolve(key, value string) (Resolution, bool) {
	for _, m := range s.Mappings {
		if m.Key != key {
			continue
		}
		marker, ok := m.Markers[value]
		if !ok {
			if m.DefaultMarker == "" {
				return Resolution{}, false
			}
			marker = m.DefaultMarker
		}
		return Resolution{
			Set:      s.Name,
			Marker:   marker,
			Metadata: slices.Clone(m.MetadataFields),
		}, true
	}
	return Resolution{}, false
}

// Resolution is the outcome of a successful field lookup: the marker to
// attach, the set that supplied it, and any metadata fields the mapping
// recommends carrying along.
type Resolution struct {
	Set      string   `json:"set"`
	Marker   string   `json:"marker"`
	Metadata []string `json:"metadata,omitempty"`
}
