package commercetools

import (
	"encoding/json"
	"fmt"
)

// FieldContainer holds a resource's custom field values. The platform
// serializes them in two shapes depending on the API surface: a flat object
// keyed by field name, or an array of {name, value} pairs. Both unmarshal
// into the same container; marshalling always emits the flat shape the
// resource API accepts.
type FieldContainer struct {
	fields map[string]json.RawMessage
}

type rawField struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// UnmarshalJSON accepts either wire shape.
func (f *FieldContainer) UnmarshalJSON(data []byte) error {
	flat := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &flat); err == nil {
		f.fields = flat
		return nil
	}

	var pairs []rawField
	if err := json.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("custom fields are neither an object nor a name/value array: %w", err)
	}

	f.fields = make(map[string]json.RawMessage, len(pairs))
	for _, pair := range pairs {
		f.fields[pair.Name] = pair.Value
	}
	return nil
}

// MarshalJSON emits the flat object shape.
func (f FieldContainer) MarshalJSON() ([]byte, error) {
	if f.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(f.fields)
}

// String returns the named field as a string, empty when absent or not a
// string.
func (f FieldContainer) String(name string) string {
	raw, ok := f.fields[name]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

// Bool returns the named field as a bool, false when absent or not a bool.
func (f FieldContainer) Bool(name string) bool {
	raw, ok := f.fields[name]
	if !ok {
		return false
	}
	var value bool
	if err := json.Unmarshal(raw, &value); err != nil {
		return false
	}
	return value
}

// StringSlice returns the named field as a list of strings. Elements may be
// plain strings or platform references carrying an id.
func (f FieldContainer) StringSlice(name string) []string {
	raw, ok := f.fields[name]
	if !ok {
		return nil
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err == nil {
		return values
	}

	var refs []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &refs); err != nil {
		return nil
	}
	values = make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.ID != "" {
			values = append(values, ref.ID)
		}
	}
	return values
}
