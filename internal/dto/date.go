package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// NullableDate distinguishes an absent JSON field from an explicit null.
// Set is true whenever the field appeared in the payload; Value is nil for
// null or an empty string.
type NullableDate struct {
	Set   bool
	Value *time.Time
}

// UnmarshalJSON accepts null, "", RFC 3339 timestamps and YYYY-MM-DD dates.
// Plain dates are interpreted as midnight UTC.
func (d *NullableDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	d.Value = nil

	if string(data) == "null" {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("dueDate must be a string or null")
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	t, err := ParseDueDate(raw)
	if err != nil {
		return err
	}
	d.Value = &t
	return nil
}

// ParseDueDate parses an RFC 3339 timestamp or a YYYY-MM-DD date.
func ParseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid dueDate %q: use YYYY-MM-DD or RFC 3339", raw)
}
