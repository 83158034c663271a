package dto

import "encoding/json"

// NullableString distinguishes an absent JSON field from an explicit null.
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON records that the field was present. null leaves Value nil.
func (s *NullableString) UnmarshalJSON(data []byte) error {
	s.Set = true
	s.Value = nil

	if string(data) == "null" {
		return nil
	}

	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.Value = &v
	return nil
}

// IsNull reports whether the field was sent as an explicit null.
func (s NullableString) IsNull() bool {
	return s.Set && s.Value == nil
}
