package progress

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Encode serializes a record for the persistence boundary.
func Encode(r Record) ([]byte, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode progress: %w", err)
	}
	return b, nil
}

// Decode hydrates a record from persisted bytes. Fields absent from older
// data keep their defaults and out-of-range values are clamped. Empty input
// yields the default record.
//
// A field of the wrong type is skipped and the rest of the record kept; the
// returned error then reports the skipped field alongside a usable record.
// Only unparseable data yields the default record.
func Decode(data []byte) (Record, error) {
	r := Default()
	if len(data) == 0 {
		return r, nil
	}
	err := json.Unmarshal(data, &r)
	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil:
		return normalize(r), nil
	case errors.As(err, &typeErr):
		return normalize(r), fmt.Errorf("decode progress: skipped field %q: %w", typeErr.Field, err)
	default:
		return Default(), fmt.Errorf("decode progress: %w", err)
	}
}
