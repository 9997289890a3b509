package store

import (
	"encoding/json"

	"cosmossdk.io/math"
)

// Native amounts are persisted as decimal strings so SQLite never truncates
// 256-bit values.

// ParseAmount converts a stored decimal string back into math.Int. Empty and
// malformed values read as zero so a fresh row behaves like an empty balance.
func ParseAmount(s string) math.Int {
	if s == "" {
		return math.ZeroInt()
	}
	v, ok := math.NewIntFromString(s)
	if !ok {
		return math.ZeroInt()
	}
	return v
}

// FormatAmount renders an amount for storage.
func FormatAmount(v math.Int) string {
	if v.IsNil() {
		return "0"
	}
	return v.String()
}

// DecodeStrings reads a persisted JSON string list, treating empty blobs as
// an empty list.
func DecodeStrings(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// EncodeStrings persists a string list as JSON.
func EncodeStrings(in []string) []byte {
	if len(in) == 0 {
		return nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return nil
	}
	return raw
}

// DecodeIDs reads a persisted JSON id list.
func DecodeIDs(raw []byte) []uint {
	if len(raw) == 0 {
		return nil
	}
	var out []uint
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// EncodeIDs persists an id list as JSON.
func EncodeIDs(in []uint) []byte {
	if len(in) == 0 {
		return nil
	}
	raw, err := json.Marshal(in)
	if err != nil {
		return nil
	}
	return raw
}
