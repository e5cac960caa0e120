// Package json wraps github.com/bytedance/sonic behind the subset of the
// encoding/json API used by this library. Response bodies from an OAE tenant
// can be large (library listings, search pages), so the faster decoder is
// worth the extra dependency. Bodies are always fully read before parsing,
// so no streaming surface is exposed.
package json

import (
	stdjson "encoding/json"

	"github.com/bytedance/sonic"
)

// RawMessage is a raw encoded JSON value, compatible with encoding/json so
// callers can mix this package with code that expects the standard type.
type RawMessage = stdjson.RawMessage

// Marshal returns the JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}

// MarshalIndent returns the indented JSON encoding of v.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return sonic.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses the JSON-encoded data and stores the result in v.
func Unmarshal(data []byte, v any) error {
	return sonic.Unmarshal(data, v)
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return sonic.Valid(data)
}
