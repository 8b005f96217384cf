// Package wire provides serialization adapters for intern.Handle — declared
// out of the core's scope by spec §1 ("serialization adapters" is listed
// among the external collaborators), but worth supplying because the Rust
// crate this spec descends from (see original_source/, conradludgate/
// paracord) ships a serde feature flag for exactly this purpose. Handles
// are only meaningful within the process and Interner instance that issued
// them (spec §6); these codecs round-trip the wire encoding faithfully but
// cannot and do not attempt to validate that a decoded Handle resolves
// against any particular Interner — callers must Resolve() to find out.
//
// © 2025 interner authors. MIT License.
package wire

import (
	"encoding/gob"
	"encoding/json"

	intern "github.com/Voskan/interner"
)

// JSONHandle adapts intern.Handle for JSON encoding as its raw non-zero
// uint32 wire value, since intern.Handle itself intentionally exposes no
// json.Marshaler (the core has no persistence format per spec §6).
type JSONHandle intern.Handle

// MarshalJSON encodes the handle as its underlying uint32.
func (h JSONHandle) MarshalJSON() ([]byte, error) {
	return json.Marshal(intern.Handle(h).Uint32())
}

// UnmarshalJSON decodes a uint32 into a JSONHandle. It does not validate
// the handle against any Interner.
func (h *JSONHandle) UnmarshalJSON(b []byte) error {
	var v uint32
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*h = JSONHandle(intern.HandleFromUint32(v))
	return nil
}

// Handle returns the underlying intern.Handle.
func (h JSONHandle) Handle() intern.Handle { return intern.Handle(h) }

// NewJSONHandle wraps h for JSON marshaling.
func NewJSONHandle(h intern.Handle) JSONHandle { return JSONHandle(h) }

// RegisterGob registers intern.Handle as a concrete type with encoding/gob,
// which gob needs only when a Handle travels inside an interface-typed
// value. EncodeGobHandle and DecodeGobHandle write and read a bare uint32
// and work without it.
func RegisterGob() {
	gob.Register(intern.Handle(0))
}

// EncodeGobHandle returns the gob-encoded bytes for h.
func EncodeGobHandle(enc *gob.Encoder, h intern.Handle) error {
	return enc.Encode(h.Uint32())
}

// DecodeGobHandle decodes a Handle previously written by EncodeGobHandle.
func DecodeGobHandle(dec *gob.Decoder) (intern.Handle, error) {
	var v uint32
	if err := dec.Decode(&v); err != nil {
		return 0, err
	}
	return intern.HandleFromUint32(v), nil
}
