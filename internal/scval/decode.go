package scval

// Typed accessors. Each one verifies the node's tag before unwrapping and
// hands back the caller-supplied fallback on any mismatch, so a snapshot
// decode can lose a single field without losing the rest.

// AsAddress renders an address node to its canonical text encoding.
// Unrecognized address kinds and non-address nodes render as "", which
// callers treat as unknown/absent.
func AsAddress(v Value) string {
	if v.Type != TypeAddress {
		return ""
	}
	switch v.AddrKind {
	case AddrAccount, AddrContract:
		return v.Str
	default:
		return ""
	}
}

// AsUint32 unwraps a u32 node, or returns fallback.
func AsUint32(v Value, fallback uint32) uint32 {
	if v.Type != TypeU32 {
		return fallback
	}
	return uint32(v.U64)
}

// AsUint64 unwraps a u64 or u32 node, or returns fallback.
func AsUint64(v Value, fallback uint64) uint64 {
	if v.Type != TypeU64 && v.Type != TypeU32 {
		return fallback
	}
	return v.U64
}

// AsBool unwraps a bool node, or returns fallback.
func AsBool(v Value, fallback bool) bool {
	if v.Type != TypeBool {
		return fallback
	}
	return v.Bool
}

// AsBytes unwraps a byte-string node, or returns nil.
func AsBytes(v Value) []byte {
	if v.Type != TypeBytes {
		return nil
	}
	return v.Bytes
}

// AsSymbol unwraps a symbol or string node, or returns "".
func AsSymbol(v Value) string {
	if v.Type != TypeSymbol && v.Type != TypeString {
		return ""
	}
	return v.Str
}

// AsEnumName extracts the symbolic name of a unit enum variant. The wire
// format encodes the same logical variant three ways depending on the
// serializer version: a bare symbol, a single-element vec holding the
// symbol, or a one-entry map keyed by the symbol. All three are tried in
// that order; anything else yields "".
func AsEnumName(v Value) string {
	if s := AsSymbol(v); s != "" {
		return s
	}
	if v.Type == TypeVec && len(v.Vec) == 1 {
		if s := AsSymbol(v.Vec[0]); s != "" {
			return s
		}
	}
	if v.Type == TypeMap && len(v.Map) == 1 {
		if s := AsSymbol(v.Map[0].Key); s != "" {
			return s
		}
	}
	return ""
}

// MapField looks up a map entry by its symbol or string key. Entries whose
// keys are neither are skipped rather than aborting the scan, so one corrupt
// entry cannot discard the rest of the map.
func MapField(v Value, key string) (Value, bool) {
	if v.Type != TypeMap {
		return Value{}, false
	}
	for _, e := range v.Map {
		name := AsSymbol(e.Key)
		if name == "" {
			continue
		}
		if name == key {
			return e.Val, true
		}
	}
	return Value{}, false
}

// IsVoid reports whether the node is an explicit void/none.
func IsVoid(v Value) bool {
	return v.Type == TypeVoid
}
