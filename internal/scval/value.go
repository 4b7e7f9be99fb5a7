// Package scval decodes the ledger platform's self-describing value trees.
//
// Contract call results arrive as tagged JSON nodes whose tag set can grow
// ahead of this client (contract upgrades ship new variants before clients
// update). Every function in this package therefore degrades to a fallback
// instead of returning an error: an unrecognized tag parses to TypeUnknown
// and every accessor on it yields its zero/fallback value.
package scval

import (
	"encoding/base64"
	"encoding/json"
)

// Type identifies the shape of a decoded value node.
type Type int

const (
	TypeUnknown Type = iota
	TypeVoid
	TypeBool
	TypeU32
	TypeU64
	TypeBytes
	TypeSymbol
	TypeString
	TypeAddress
	TypeVec
	TypeMap
)

// AddressKind distinguishes the two account flavors the ledger knows.
type AddressKind int

const (
	AddrNone AddressKind = iota
	AddrAccount
	AddrContract
)

// Value is one decoded node of the wire value tree.
// Only the fields matching Type carry meaning; the rest stay zero.
type Value struct {
	Type     Type
	Bool     bool
	U64      uint64
	Bytes    []byte
	Str      string // symbol, string, or address text
	AddrKind AddressKind
	Vec      []Value
	Map      []MapEntry
}

// MapEntry is a single key/value pair of a map node.
type MapEntry struct {
	Key Value
	Val Value
}

// wireNode mirrors the JSON wire encoding of a value node.
type wireNode struct {
	Type    string          `json:"type"`
	Kind    string          `json:"kind,omitempty"`
	Value   json.RawMessage `json:"value,omitempty"`
	Items   []wireNode      `json:"items,omitempty"`
	Entries []wireEntry     `json:"entries,omitempty"`
}

type wireEntry struct {
	Key wireNode `json:"key"`
	Val wireNode `json:"val"`
}

// Parse decodes a raw wire node into a Value. It never fails: malformed
// JSON or an unknown tag produces a TypeUnknown value.
func Parse(raw []byte) Value {
	var n wireNode
	if err := json.Unmarshal(raw, &n); err != nil {
		return Value{}
	}
	return fromWire(n)
}

func fromWire(n wireNode) Value {
	switch n.Type {
	case "void":
		return Value{Type: TypeVoid}
	case "bool":
		var b bool
		if err := json.Unmarshal(n.Value, &b); err != nil {
			return Value{}
		}
		return Value{Type: TypeBool, Bool: b}
	case "u32":
		var u uint64
		if err := json.Unmarshal(n.Value, &u); err != nil {
			return Value{}
		}
		if u > 0xFFFFFFFF {
			return Value{}
		}
		return Value{Type: TypeU32, U64: u}
	case "u64":
		var u uint64
		if err := json.Unmarshal(n.Value, &u); err != nil {
			return Value{}
		}
		return Value{Type: TypeU64, U64: u}
	case "bytes":
		var s string
		if err := json.Unmarshal(n.Value, &s); err != nil {
			return Value{}
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return Value{}
		}
		return Value{Type: TypeBytes, Bytes: b}
	case "symbol":
		var s string
		if err := json.Unmarshal(n.Value, &s); err != nil {
			return Value{}
		}
		return Value{Type: TypeSymbol, Str: s}
	case "string":
		var s string
		if err := json.Unmarshal(n.Value, &s); err != nil {
			return Value{}
		}
		return Value{Type: TypeString, Str: s}
	case "address":
		var s string
		if err := json.Unmarshal(n.Value, &s); err != nil {
			return Value{}
		}
		kind := AddrNone
		switch n.Kind {
		case "account":
			kind = AddrAccount
		case "contract":
			kind = AddrContract
		}
		return Value{Type: TypeAddress, Str: s, AddrKind: kind}
	case "vec":
		items := make([]Value, 0, len(n.Items))
		for _, it := range n.Items {
			items = append(items, fromWire(it))
		}
		return Value{Type: TypeVec, Vec: items}
	case "map":
		entries := make([]MapEntry, 0, len(n.Entries))
		for _, e := range n.Entries {
			entries = append(entries, MapEntry{Key: fromWire(e.Key), Val: fromWire(e.Val)})
		}
		return Value{Type: TypeMap, Map: entries}
	default:
		return Value{}
	}
}

// MarshalJSON renders the value back to its wire encoding so the same type
// serves both call arguments and decoded results.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.toWire())
}

// UnmarshalJSON decodes a wire node in place, defensively like Parse.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = Parse(data)
	return nil
}

func (v Value) toWire() wireNode {
	switch v.Type {
	case TypeVoid:
		return wireNode{Type: "void"}
	case TypeBool:
		return wireNode{Type: "bool", Value: mustRaw(v.Bool)}
	case TypeU32:
		return wireNode{Type: "u32", Value: mustRaw(v.U64)}
	case TypeU64:
		return wireNode{Type: "u64", Value: mustRaw(v.U64)}
	case TypeBytes:
		return wireNode{Type: "bytes", Value: mustRaw(base64.StdEncoding.EncodeToString(v.Bytes))}
	case TypeSymbol:
		return wireNode{Type: "symbol", Value: mustRaw(v.Str)}
	case TypeString:
		return wireNode{Type: "string", Value: mustRaw(v.Str)}
	case TypeAddress:
		kind := ""
		switch v.AddrKind {
		case AddrAccount:
			kind = "account"
		case AddrContract:
			kind = "contract"
		}
		return wireNode{Type: "address", Kind: kind, Value: mustRaw(v.Str)}
	case TypeVec:
		items := make([]wireNode, 0, len(v.Vec))
		for _, it := range v.Vec {
			items = append(items, it.toWire())
		}
		return wireNode{Type: "vec", Items: items}
	case TypeMap:
		entries := make([]wireEntry, 0, len(v.Map))
		for _, e := range v.Map {
			entries = append(entries, wireEntry{Key: e.Key.toWire(), Val: e.Val.toWire()})
		}
		return wireNode{Type: "map", Entries: entries}
	default:
		return wireNode{Type: "void"}
	}
}

func mustRaw(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}

// Constructors for building call arguments.

// Void returns a void value.
func Void() Value { return Value{Type: TypeVoid} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{Type: TypeBool, Bool: b} }

// U32 wraps a 32-bit unsigned integer.
func U32(u uint32) Value { return Value{Type: TypeU32, U64: uint64(u)} }

// Bytes wraps a byte string.
func Bytes(b []byte) Value { return Value{Type: TypeBytes, Bytes: b} }

// Symbol wraps a symbolic name.
func Symbol(s string) Value { return Value{Type: TypeSymbol, Str: s} }

// AccountAddress wraps an end-user account address.
func AccountAddress(s string) Value {
	return Value{Type: TypeAddress, Str: s, AddrKind: AddrAccount}
}

// ContractAddress wraps a contract account address.
func ContractAddress(s string) Value {
	return Value{Type: TypeAddress, Str: s, AddrKind: AddrContract}
}
