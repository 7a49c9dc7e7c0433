package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// http://www.jsonrpc.org/specification
const JSONRPCVersion = "2.0"

// Version is the protocol-version tag of a call or output. The empty Version means the
// member was absent on the wire.
type Version string

const V2 Version = JSONRPCVersion

type idKind uint8

const (
	idNull idKind = iota
	idNumber
	idString
)

// ID is a call identifier: a number, a string or null. The zero ID is null.
// Numbers keep their textual form so they render exactly as received.
type ID struct {
	kind idKind
	num  json.Number
	str  string
}

// NullID returns the null identifier used when a call's own id is unrecoverable.
func NullID() ID {
	return ID{}
}

func IntID(n int64) ID {
	return ID{kind: idNumber, num: json.Number(strconv.FormatInt(n, 10))}
}

// NumberID returns a numeric identifier. It panics if n is not a valid JSON number.
func NumberID(n json.Number) ID {
	if !isJSONNumber(string(n)) {
		panic(fmt.Sprintf("jsonrpc: invalid numeric id %q", string(n)))
	}
	return ID{kind: idNumber, num: n}
}

func StringID(s string) ID {
	return ID{kind: idString, str: s}
}

func (id ID) IsNull() bool {
	return id.kind == idNull
}

// Number returns the numeric value of id, if it is a number.
func (id ID) Number() (json.Number, bool) {
	return id.num, id.kind == idNumber
}

// Str returns the string value of id, if it is a string.
func (id ID) Str() (string, bool) {
	return id.str, id.kind == idString
}

func (id ID) String() string {
	switch id.kind {
	case idNumber:
		return string(id.num)
	case idString:
		return strconv.Quote(id.str)
	}
	return "null"
}

func (id ID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case idNumber:
		return []byte(id.num), nil
	case idString:
		return json.Marshal(id.str)
	}
	return []byte("null"), nil
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0:
		return errors.New("jsonrpc: empty id")
	case bytes.Equal(b, []byte("null")):
		*id = NullID()
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = StringID(s)
	case isJSONNumber(string(b)):
		*id = ID{kind: idNumber, num: json.Number(b)}
	default:
		return fmt.Errorf("jsonrpc: id must be a number, string or null, got %s", b)
	}
	return nil
}

func isJSONNumber(s string) bool {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return false
	}
	n, ok := v.(json.Number)
	return ok && n.String() == s
}

// ParamsKind tells which variant of the params member a Params holds.
type ParamsKind uint8

const (
	ParamsAbsent ParamsKind = iota
	ParamsPositional
	ParamsNamed
)

// Params is the params member of a call: an ordered list of values, a mapping from
// parameter name to value, or absent. The zero Params is absent.
type Params struct {
	kind       ParamsKind
	positional []json.RawMessage
	named      map[string]json.RawMessage
}

func NoParams() Params {
	return Params{}
}

func PositionalParams(values ...json.RawMessage) Params {
	if values == nil {
		values = []json.RawMessage{}
	}
	return Params{kind: ParamsPositional, positional: values}
}

func NamedParams(values map[string]json.RawMessage) Params {
	if values == nil {
		values = map[string]json.RawMessage{}
	}
	return Params{kind: ParamsNamed, named: values}
}

func (p Params) Kind() ParamsKind {
	return p.kind
}

// Positional returns the ordered values when p holds a list.
func (p Params) Positional() ([]json.RawMessage, bool) {
	return p.positional, p.kind == ParamsPositional
}

// Named returns the mapping when p holds named values.
func (p Params) Named() (map[string]json.RawMessage, bool) {
	return p.named, p.kind == ParamsNamed
}

// Len is the number of values carried by p.
func (p Params) Len() int {
	switch p.kind {
	case ParamsPositional:
		return len(p.positional)
	case ParamsNamed:
		return len(p.named)
	}
	return 0
}

// MarshalJSON encodes absent params as null; callers omit the member instead.
func (p Params) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case ParamsPositional:
		return json.Marshal(p.positional)
	case ParamsNamed:
		return json.Marshal(p.named)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts an array, an object or null.
func (p *Params) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errors.New("jsonrpc: empty params")
	}
	switch b[0] {
	case '[':
		var values []json.RawMessage
		if err := json.Unmarshal(b, &values); err != nil {
			return err
		}
		*p = PositionalParams(values...)
	case '{':
		var values map[string]json.RawMessage
		if err := json.Unmarshal(b, &values); err != nil {
			return err
		}
		*p = NamedParams(values)
	case 'n':
		if !bytes.Equal(b, []byte("null")) {
			return fmt.Errorf("jsonrpc: invalid params %s", b)
		}
		*p = NoParams()
	default:
		return fmt.Errorf("jsonrpc: params must be an array or an object, got %s", b)
	}
	return nil
}
