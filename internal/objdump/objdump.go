// Package objdump models disassembled functions as sequences of literal bytes
// and relocation placeholders, built from the textual output of objdump.
// Relocations are resolved by name at encode time, so moving a function with
// SetStart is reflected in every branch that targets it.
package objdump

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

// RelocKind identifies a relocation record type in the objdump listing.
type RelocKind int

const (
	// Branch32 is a 4-byte PC-relative branch displacement.
	Branch32 RelocKind = iota
)

var relocTags = map[string]RelocKind{
	"BRANCH32": Branch32,
}

// KindForTag maps a relocation listing tag to its kind.
func KindForTag(tag string) (RelocKind, bool) {
	k, ok := relocTags[tag]
	return k, ok
}

// Size returns the number of code bytes the relocation field occupies.
func (k RelocKind) Size() int {
	switch k {
	case Branch32:
		return 4
	}
	panic(fmt.Sprintf("objdump: unknown relocation kind %d", int(k)))
}

func (k RelocKind) String() string {
	switch k {
	case Branch32:
		return "BRANCH32"
	}
	return fmt.Sprintf("RelocKind(%d)", int(k))
}

// Entry is one element of a function's code stream.
type Entry interface {
	// Len is the number of code bytes the entry occupies.
	Len() int
	// Encode returns the entry's current raw bytes.
	Encode() ([]byte, error)
}

// Byte is a literal octet.
type Byte uint8

func (b Byte) Len() int { return 1 }

func (b Byte) Encode() ([]byte, error) { return []byte{byte(b)}, nil }

func (b Byte) String() string { return fmt.Sprintf("%02x", uint8(b)) }

// Resolver looks up functions by name.
type Resolver interface {
	Function(name string) (*Function, error)
}

// Relocation is a placeholder whose bytes depend on the current start
// addresses of its origin and target functions.
type Relocation struct {
	Kind   RelocKind
	Target string

	// Origin and Offset are set when the parser places the relocation.
	Origin *Function
	Offset int

	resolver Resolver
}

// NewRelocation creates an unplaced relocation resolving target through r.
func NewRelocation(kind RelocKind, target string, r Resolver) *Relocation {
	return &Relocation{Kind: kind, Target: target, resolver: r}
}

func (r *Relocation) Len() int { return r.Kind.Size() }

// Displacement returns the signed distance from the end of the relocation
// field to the target's start.
func (r *Relocation) Displacement() (int64, error) {
	if r.Origin == nil {
		return 0, fmt.Errorf("%w: target %q", ErrUnplacedRelocation, r.Target)
	}
	target, err := r.resolver.Function(r.Target)
	if err != nil {
		return 0, err
	}
	next := int64(r.Origin.Start) + int64(r.Offset) + int64(r.Len())
	return int64(target.Start) - next, nil
}

func (r *Relocation) Encode() ([]byte, error) {
	d, err := r.Displacement()
	if err != nil {
		return nil, err
	}
	switch r.Kind {
	case Branch32:
		if d < math.MinInt32 || d > math.MaxInt32 {
			return nil, fmt.Errorf("%w: %s to %q is %d", ErrDisplacementOverflow, r.Kind, r.Target, d)
		}
		return binary.LittleEndian.AppendUint32(nil, uint32(int32(d))), nil
	}
	return nil, fmt.Errorf("objdump: cannot encode %s", r.Kind)
}

// Function is a named code stream with a mutable start address.
type Function struct {
	Name    string
	Start   uint64
	Entries []Entry
}

// NewFunction creates an empty function at start.
func NewFunction(name string, start uint64) *Function {
	return &Function{Name: name, Start: start}
}

// Len returns the function size in bytes.
func (f *Function) Len() int {
	n := 0
	for _, e := range f.Entries {
		n += e.Len()
	}
	return n
}

// Bytes returns the function's code with every relocation re-encoded.
func (f *Function) Bytes() ([]byte, error) {
	out := make([]byte, 0, f.Len())
	for _, e := range f.Entries {
		b, err := e.Encode()
		if err != nil {
			return nil, fmt.Errorf("encode %s+%#x: %w", f.Name, len(out), err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// Code renders Bytes as space separated hex pairs.
func (f *Function) Code() (string, error) {
	b, err := f.Bytes()
	if err != nil {
		return "", err
	}
	return FormatHex(b), nil
}

// Relocations returns the relocation entries in stream order.
func (f *Function) Relocations() []*Relocation {
	var out []*Relocation
	for _, e := range f.Entries {
		if r, ok := e.(*Relocation); ok {
			out = append(out, r)
		}
	}
	return out
}

func (f *Function) String() string { return f.Name }

// FormatHex renders b as lowercase hex pairs joined by single spaces.
func FormatHex(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	s := hex.EncodeToString(b)
	var sb strings.Builder
	sb.Grow(len(s) + len(b) - 1)
	for i := 0; i < len(s); i += 2 {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s[i : i+2])
	}
	return sb.String()
}
