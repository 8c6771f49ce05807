package objdump

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Repository owns every loaded function by name.
type Repository struct {
	functions map[string]*Function
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{functions: make(map[string]*Function)}
}

// Function returns the function called name.
func (r *Repository) Function(name string) (*Function, error) {
	f, ok := r.functions[name]
	if !ok {
		return nil, &LookupError{Name: name}
	}
	return f, nil
}

// SetStart moves the named function to addr. Relocations are not touched;
// they pick up the new address the next time they are encoded.
func (r *Repository) SetStart(name string, addr uint64) error {
	f, err := r.Function(name)
	if err != nil {
		return err
	}
	f.Start = addr
	return nil
}

// Len returns the number of functions.
func (r *Repository) Len() int { return len(r.functions) }

// Functions returns all functions ordered by start address, then name.
func (r *Repository) Functions() []*Function {
	out := make([]*Function, 0, len(r.functions))
	for _, f := range r.functions {
		out = append(out, f)
	}
	slices.SortFunc(out, func(a, b *Function) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// FunctionAt returns the function starting exactly at addr.
func (r *Repository) FunctionAt(addr uint64) (*Function, bool) {
	for _, f := range r.Functions() {
		if f.Start == addr {
			return f, true
		}
	}
	return nil, false
}

// TotalSize sums the size of every function.
func (r *Repository) TotalSize() int {
	n := 0
	for _, f := range r.functions {
		n += f.Len()
	}
	return n
}

func (r *Repository) put(f *Function) (replaced bool) {
	_, replaced = r.functions[f.Name]
	r.functions[f.Name] = f
	return replaced
}

// ParsePlacement parses a "name:hexaddr" relocation request.
func ParsePlacement(s string) (string, uint64, error) {
	name, addr, ok := strings.Cut(s, ":")
	if !ok || name == "" || addr == "" {
		return "", 0, fmt.Errorf("%w: %q (want name:hexaddr)", ErrBadPlacement, s)
	}
	addr = strings.TrimPrefix(strings.TrimPrefix(addr, "0x"), "0X")
	v, err := strconv.ParseUint(addr, 16, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q: %v", ErrBadPlacement, s, err)
	}
	return name, v, nil
}
