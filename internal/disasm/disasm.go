// Package disasm decodes re-encoded x86-64 function bytes back into
// instructions so relocated branch targets can be checked.
package disasm

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// Inst is a simplified decoded instruction.
type Inst struct {
	VA     uint64 // virtual address of instruction
	Len    int    // encoded length in bytes
	Op     string // mnemonic in lowercase
	Text   string // GNU syntax disassembly
	Target uint64 // branch target for PC-relative call/jmp, else 0
}

// Stream is a linear sequence of instructions.
type Stream []Inst

// SymbolLookup resolves an address to a symbol name. Returns ("", false) if unknown.
type SymbolLookup func(addr uint64) (name string, ok bool)

// Decode disassembles code as if loaded at va. Bytes that do not decode are
// emitted one at a time as .byte pseudo-instructions.
func Decode(code []byte, va uint64, lookup SymbolLookup) Stream {
	var symname x86asm.SymLookup
	if lookup != nil {
		symname = func(addr uint64) (string, uint64) {
			if name, ok := lookup(addr); ok {
				return name, addr
			}
			return "", 0
		}
	}

	var out Stream
	for off := 0; off < len(code); {
		pc := va + uint64(off)
		inst, err := x86asm.Decode(code[off:], 64)
		if err != nil || inst.Len == 0 {
			out = append(out, Inst{
				VA:   pc,
				Len:  1,
				Op:   ".byte",
				Text: fmt.Sprintf(".byte 0x%02x", code[off]),
			})
			off++
			continue
		}

		in := Inst{
			VA:   pc,
			Len:  inst.Len,
			Op:   strings.ToLower(inst.Op.String()),
			Text: x86asm.GNUSyntax(inst, pc, symname),
		}
		if rel, ok := inst.Args[0].(x86asm.Rel); ok {
			in.Target = uint64(int64(pc) + int64(inst.Len) + int64(rel))
		}
		out = append(out, in)
		off += inst.Len
	}
	return out
}

// Calls returns the PC-relative call instructions in s.
func (s Stream) Calls() Stream {
	var out Stream
	for _, in := range s {
		if in.Op == "call" && in.Target != 0 {
			out = append(out, in)
		}
	}
	return out
}

// String formats one instruction per line as "address: text".
func (s Stream) String() string {
	var sb strings.Builder
	for _, in := range s {
		fmt.Fprintf(&sb, "%#6x:  %s\n", in.VA, in.Text)
	}
	return sb.String()
}
