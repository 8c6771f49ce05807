package disasm

import (
	"strings"
	"testing"
)

func TestDecodeRelocatedCall(t *testing.T) {
	// mov %rsp,%rbp; call +0x21
	code := []byte{0x48, 0x89, 0xe5, 0xe8, 0x21, 0x00, 0x00, 0x00}

	s := Decode(code, 0, nil)
	if len(s) != 2 {
		t.Fatalf("expected 2 instructions, got %d: %v", len(s), s)
	}
	if s[0].Op != "mov" || s[0].Len != 3 {
		t.Errorf("first instruction = %+v, want 3-byte mov", s[0])
	}
	call := s[1]
	if call.Op != "call" || call.VA != 3 || call.Len != 5 {
		t.Errorf("second instruction = %+v, want 5-byte call at 3", call)
	}
	if call.Target != 0x29 {
		t.Errorf("call target = %#x, want 0x29", call.Target)
	}

	calls := s.Calls()
	if len(calls) != 1 || calls[0].VA != 3 {
		t.Errorf("Calls() = %v", calls)
	}
}

func TestDecodeWithBase(t *testing.T) {
	code := []byte{0xe8, 0xfb, 0xff, 0xff, 0xff}
	s := Decode(code, 0x1000, func(addr uint64) (string, bool) {
		if addr == 0x1000 {
			return "loop", true
		}
		return "", false
	})
	if len(s) != 1 || s[0].Target != 0x1000 {
		t.Fatalf("Decode = %+v, want call to 0x1000", s)
	}
	if !strings.Contains(s[0].Text, "loop") {
		t.Errorf("text %q should name the target symbol", s[0].Text)
	}
}

func TestDecodeTruncatedBytes(t *testing.T) {
	// ret, then a call missing its displacement
	s := Decode([]byte{0xc3, 0xe8, 0x00}, 0, nil)
	if len(s) != 3 {
		t.Fatalf("expected 3 entries, got %d: %v", len(s), s)
	}
	if s[0].Op != "ret" {
		t.Errorf("first instruction = %+v, want ret", s[0])
	}
	if s[1].Op != ".byte" || s[1].Text != ".byte 0xe8" || s[1].VA != 1 {
		t.Errorf("truncated call decoded as %+v", s[1])
	}
}
