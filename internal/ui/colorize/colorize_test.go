package colorize

import (
	"regexp"
	"strings"
	"testing"
)

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestColorizeDisabled(t *testing.T) {
	t.Setenv("OBJRELOC_NO_COLOR", "1")

	line := "   0x3:  call b"
	if got := ColorizeInstructionLine(line); got != line {
		t.Errorf("ColorizeInstructionLine() = %q, want unchanged", got)
	}
	got, err := ColorizeAssembly("ret")
	if err != nil || got != "ret" {
		t.Errorf("ColorizeAssembly() = %q, %v", got, err)
	}
}

func TestColorizeKeepsText(t *testing.T) {
	t.Setenv("OBJRELOC_NO_COLOR", "")

	line := "   0x3:  call 0x29"
	got := ColorizeInstructionLine(line)
	if plain := strings.TrimRight(ansiRe.ReplaceAllString(got, ""), "\n"); plain != line {
		t.Errorf("stripped output = %q, want %q", plain, line)
	}
}

func TestIsHexAddress(t *testing.T) {
	tests := map[string]bool{
		"0x3f": true,
		"29":   true,
		"":     false,
		"0x":   false,
		"main": false,
	}
	for in, want := range tests {
		if got := isHexAddress(in); got != want {
			t.Errorf("isHexAddress(%q) = %v, want %v", in, got, want)
		}
	}
}
