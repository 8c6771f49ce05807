package report

import (
	"strings"
	"testing"

	"objreloc/internal/objdump"
)

func TestMarkdown(t *testing.T) {
	disasm := "0000000000000000 <_a>:\n" +
		"   0:\t48 89 e5\tmov %rsp,%rbp\n" +
		"   3:\te8 00 00 00 00\tcallq\n" +
		"0000000000000029 <_b>:\n" +
		"  29:\tc3\tretq\n"
	relocs := "0000000000000004 BRANCH32          _b\n"

	repo, err := objdump.Load(strings.NewReader(disasm), strings.NewReader(relocs))
	if err != nil {
		t.Fatal(err)
	}

	md := Markdown(repo, "a.o")
	for _, want := range []string{
		"# a.o",
		"| `a` | 0x0 | 8 | `b`@0x4 |",
		"| `b` | 0x29 | 1 | - |",
		"**2 functions, 9 bytes**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	out, err := Render(md, 80)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "functions") {
		t.Errorf("rendered output missing summary:\n%s", out)
	}
}
