// Package listing renders the per-function fields objreloc prints:
// name, size, position and code, optionally labeled.
package listing

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/ianlancetaylor/demangle"

	"objreloc/internal/objdump"
)

// Fields selects which columns a Printer emits.
type Fields struct {
	Name      bool
	Demangled bool
	Size      bool
	Position  bool
	Code      bool
}

// Any reports whether at least one field is selected.
func (f Fields) Any() bool {
	return f.Name || f.Demangled || f.Size || f.Position || f.Code
}

// Printer formats functions as space separated fields.
type Printer struct {
	Fields  Fields
	Verbose bool // prefix each field with "label="
	Styled  bool // render labels with lipgloss
}

var labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

func (p Printer) labeled(label, value string) string {
	if !p.Verbose {
		return value
	}
	if p.Styled {
		return labelStyle.Render(label+"=") + value
	}
	return label + "=" + value
}

// Line renders the selected fields of fn. It returns "" when no field is
// selected.
func (p Printer) Line(fn *objdump.Function) (string, error) {
	var out []string
	if p.Fields.Name {
		out = append(out, p.labeled("name", fn.Name))
	}
	if p.Fields.Demangled {
		out = append(out, p.labeled("demangled", Demangle(fn.Name)))
	}
	if p.Fields.Size {
		out = append(out, p.labeled("size", strconv.Itoa(fn.Len())))
	}
	if p.Fields.Position {
		out = append(out, p.labeled("position", strconv.FormatUint(fn.Start, 10)))
	}
	if p.Fields.Code {
		code, err := fn.Code()
		if err != nil {
			return "", err
		}
		out = append(out, p.labeled("code", code))
	}
	return strings.Join(out, " "), nil
}

// Total renders the aggregate size of every function in repo.
func (p Printer) Total(repo *objdump.Repository) string {
	return p.labeled("total", strconv.Itoa(repo.TotalSize()))
}

// Demangle returns the demangled form of a symbol whose leading underscore
// was already stripped, or name itself if it is not a mangled C++ name.
func Demangle(name string) string {
	return demangle.Filter(name, demangle.NoClones)
}
