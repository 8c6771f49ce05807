// Package report summarizes a loaded repository as a markdown table.
package report

import (
	"fmt"
	"strings"

	"objreloc/internal/objdump"
	"objreloc/internal/objreloc/styles"
)

// Markdown builds a table of every function with its start, size and the
// targets its relocations point at.
func Markdown(repo *objdump.Repository, title string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	b.WriteString("| function | start | size | relocations |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, f := range repo.Functions() {
		var targets []string
		for _, r := range f.Relocations() {
			targets = append(targets, fmt.Sprintf("`%s`@%#x", r.Target, r.Offset))
		}
		refs := strings.Join(targets, ", ")
		if refs == "" {
			refs = "-"
		}
		fmt.Fprintf(&b, "| `%s` | %#x | %d | %s |\n", f.Name, f.Start, f.Len(), refs)
	}
	fmt.Fprintf(&b, "\n**%d functions, %d bytes**\n", repo.Len(), repo.TotalSize())
	return b.String()
}

// Render renders md for a terminal of the given width.
func Render(md string, width int) (string, error) {
	r, err := styles.GetMarkdownRenderer(width)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
