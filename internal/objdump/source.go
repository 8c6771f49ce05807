package objdump

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Source produces the two text listings Load consumes for an object file.
type Source interface {
	Disassembly(ctx context.Context, file string) ([]byte, error)
	Relocations(ctx context.Context, file string) ([]byte, error)
}

// Objdump runs a GNU objdump binary and buffers its whole output.
type Objdump struct {
	Path    string // binary name or path, e.g. "gobjdump"
	Section string // section whose relocations are listed, e.g. ".text"
}

func (o Objdump) Disassembly(ctx context.Context, file string) ([]byte, error) {
	return o.run(ctx, "-d", file)
}

func (o Objdump) Relocations(ctx context.Context, file string) ([]byte, error) {
	return o.run(ctx, "-j", o.Section, "-r", file)
}

func (o Objdump) run(ctx context.Context, args ...string) ([]byte, error) {
	slog.Debug("Running objdump", "path", o.Path, "args", args)
	cmd := exec.CommandContext(ctx, o.Path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s %s: %w: %s", o.Path, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%s %s: %w", o.Path, strings.Join(args, " "), err)
	}
	return out, nil
}

// LoadFile fetches both listings for file from src and loads them into r.
func (r *Repository) LoadFile(ctx context.Context, src Source, file string) error {
	relocs, err := src.Relocations(ctx, file)
	if err != nil {
		return fmt.Errorf("list relocations of %s: %w", file, err)
	}
	code, err := src.Disassembly(ctx, file)
	if err != nil {
		return fmt.Errorf("disassemble %s: %w", file, err)
	}
	if err := r.Load(bytes.NewReader(code), bytes.NewReader(relocs)); err != nil {
		return fmt.Errorf("load %s: %w", file, err)
	}
	return nil
}
