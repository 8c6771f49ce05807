package objdump

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

var (
	// 0000000000000000 <_a>:
	headerRe = regexp.MustCompile(`^([0-9a-f]{16}) <_([A-Za-z0-9_]+)>:$`)

	//    1:	48 89 e5             	mov    %rsp,%rbp
	bytesRe = regexp.MustCompile(`^\s*[0-9a-f]+:\t([0-9a-f]{2}(?: [0-9a-f]{2})*)`)

	// 0000000000000029 BRANCH32          _a
	relocRe = regexp.MustCompile(`^([0-9a-f]{16}) ([A-Z0-9_]+) {10}_([A-Za-z0-9_]+)$`)
)

const maxLine = 1 << 20

// Load parses one object's disassembly and relocation listing into a new
// repository.
func Load(disasm, relocs io.Reader) (*Repository, error) {
	r := NewRepository()
	if err := r.Load(disasm, relocs); err != nil {
		return nil, err
	}
	return r, nil
}

// Load adds the functions of one object to r. Lines that match none of the
// known patterns are skipped. The running byte address starts at zero for
// every call.
func (r *Repository) Load(disasm, relocs io.Reader) error {
	sites, err := r.readSites(relocs)
	if err != nil {
		return fmt.Errorf("read relocations: %w", err)
	}

	p := &codeParser{repo: r, sites: sites}
	if err := scanLines(disasm, p.line); err != nil {
		return fmt.Errorf("read disassembly: %w", err)
	}

	for addr, rel := range p.sites {
		slog.Debug("Relocation site not in code stream", "address", fmt.Sprintf("%#x", addr), "target", rel.Target)
	}
	return nil
}

// readSites builds the site table: absolute address -> unplaced relocation.
func (r *Repository) readSites(relocs io.Reader) (map[uint64]*Relocation, error) {
	sites := make(map[uint64]*Relocation)
	err := scanLines(relocs, func(line string) error {
		m := relocRe.FindStringSubmatch(line)
		if m == nil {
			return nil
		}
		kind, ok := KindForTag(m[2])
		if !ok {
			slog.Debug("Skipping unsupported relocation", "kind", m[2], "target", m[3])
			return nil
		}
		addr, err := strconv.ParseUint(m[1], 16, 64)
		if err != nil {
			return nil
		}
		sites[addr] = NewRelocation(kind, m[3], r)
		return nil
	})
	return sites, err
}

type codeParser struct {
	repo    *Repository
	sites   map[uint64]*Relocation
	current *Function
	addr    uint64
	// fields still covered by a relocation that started on an earlier line
	pending int
}

func (p *codeParser) line(line string) error {
	if m := headerRe.FindStringSubmatch(line); m != nil {
		start, err := strconv.ParseUint(m[1], 16, 64)
		if err != nil {
			return nil
		}
		f := NewFunction(m[2], start)
		if p.repo.put(f) {
			slog.Debug("Function redefined, keeping last", "name", f.Name, "start", fmt.Sprintf("%#x", start))
		}
		p.current = f
		return nil
	}

	m := bytesRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	fields := strings.Split(m[1], " ")
	for i := 0; i < len(fields); i++ {
		if p.pending > 0 {
			p.pending--
			continue
		}
		if rel, ok := p.sites[p.addr]; ok {
			if p.current == nil {
				return fmt.Errorf("%w: %s at %#x", ErrOrphanRelocation, rel.Target, p.addr)
			}
			delete(p.sites, p.addr)
			rel.Offset = int(int64(p.addr) - int64(p.current.Start))
			rel.Origin = p.current
			p.current.Entries = append(p.current.Entries, rel)
			p.addr += uint64(rel.Len())
			p.pending = rel.Len() - 1
			continue
		}
		if p.current == nil {
			p.addr++
			continue
		}
		v, err := strconv.ParseUint(fields[i], 16, 8)
		if err != nil {
			return fmt.Errorf("parse byte %q: %w", fields[i], err)
		}
		p.current.Entries = append(p.current.Entries, Byte(v))
		p.addr++
	}
	return nil
}

func scanLines(rd io.Reader, fn func(string) error) error {
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		if err := fn(strings.TrimSuffix(sc.Text(), "\r")); err != nil {
			return err
		}
	}
	return sc.Err()
}
