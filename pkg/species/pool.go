package species

import (
	"fmt"
	"runtime"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// Pool is a pool of gnparser instances for concurrent species name
// parsing. Parsing is computation, not I/O; the pool only bounds the
// number of parser instances alive at once.
type Pool interface {
	// Parse parses a species name under the given nomenclatural code.
	// Safe for concurrent use.
	Parse(name string, code nomcode.Code) (parsed.Parsed, error)

	// Canonical returns the simple canonical form of a species name, or
	// "" when the name does not parse as a scientific name.
	Canonical(name string) string

	// Close shuts down the pool. The pool must not be used afterwards.
	Close()
}

type poolImpl struct {
	botanicalCh  chan gnparser.GNparser
	zoologicalCh chan gnparser.GNparser
}

// NewPool creates a parser pool with the given number of parsers per
// nomenclatural code. Zero means runtime.NumCPU(). Field data mixes
// flora and fauna, so one pool per code is kept.
func NewPool(size int) Pool {
	if size == 0 {
		size = runtime.NumCPU()
	}
	botanicalCfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Botanical))
	zoologicalCfg := gnparser.NewConfig(gnparser.OptCode(nomcode.Zoological))
	return &poolImpl{
		botanicalCh:  gnparser.NewPool(botanicalCfg, size),
		zoologicalCh: gnparser.NewPool(zoologicalCfg, size),
	}
}

func (p *poolImpl) Parse(name string, code nomcode.Code) (parsed.Parsed, error) {
	var ch chan gnparser.GNparser
	switch code {
	case nomcode.Botanical:
		ch = p.botanicalCh
	case nomcode.Zoological:
		ch = p.zoologicalCh
	default:
		return parsed.Parsed{}, fmt.Errorf("unsupported nomenclatural code: %v", code)
	}

	parser := <-ch
	result := parser.ParseName(name)
	ch <- parser

	return result, nil
}

// Canonical parses under the zoological code, which reads plain
// binomials and trinomials the same way the botanical one does.
func (p *poolImpl) Canonical(name string) string {
	result, err := p.Parse(name, nomcode.Zoological)
	if err != nil || !result.Parsed {
		return ""
	}
	return result.Canonical.Simple
}

func (p *poolImpl) Close() {
	if p.botanicalCh != nil {
		close(p.botanicalCh)
		for range p.botanicalCh {
		}
	}
	if p.zoologicalCh != nil {
		close(p.zoologicalCh)
		for range p.zoologicalCh {
		}
	}
}
