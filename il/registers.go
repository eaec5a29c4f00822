// Package il holds the intermediate language: named registers, classified
// operands, a compressed operation set and per-instruction semantic
// summaries, all built from the raw P-code the decoder emits.
package il

import (
	log "github.com/sirupsen/logrus"

	"github.com/Urethramancer/gadget/sleigh"
)

// Register is one architecture register as declared by the loaded spec.
// The (Offset, Size) pair is the lookup key; names may alias across widths.
type Register struct {
	Name   string
	Offset uint64
	Size   uint64
	// Value is scratch space for later analyses. The rest of the
	// descriptor never changes after the map is built.
	Value uint64
}

// RegisterMap resolves the decoder's (offset, width) varnode keys back to
// named registers. It is populated once after the decoder starts and is
// read-only afterwards.
type RegisterMap struct {
	regs []Register
}

// NewRegisterMap builds a map from the decoder's register table.
func NewRegisterMap(table []sleigh.Register) *RegisterMap {
	m := &RegisterMap{regs: make([]Register, 0, len(table))}
	seen := make(map[[2]uint64]bool, len(table))
	for _, r := range table {
		key := [2]uint64{r.Varnode.Offset, r.Varnode.Size}
		if seen[key] {
			log.Debugf("register table: duplicate key (%d,%d) for %q", r.Varnode.Offset, r.Varnode.Size, r.Name)
			continue
		}
		seen[key] = true
		m.regs = append(m.regs, Register{
			Name:   r.Name,
			Offset: r.Varnode.Offset,
			Size:   r.Varnode.Size,
		})
	}
	return m
}

// Len returns the number of registers in the map.
func (m *RegisterMap) Len() int {
	return len(m.regs)
}

// At returns the register with the given handle. Handles come from Lookup
// and stay valid for the life of the map.
func (m *RegisterMap) At(handle int) *Register {
	return &m.regs[handle]
}

// Lookup finds the register at (offset, width). An exact match wins; when
// none exists, a register at the same offset whose stored width is 2, 4 or
// 8 times the queried width is accepted instead, smallest factor first.
// Some architectures (RISC-V among them) never declare sub-width varnodes,
// so a 4-byte read of an 8-byte register must still resolve.
func (m *RegisterMap) Lookup(offset, width uint64) (int, bool) {
	for i := range m.regs {
		if m.regs[i].Offset == offset && m.regs[i].Size == width {
			return i, true
		}
	}
	for _, mul := range []uint64{2, 4, 8} {
		for i := range m.regs {
			if m.regs[i].Offset == offset && m.regs[i].Size == width*mul {
				return i, true
			}
		}
	}
	return 0, false
}
