// Package lifter orchestrates the pipeline: it feeds a target into the
// decoder, walks the target's sparse address space and emits summarised IL
// blocks.
package lifter

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Urethramancer/gadget/il"
	"github.com/Urethramancer/gadget/sleigh"
	"github.com/Urethramancer/gadget/target"
)

var (
	// ErrNoTarget means a lift was requested before a target was loaded.
	ErrNoTarget = errors.New("lifter: no target loaded")
	// ErrTargetPresent means a second target load was attempted.
	ErrTargetPresent = errors.New("lifter: target already loaded")
	// ErrAlreadyLifted means PerformLift was called twice.
	ErrAlreadyLifted = errors.New("lifter: lift already performed")
)

type state int

const (
	stateEmpty state = iota
	stateLoaded
	stateLifted
)

// Runtime owns the decoder, the loaded target and the register map. One
// target, one pipeline, one thread; the decoder library keeps process-wide
// state that rules out sharing.
type Runtime struct {
	dec    sleigh.Decoder
	target *target.Target
	regs   *il.RegisterMap
	state  state
}

// New creates a runtime backed by the SLEIGH library decoder.
func New() (*Runtime, error) {
	dec, err := sleigh.NewDecoder()
	if err != nil {
		return nil, errors.Wrap(err, "creating decoder")
	}
	return NewWithDecoder(dec), nil
}

// NewWithDecoder creates a runtime around an existing decoder. Tests use
// this to substitute a fake backend.
func NewWithDecoder(dec sleigh.Decoder) *Runtime {
	return &Runtime{dec: dec}
}

// Close releases the decoder. The runtime is unusable afterwards.
func (r *Runtime) Close() {
	if r.dec != nil {
		r.dec.Close()
		r.dec = nil
	}
}

// Registers returns the register map built during LoadTarget, or nil before
// a target is loaded. Handles into it stay valid for the runtime's life.
func (r *Runtime) Registers() *il.RegisterMap {
	return r.regs
}

// LoadTarget initialises the decoder from the target's spec, applies its
// context pairs, builds the register map and stages every rebased region.
// Unknown context variables are logged and skipped; everything else is
// fatal.
func (r *Runtime) LoadTarget(t *target.Target) error {
	if r.state != stateEmpty {
		return ErrTargetPresent
	}
	if err := r.dec.LoadSpec(t.SpecPath); err != nil {
		return err
	}
	if err := r.dec.Begin(); err != nil {
		return errors.Wrap(err, "starting decoder")
	}
	for _, pair := range t.Context {
		// The decoder ABI takes 32-bit context values.
		if err := r.dec.SetContextDefault(pair.Name, uint32(pair.Value)); err != nil {
			if errors.Is(err, sleigh.ErrBadContextVariable) {
				log.WithError(err).Warnf("skipping context variable %q", pair.Name)
				continue
			}
			return err
		}
	}
	table, err := r.dec.Registers()
	if err != nil {
		return errors.Wrap(err, "fetching register table")
	}
	r.regs = il.NewRegisterMap(table)
	for _, region := range t.RegionsRebased() {
		if err := r.dec.LoadBytes(region.Base, region.Data); err != nil {
			return errors.Wrapf(err, "staging region %q", region.Name)
		}
	}
	r.target = t
	r.state = stateLoaded
	return nil
}

// UserOps returns the names of the spec's user-defined operations. Valid
// after LoadTarget.
func (r *Runtime) UserOps() ([]string, error) {
	if r.state == stateEmpty {
		return nil, ErrNoTarget
	}
	return r.dec.UserOps()
}

// PerformLift walks the target's address space and lifts every decodable
// instruction. Undecodable bytes are skipped one alignment unit at a time;
// instructions whose operands fail classification are skipped whole. The
// returned blocks are in strictly increasing address order.
func (r *Runtime) PerformLift() ([]*il.Block, error) {
	switch r.state {
	case stateEmpty:
		return nil, ErrNoTarget
	case stateLifted:
		return nil, ErrAlreadyLifted
	}
	alignment := r.target.Alignment
	if alignment == 0 {
		alignment = target.DefaultAlignment
	}
	debug := log.IsLevelEnabled(log.DebugLevel)

	var out []*il.Block
	cursor := r.target.BaseAddress
	for {
		nxt, ok := r.target.NextAddress(cursor)
		if !ok {
			break
		}
		cursor = nxt
		raw, err := r.dec.LiftAt(cursor)
		if err != nil {
			if errors.Is(err, sleigh.ErrUnableToLift) {
				if debug {
					log.Debugf("lift: 0x%x undecodable, skipping %d", cursor, alignment)
				}
				cursor += alignment
				continue
			}
			return nil, errors.Wrapf(err, "lifting at 0x%x", cursor)
		}
		// The cursor must strictly increase, or the loop never ends.
		step := raw.Size
		if step == 0 {
			step = alignment
		}
		block, err := il.BlockFromRaw(raw, r.regs)
		if err != nil {
			if debug {
				log.WithError(err).Debugf("lift: 0x%x dropped", cursor)
			}
			cursor += step
			continue
		}
		out = append(out, block)
		cursor += step
	}
	r.state = stateLifted
	return out, nil
}
