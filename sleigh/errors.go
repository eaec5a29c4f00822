package sleigh

import "github.com/pkg/errors"

// Sentinel errors mirroring the decoder's status enum. Callers test these
// with errors.Is; wrapped variants carry call-site context.
var (
	ErrUninit             = errors.New("sleigh: decoder not initialised")
	ErrBadVarSpace        = errors.New("sleigh: unsupported varnode space")
	ErrBadOperation       = errors.New("sleigh: bad operation")
	ErrFail               = errors.New("sleigh: internal decoder failure")
	ErrCallBeginFirst     = errors.New("sleigh: begin has not been called")
	ErrUnableToLift       = errors.New("sleigh: unable to lift at address")
	ErrInvalidSpec        = errors.New("sleigh: invalid .sla spec file")
	ErrInvalidPspec       = errors.New("sleigh: invalid .pspec file")
	ErrInsnDecode         = errors.New("sleigh: instruction decode error")
	ErrBadContextVariable = errors.New("sleigh: unknown context variable")
)

// Status codes of the decoder ABI.
const (
	statusOK = iota
	statusUninit
	statusBadVarSpace
	statusBadOperation
	statusFail
	statusCallBeginFirst
	statusUnableToLift
	statusInvalidSpec
	statusInvalidPspec
	statusInsnDecodeError
	statusBadContextVariable
)

// errFromStatus translates a decoder status code. Unknown codes collapse to
// ErrFail so a library upgrade cannot panic the pipeline.
func errFromStatus(code int32) error {
	switch code {
	case statusOK:
		return nil
	case statusUninit:
		return ErrUninit
	case statusBadVarSpace:
		return ErrBadVarSpace
	case statusBadOperation:
		return ErrBadOperation
	case statusFail:
		return ErrFail
	case statusCallBeginFirst:
		return ErrCallBeginFirst
	case statusUnableToLift:
		return ErrUnableToLift
	case statusInvalidSpec:
		return ErrInvalidSpec
	case statusInvalidPspec:
		return ErrInvalidPspec
	case statusInsnDecodeError:
		return ErrInsnDecode
	case statusBadContextVariable:
		return ErrBadContextVariable
	}
	return errors.Wrapf(ErrFail, "unknown status %d", code)
}
