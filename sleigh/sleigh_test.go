package sleigh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarnodeSpaceName(t *testing.T) {
	vn := NewVarnode("register", 8, 4)
	assert.Equal(t, "register", vn.SpaceName())
	assert.Equal(t, uint64(8), vn.Offset)
	assert.Equal(t, uint64(4), vn.Size)

	empty := NewVarnode("", 0, 0)
	assert.Equal(t, "", empty.SpaceName())

	// Names at the ABI buffer limit carry no NUL and must still read back.
	full := NewVarnode("0123456789abcdef", 0, 0)
	assert.Equal(t, "0123456789abcdef", full.SpaceName())

	// Longer names are truncated to the buffer.
	long := NewVarnode("0123456789abcdefgh", 0, 0)
	assert.Equal(t, "0123456789abcdef", long.SpaceName())
}

func TestErrFromStatus(t *testing.T) {
	tests := []struct {
		code int32
		want error
	}{
		{statusOK, nil},
		{statusUninit, ErrUninit},
		{statusBadVarSpace, ErrBadVarSpace},
		{statusBadOperation, ErrBadOperation},
		{statusFail, ErrFail},
		{statusCallBeginFirst, ErrCallBeginFirst},
		{statusUnableToLift, ErrUnableToLift},
		{statusInvalidSpec, ErrInvalidSpec},
		{statusInvalidPspec, ErrInvalidPspec},
		{statusInsnDecodeError, ErrInsnDecode},
		{statusBadContextVariable, ErrBadContextVariable},
	}
	for _, tt := range tests {
		err := errFromStatus(tt.code)
		if tt.want == nil {
			assert.NoError(t, err)
			continue
		}
		require.ErrorIs(t, err, tt.want, "status %d", tt.code)
	}

	// Unknown codes collapse to ErrFail rather than panicking.
	require.ErrorIs(t, errFromStatus(99), ErrFail)
}
