package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_MatchesKindAndSentinel(t *testing.T) {
	errDuplicate := New(ErrConflict, "duplicate entry")
	wrapped := fmt.Errorf("failed to save: %w", errDuplicate)

	assert.True(t, errors.Is(wrapped, errDuplicate))
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, "duplicate entry", errDuplicate.Error())
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want error
	}{
		{New(ErrNotFound, "missing"), ErrNotFound},
		{fmt.Errorf("ctx: %w", New(ErrNotEditable, "locked")), ErrNotEditable},
		{New(ErrInvalidTimestamp, "clock went back"), ErrInvalidTimestamp},
		{errors.New("plain"), nil},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, KindOf(c.err), "KindOf(%v)", c.err)
	}
}
