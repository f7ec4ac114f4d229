package usererr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ConsoleMessage(t *testing.T) {
	base := errors.New("strconv.Atoi: parsing \"x\": invalid syntax")

	testCases := []struct {
		name   string
		err    error
		expect string
	}{
		{
			name:   "plain error",
			err:    errors.New("disk on fire"),
			expect: "disk on fire",
		},
		{
			name:   "user error",
			err:    Newf("%q is not a map ID", "x"),
			expect: `"x" is not a map ID`,
		},
		{
			name:   "wrapped user error",
			err:    fmt.Errorf("read command: %w", Wrap(base, "Map ID must be a number", "")),
			expect: "Map ID must be a number",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, ConsoleMessage(tc.err))
		})
	}
}

func Test_Wrap_unwraps(t *testing.T) {
	assert := assert.New(t)

	base := errors.New("base")
	err := Wrapf(base, "try %s", "again")

	assert.ErrorIs(err, base)
	assert.Contains(err.Error(), "base")
}
