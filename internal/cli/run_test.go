package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/binoyjayan/p2sh/internal/builtin"
)

func TestStripShebang(t *testing.T) {
	assert.Equal(t, []byte("let x = 1;"), stripShebang([]byte("#!/usr/bin/env p2sh\nlet x = 1;")))
	assert.Equal(t, []byte("let x = 1;"), stripShebang([]byte("let x = 1;")))
	assert.Nil(t, stripShebang([]byte("#!/usr/bin/env p2sh")))
}

func TestArgvFor(t *testing.T) {
	assert.Equal(t, []string{"script.p2sh", "a", "b"}, argvFor("script.p2sh", []string{"a", "b"}))
	assert.Equal(t, []string{"-c"}, argvFor("-c", nil))
}

func TestExitCodeForMasksToByte(t *testing.T) {
	code, err := exitCodeFor(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, code)

	code, err = exitCodeFor(&builtin.ExitError{Code: 257})
	assert.NoError(t, err)
	assert.Equal(t, 1, code)

	_, err = exitCodeFor(assert.AnError)
	assert.Error(t, err)
}
