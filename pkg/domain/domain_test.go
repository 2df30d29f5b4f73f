package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseName(t *testing.T) {
	tests := map[string]string{
		"react-dark":    "react",
		"javascript":    "javascript",
		"a-b-light":     "a",
		"-dark":         "",
		"golang":        "golang",
		"vuejs-light":   "vuejs",
		"tailwind-dark": "tailwind",
	}
	for key, want := range tests {
		assert.Equal(t, want, BaseName(key), key)
		assert.Equal(t, want, IconKey(key).Base(), key)
	}
}

func TestIsThemedKey(t *testing.T) {
	assert.True(t, IsThemedKey("react-dark"))
	assert.True(t, IsThemedKey("react-light"))
	assert.False(t, IsThemedKey("docker"))
	assert.False(t, IsThemedKey("aws-lambda"))
}

func TestTheme(t *testing.T) {
	assert.Equal(t, ThemeDark, Theme("").OrDefault())
	assert.Equal(t, ThemeLight, ThemeLight.OrDefault())
	assert.Equal(t, "-dark", ThemeDark.Suffix())
	assert.Equal(t, "-light", ThemeLight.Suffix())
}

func TestUserInputError(t *testing.T) {
	cause := errors.New("strconv: bad digit")
	err := &UserInputError{Code: CodeInvalidPerLine, Message: "bad per line", Err: cause}

	assert.True(t, IsUserInput(err))
	assert.True(t, IsUserInput(fmt.Errorf("wrapped: %w", err)))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "bad per line: strconv: bad digit", err.Error())

	plain := NewUserInputError(CodeMissingIcons, "missing")
	assert.Equal(t, "missing", plain.Error())
	assert.True(t, IsUserInput(plain))

	assert.False(t, IsUserInput(ErrContractViolation))
	assert.False(t, IsUserInput(nil))
}
