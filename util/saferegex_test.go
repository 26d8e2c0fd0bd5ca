package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePattern_Valid(t *testing.T) {
	rv := NewRegexValidator()
	for _, pattern := range []string{
		`id=(\w+)`,
		`state=(?P<state>[A-Z_]+)`,
		`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`,
		`^(a|b|c)$`,
	} {
		assert.NoError(t, rv.ValidatePattern(pattern), "pattern=%s", pattern)
	}
}

func TestValidatePattern_Empty(t *testing.T) {
	err := NewRegexValidator().ValidatePattern("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestValidatePattern_TooLong(t *testing.T) {
	pattern := strings.Repeat("a", MaxRegexLength+1)
	err := NewRegexValidator().ValidatePattern(pattern)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too long")
}

func TestValidatePattern_NestedQuantifiers(t *testing.T) {
	rv := NewRegexValidator()
	for _, pattern := range []string{`(a+)+`, `(a*)*`, `(a+)*b`, `(\w*)+`} {
		err := rv.ValidatePattern(pattern)
		require.Error(t, err, "pattern=%s", pattern)
		assert.Contains(t, err.Error(), "nested quantifier")
	}
}

func TestValidatePattern_TooManyAlternations(t *testing.T) {
	pattern := strings.Repeat("a|", maxAlternations+1) + "a"
	err := NewRegexValidator().ValidatePattern(pattern)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alternations")
}

func TestValidatePattern_ExcessiveRepetition(t *testing.T) {
	rv := NewRegexValidator()
	err := rv.ValidatePattern(`a{100000}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repetition count")

	assert.Error(t, rv.ValidatePattern(`a{1,5000}`))
	assert.NoError(t, rv.ValidatePattern(`a{1,100}`))
}

func TestValidatePattern_InvalidSyntax(t *testing.T) {
	err := NewRegexValidator().ValidatePattern(`id=(\w+`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid regex")
}

func TestCompile(t *testing.T) {
	rv := NewRegexValidator()

	re, err := rv.Compile(`id=(?P<id>\w+)`)
	require.NoError(t, err)
	m := re.FindStringSubmatch("prefix id=abc123 suffix")
	require.NotNil(t, m)
	assert.Equal(t, "abc123", m[1])

	_, err = rv.Compile(`(a+)+`)
	assert.Error(t, err)
}
