package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_SixDigits(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}

func TestHashCode_DependsOnSaltAndPepper(t *testing.T) {
	base := hashCode("123456", "salt", "pepper")
	assert.Len(t, base, 64)
	assert.Equal(t, base, hashCode("123456", "salt", "pepper"))
	assert.NotEqual(t, base, hashCode("123456", "salt2", "pepper"))
	assert.NotEqual(t, base, hashCode("123456", "salt", "pepper2"))
	assert.NotEqual(t, base, hashCode("123457", "salt", "pepper"))
}

func TestHashesEqual(t *testing.T) {
	assert.True(t, hashesEqual("abc", "abc"))
	assert.False(t, hashesEqual("abc", "abd"))
	assert.False(t, hashesEqual("abc", ""))
}
