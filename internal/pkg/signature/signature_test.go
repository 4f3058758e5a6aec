package signature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestValidateSecret(t *testing.T) {
	assert.ErrorIs(t, ValidateSecret(""), ErrMissingSecret)
	assert.ErrorIs(t, ValidateSecret(strings.Repeat("x", MinSecretLength-1)), ErrWeakSecret)
	assert.NoError(t, ValidateSecret(strings.Repeat("x", MinSecretLength)))
}

func TestNewSigner_RejectsWeakSecret(t *testing.T) {
	s, err := NewSigner("short")
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrWeakSecret)
}

func TestSignAndVerify(t *testing.T) {
	s, err := NewSigner(testSecret)
	require.NoError(t, err)

	ts := "2024-01-01T00:00:00.000Z"
	sig := s.Sign("u1", "m1", ts)

	assert.Len(t, sig, 64)
	assert.Equal(t, sig, s.Sign("u1", "m1", ts), "signing is deterministic")
	assert.True(t, s.Verify("u1", "m1", ts, sig))

	t.Run("any changed field fails", func(t *testing.T) {
		assert.False(t, s.Verify("u2", "m1", ts, sig))
		assert.False(t, s.Verify("u1", "m2", ts, sig))
		assert.False(t, s.Verify("u1", "m1", "2024-01-01T00:00:01.000Z", sig))
	})

	t.Run("one flipped signature digit fails", func(t *testing.T) {
		for _, i := range []int{0, len(sig) / 2, len(sig) - 1} {
			b := []byte(sig)
			if b[i] == '0' {
				b[i] = '1'
			} else {
				b[i] = '0'
			}
			assert.False(t, s.Verify("u1", "m1", ts, string(b)), "digit %d", i)
		}
	})

	t.Run("non-hex signature fails", func(t *testing.T) {
		assert.False(t, s.Verify("u1", "m1", ts, "not-hex"))
	})

	t.Run("other secret fails", func(t *testing.T) {
		other, err := NewSigner(strings.Repeat("z", 32))
		require.NoError(t, err)
		assert.False(t, other.Verify("u1", "m1", ts, sig))
	})
}

func TestCanonicalMessage(t *testing.T) {
	assert.Equal(t, "u1|m1|ts", CanonicalMessage("u1", "m1", "ts"))
}
