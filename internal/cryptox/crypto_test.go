package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	BcryptCost = bcrypt.MinCost
}

func TestHashPassword_RoundTrip(t *testing.T) {
	digest, err := HashPassword([]byte("hunter2"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$2"), "bcrypt digest expected, got %q", digest)

	assert.True(t, CheckPassword([]byte("hunter2"), digest))
	assert.False(t, CheckPassword([]byte("hunter3"), digest))
	assert.False(t, CheckPassword([]byte(""), digest))
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword([]byte("same"))
	require.NoError(t, err)
	b, err := HashPassword([]byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCheckPassword_LegacyDigest(t *testing.T) {
	// sha256("1234")
	const legacy = "03ac674216f3e15c761ee1a5e255f067953623c8b388b4459e13f978d7c846f4"

	assert.True(t, IsLegacyDigest(legacy))
	assert.Equal(t, legacy, LegacyDigest([]byte("1234")))
	assert.True(t, CheckPassword([]byte("1234"), legacy))
	assert.True(t, CheckPassword([]byte("1234"), strings.ToUpper(legacy)))
	assert.False(t, CheckPassword([]byte("12345"), legacy))
}

func TestCheckPassword_MalformedDigest(t *testing.T) {
	assert.False(t, CheckPassword([]byte("x"), ""))
	assert.False(t, CheckPassword([]byte("x"), "not-a-digest"))
}

func TestIsLegacyDigest(t *testing.T) {
	assert.False(t, IsLegacyDigest("abc"))
	assert.False(t, IsLegacyDigest(strings.Repeat("z", 64)))
	assert.True(t, IsLegacyDigest(strings.Repeat("a", 64)))
}
