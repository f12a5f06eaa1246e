package crypto

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestSealOpen(t *testing.T) {
	box, err := New(testKey)
	require.NoError(t, err)
	require.True(t, box.Configured())

	sealed, err := box.Seal("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, sealedPrefix))
	assert.NotContains(t, sealed, "JBSWY3DPEHPK3PXP")

	again, err := box.Seal("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "nonce is random")

	plain, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", plain)
}

func TestUnconfiguredPassesThrough(t *testing.T) {
	box, err := New("")
	require.NoError(t, err)
	assert.False(t, box.Configured())

	sealed, err := box.Seal("secret")
	require.NoError(t, err)
	assert.Equal(t, "secret", sealed)

	_, err = box.Open(sealedPrefix + "AAAA")
	assert.Error(t, err)
}

func TestOpenLegacyPlaintext(t *testing.T) {
	box, err := New(testKey)
	require.NoError(t, err)
	plain, err := box.Open("legacy")
	require.NoError(t, err)
	assert.Equal(t, "legacy", plain)
}

func TestOpenRejectsTampering(t *testing.T) {
	box, err := New(testKey)
	require.NoError(t, err)

	_, err = box.Open(sealedPrefix + "!!!")
	assert.ErrorIs(t, err, ErrMalformed)

	sealed, err := box.Seal("secret")
	require.NoError(t, err)
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	require.NoError(t, err)
	raw[len(raw)/2] ^= 0xff
	_, err = box.Open(sealedPrefix + base64.RawStdEncoding.EncodeToString(raw))
	assert.Error(t, err)
}

func TestNewRejectsShortKey(t *testing.T) {
	_, err := New("c2hvcnQ=")
	assert.Error(t, err)
}
