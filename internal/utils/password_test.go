package utils

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	for _, plain := range []string{
		"",
		"a",
		"password",
		"exactly16bytes!!",
		"пароль с юникодом",
		"a longer passphrase that spans several aes blocks without trouble",
	} {
		enc, err := Encrypt(plain)
		require.NoError(t, err, "plain=%q", plain)
		dec, err := Decrypt(enc)
		require.NoError(t, err, "plain=%q", plain)
		assert.Equal(t, plain, dec)

		// The inverse direction must hold for any valid ciphertext too.
		reenc, err := Encrypt(dec)
		require.NoError(t, err)
		assert.Equal(t, enc, reenc)
	}
}

func TestEncryptIsDeterministic(t *testing.T) {
	// The IV is fixed by the protocol, so equal inputs must produce equal
	// ciphertexts or stored clients could not be verified.
	a, err := Encrypt("secret")
	require.NoError(t, err)
	b, err := Encrypt("secret")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecryptRejectsMalformedInput(t *testing.T) {
	_, err := Decrypt("not base64 at all!!!")
	assert.Error(t, err)

	// Valid base64 but not a whole number of AES blocks.
	_, err = Decrypt("YWJj")
	assert.Error(t, err)

	_, err = Decrypt("")
	assert.Error(t, err)
}

func TestDecryptRejectsBadPadding(t *testing.T) {
	enc, err := Encrypt("secret")
	require.NoError(t, err)
	dec, err := Decrypt(enc)
	require.NoError(t, err)
	require.Equal(t, "secret", dec)

	// A block-aligned plaintext gets a full padding block appended.  Keeping
	// only the data block leaves a final byte of 0x21 ('!'), which is out of
	// the 1..16 padding range and must be rejected.
	enc, err = Encrypt("exactly16bytes!!")
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(enc)
	require.NoError(t, err)
	require.Len(t, raw, 32)
	_, err = Decrypt(base64.StdEncoding.EncodeToString(raw[:16]))
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	// Known digest: base64(sha256("password")).
	assert.Equal(t, "XohImNooBHFR0OVvjcYpJ3NgPQ1qq73WKhHvch0VQtg=", HashPassword("password"))
	assert.Equal(t, HashPassword("x"), HashPassword("x"))
	assert.NotEqual(t, HashPassword("x"), HashPassword("y"))
}

func TestPKCS7PadUnpad(t *testing.T) {
	for n := 0; n <= 33; n++ {
		b := make([]byte, n)
		for i := range b {
			b[i] = byte(i)
		}
		padded := pkcs7Pad(b, 16)
		require.Zero(t, len(padded)%16)
		out, err := pkcs7Unpad(padded, 16)
		require.NoError(t, err)
		assert.Equal(t, b, out)
	}

	_, err := pkcs7Unpad([]byte{1, 2, 3}, 16)
	assert.Error(t, err)
	_, err = pkcs7Unpad(make([]byte, 16), 16)
	assert.Error(t, err)
}
