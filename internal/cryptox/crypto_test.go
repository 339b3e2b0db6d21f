package cryptox

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

var fastParams = Params{Time: 1, Memory: 8 * 1024, Threads: 1}

func TestDeriveKey_DefaultParamsDeterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt, DefaultParams)
	key2 := DeriveKey(password, salt, DefaultParams)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	// snapshot of argon2id(t=1, m=64MiB, p=4)
	expectedHex := "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveKey_DifferentSalts(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveKey(password, []byte("salt-1"), fastParams)
	key2 := DeriveKey(password, []byte("salt-2"), fastParams)

	require.Len(t, key1, KeySize)
	require.NotEqual(t, key1, key2, "different salts must give different keys")
}

func TestParams_Validate(t *testing.T) {
	require.NoError(t, DefaultParams.Validate())
	require.ErrorIs(t, Params{Time: 0, Memory: 1, Threads: 1}.Validate(), ErrInvalidParams)
	require.ErrorIs(t, Params{Time: 1, Memory: 0, Threads: 1}.Validate(), ErrInvalidParams)
	require.ErrorIs(t, Params{Time: 1, Memory: 1, Threads: 0}.Validate(), ErrInvalidParams)
}

func TestMakeVerifier_DiffersFromKey(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"), fastParams)
	v := MakeVerifier(key)
	require.Len(t, v, 32)
	require.NotEqual(t, key, v)
	require.Equal(t, v, MakeVerifier(key))
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"), fastParams)
	plain := []byte("workbook bytes")

	ct, nonce, err := Seal(key, plain)
	require.NoError(t, err)
	require.Len(t, nonce, NonceSize)
	require.NotContains(t, string(ct), "workbook")

	got, err := Open(key, nonce, ct)
	require.NoError(t, err)
	require.Equal(t, plain, got)
}

func TestOpen_TamperedCiphertextFails(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"), fastParams)
	ct, nonce, err := Seal(key, []byte("payload"))
	require.NoError(t, err)

	ct[0] ^= 0xFF
	_, err = Open(key, nonce, ct)
	require.Error(t, err)
}

func TestOpen_BadNonceSize(t *testing.T) {
	key := DeriveKey([]byte("pw"), []byte("salt"), fastParams)
	_, err := Open(key, []byte{1, 2, 3}, []byte("x"))
	require.Error(t, err)
}
