package crypto_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tarantool/go-valuestore/crypto"
)

func TestRsaWithoutKeys(t *testing.T) {
	t.Parallel()

	rsapss := crypto.NewRSAPSS(nil)

	data := []byte("abc")

	sig, err := rsapss.Sign(data)
	require.ErrorIs(t, err, crypto.ErrNoPrivateKey)
	require.Nil(t, sig, "signature must be nil")

	err = rsapss.Verify(data, sig)
	require.ErrorIs(t, err, crypto.ErrNoPublicKey)
}

func TestRsaOnlyPublicKey(t *testing.T) {
	t.Parallel()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	data := []byte("abc")

	verifier := crypto.NewRSAPSSVerifier(&privateKey.PublicKey)

	_, err = verifier.Sign(data)
	require.ErrorIs(t, err, crypto.ErrNoPrivateKey)

	sign, err := crypto.NewRSAPSS(privateKey).Sign(data)
	require.NoError(t, err)
	require.NotNil(t, sign)

	err = verifier.Verify(data, sign)
	require.NoError(t, err, "Verify must be successful")

	err = verifier.Verify([]byte("abd"), sign)
	require.ErrorContains(t, err, "failed to verify")
}

func TestRsaSignVerify(t *testing.T) {
	t.Parallel()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	rsapss := crypto.NewRSAPSS(privateKey)

	data := []byte("abc")

	sig, err := rsapss.Sign(data)
	require.NoError(t, err, "Sign must be successful")
	require.NotNil(t, sig, "signature must be returned")

	err = rsapss.Verify(data, sig)
	require.NoError(t, err, "Verify must be successful")
}

func TestRSAPSS_Name(t *testing.T) {
	t.Parallel()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	rsapss := crypto.NewRSAPSS(privateKey)
	require.Equal(t, "RSASSA-PSS", rsapss.Name())
}
