package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/tarantool/go-valuestore/hasher"
)

var (
	// ErrNoPrivateKey is returned by Sign of a verify-only RSAPSS.
	ErrNoPrivateKey = errors.New("private key is not set")
	// ErrNoPublicKey is returned by Verify without a public key.
	ErrNoPublicKey = errors.New("public key is not set")
)

// RSAPSS represents RSA PSS algo for signing/verification
// (with SHA256 as digest calculation function).
type RSAPSS struct {
	publicKey  *rsa.PublicKey
	privateKey *rsa.PrivateKey
	hash       crypto.Hash
	hasher     hasher.Hasher
}

var _ SignerVerifier = RSAPSS{} //nolint:exhaustruct

// NewRSAPSS creates an RSAPSS that both signs with privKey and verifies
// with its public half.
func NewRSAPSS(privKey *rsa.PrivateKey) RSAPSS {
	var pubKey *rsa.PublicKey
	if privKey != nil {
		pubKey = &privKey.PublicKey
	}

	return RSAPSS{
		publicKey:  pubKey,
		privateKey: privKey,
		hash:       crypto.SHA256,
		hasher:     hasher.NewSHA256Hasher(),
	}
}

// NewRSAPSSVerifier creates a verify-only RSAPSS.
func NewRSAPSSVerifier(pubKey *rsa.PublicKey) RSAPSS {
	return RSAPSS{
		publicKey:  pubKey,
		privateKey: nil,
		hash:       crypto.SHA256,
		hasher:     hasher.NewSHA256Hasher(),
	}
}

// Name implements SignerVerifier interface.
func (r RSAPSS) Name() string {
	return "RSASSA-PSS"
}

func (r RSAPSS) pssOptions() *rsa.PSSOptions {
	return &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
		Hash:       r.hash,
	}
}

// Sign generates SHA-256 digest and signs it using RSASSA-PSS.
func (r RSAPSS) Sign(data []byte) ([]byte, error) {
	if r.privateKey == nil {
		return nil, fmt.Errorf("failed to sign: %w", ErrNoPrivateKey)
	}

	digest, err := r.hasher.Hash(data)
	if err != nil {
		return nil, fmt.Errorf("failed to get hash: %w", err)
	}

	signature, err := rsa.SignPSS(rand.Reader, r.privateKey, r.hash, digest, r.pssOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}

	return signature, nil
}

// Verify compares data with signature.
func (r RSAPSS) Verify(data []byte, signature []byte) error {
	if r.publicKey == nil {
		return fmt.Errorf("failed to verify: %w", ErrNoPublicKey)
	}

	digest, err := r.hasher.Hash(data)
	if err != nil {
		return fmt.Errorf("failed to get hash: %w", err)
	}

	err = rsa.VerifyPSS(r.publicKey, r.hash, digest, signature, r.pssOptions())
	if err != nil {
		return fmt.Errorf("failed to verify: %w", err)
	}

	return nil
}
