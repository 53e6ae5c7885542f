package crypto

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/chacha20"
)

const (
	CiphertextSize = cipherBodySize + DigestSize

	cipherBodySize = valueSize + tagSize
	valueSize      = 8
	tagSize        = 8

	kdfOutputSize = chacha20.KeySize + chacha20.NonceSize + macKeySize
	macKeySize    = 32
)

var kdfPersonalization = []byte("zkasset_ExpandSd")

// ECIES encrypts a value with an ephemeral ECDH key agreement on the BN254
// twisted Edwards curve. The shared secret is expanded into a ChaCha20 key,
// a nonce and a MAC key; the body is ChaCha20(value) followed by a truncated
// keyed BLAKE2s tag over epk || ChaCha20(value).
//
// Layout: body(16) || epk(32).
type ECIES struct{}

func (ECIES) KeyGen(rng io.Reader) (pk, sk Digest, err error) {
	return NewKeyPair(rng)
}

func (ECIES) Encrypt(pk Digest, value uint64, rng io.Reader) ([CiphertextSize]byte, error) {
	var out [CiphertextSize]byte

	recipient, err := pointFromDigest(pk)
	if err != nil {
		return out, fmt.Errorf("ecies recipient key: %w", err)
	}
	epk, esk, err := NewKeyPair(rng)
	if err != nil {
		return out, err
	}
	ephemeral, err := digestToScalar(esk)
	if err != nil {
		return out, err
	}
	sharedSecret, err := ECDHEComputeSharedSecret(ephemeral, recipient)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrCrypto, err)
	}

	var plaintext [valueSize]byte
	binary.LittleEndian.PutUint64(plaintext[:], value)

	body, err := sealValue(sharedSecret, epk, plaintext)
	if err != nil {
		return out, err
	}
	copy(out[:cipherBodySize], body[:])
	copy(out[cipherBodySize:], epk[:])
	return out, nil
}

func (ECIES) Decrypt(sk Digest, ciphertext [CiphertextSize]byte) (uint64, error) {
	secret, err := secretScalar(sk)
	if err != nil {
		return 0, err
	}
	var epk Digest
	copy(epk[:], ciphertext[cipherBodySize:])
	ephemeral, err := pointFromDigest(epk)
	if err != nil {
		return 0, fmt.Errorf("ecies ephemeral key: %w", err)
	}
	sharedSecret, err := ECDHEComputeSharedSecret(secret, ephemeral)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCrypto, err)
	}

	var body [cipherBodySize]byte
	copy(body[:], ciphertext[:cipherBodySize])
	plaintext, err := openValue(sharedSecret, epk, body)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(plaintext[:]), nil
}

func (ECIES) CheckPublicKey(pk Digest) error {
	_, err := pointFromDigest(pk)
	return err
}

func (ECIES) CheckSecretKey(sk Digest) error {
	_, err := secretScalar(sk)
	return err
}

func secretScalar(sk Digest) (*big.Int, error) {
	s, err := digestToScalar(sk)
	if err != nil {
		return nil, err
	}
	if s.Sign() == 0 {
		return nil, fmt.Errorf("%w: zero secret key", ErrNonCanonical)
	}
	return s, nil
}

type sessionKeys struct {
	encKey []byte
	nonce  []byte
	macKey []byte
}

func deriveSessionKeys(sharedSecret []byte) (*sessionKeys, error) {
	keyStream, err := SaplingKDF(sharedSecret, kdfOutputSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	return &sessionKeys{
		encKey: keyStream[:chacha20.KeySize],
		nonce:  keyStream[chacha20.KeySize : chacha20.KeySize+chacha20.NonceSize],
		macKey: keyStream[chacha20.KeySize+chacha20.NonceSize:],
	}, nil
}

func (k *sessionKeys) tag(epk Digest, ct []byte) ([]byte, error) {
	mac, err := blake2s.New128(k.macKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	mac.Write(epk[:])
	mac.Write(ct)
	return mac.Sum(nil)[:tagSize], nil
}

func sealValue(sharedSecret []byte, epk Digest, plaintext [valueSize]byte) ([cipherBodySize]byte, error) {
	var body [cipherBodySize]byte

	keys, err := deriveSessionKeys(sharedSecret)
	if err != nil {
		return body, err
	}
	stream, err := chacha20.NewUnauthenticatedCipher(keys.encKey, keys.nonce)
	if err != nil {
		return body, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	stream.XORKeyStream(body[:valueSize], plaintext[:])

	tag, err := keys.tag(epk, body[:valueSize])
	if err != nil {
		return body, err
	}
	copy(body[valueSize:], tag)
	return body, nil
}

func openValue(sharedSecret []byte, epk Digest, body [cipherBodySize]byte) ([valueSize]byte, error) {
	var plaintext [valueSize]byte

	keys, err := deriveSessionKeys(sharedSecret)
	if err != nil {
		return plaintext, err
	}
	tag, err := keys.tag(epk, body[:valueSize])
	if err != nil {
		return plaintext, err
	}
	if subtle.ConstantTimeCompare(tag, body[valueSize:]) != 1 {
		// either a wrong key or a tampered ciphertext
		return plaintext, ErrDecrypt
	}

	stream, err := chacha20.NewUnauthenticatedCipher(keys.encKey, keys.nonce)
	if err != nil {
		return plaintext, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	stream.XORKeyStream(plaintext[:], body[:valueSize])
	return plaintext, nil
}

// SaplingKDF derives a key stream of a specified length from a shared secret using BLAKE2s.
// This function follows the PRF^expand logic, similar to HKDF-Expand (RFC 5869),
// as defined in the Zcash Sapling specification.
func SaplingKDF(sharedSecret []byte, outputLen int) ([]byte, error) {
	if len(sharedSecret) != 32 {
		return nil, fmt.Errorf("sharedSecret must be 32 bytes")
	}

	var keyStream []byte
	var counter byte = 1 // The counter must start at 1.
	for len(keyStream) < outputLen {
		// Create a new hash instance for each iteration to avoid state pollution.
		h, err := blake2s.New256(kdfPersonalization)
		if err != nil {
			return nil, fmt.Errorf("failed to create blake2s hash: %w", err)
		}
		h.Write(sharedSecret)
		h.Write([]byte{counter})

		keyStream = append(keyStream, h.Sum(nil)...)

		counter++
		if counter == 0 {
			return nil, errors.New("KDF counter overflow")
		}
	}

	return keyStream[:outputLen], nil
}
