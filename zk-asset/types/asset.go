package types

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kysee/zkasset/zk-asset/crypto"
)

// AssetID identifies the kind of asset a coin carries.
type AssetID uint64

const TestAsset AssetID = 0

// PubInfo holds the public derivation inputs of a coin.
type PubInfo struct {
	PK  crypto.Digest
	Rho crypto.Digest
	S   crypto.Digest
	R   crypto.Digest
	K   crypto.Digest
}

// PrivInfo holds the private inputs of a coin.
type PrivInfo struct {
	Value     uint64
	SecretKey crypto.Digest
}

// ConfidentialAsset is a coin. Its digests satisfy
//
//	pk          = PRF(secret_key, 0)
//	void_number = PRF(secret_key, rho)
//	k           = Commit(pk || rho; r)
//	utxo        = Commit(asset_id || value || k; s)
type ConfidentialAsset struct {
	AssetID    AssetID
	UTXO       crypto.Digest
	VoidNumber crypto.Digest
	Pub        PubInfo
	Priv       PrivInfo
}

// SampleAsset mints a fresh coin of value for the owner of sk.
// rng must be a cryptographically secure source.
func SampleAsset(params *crypto.Params, sk crypto.Digest, assetID AssetID, value uint64, rng io.Reader) (*ConfidentialAsset, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rho, err := randomDigest(rng)
	if err != nil {
		return nil, err
	}
	pk, voidNumber, err := deriveKeys(params, sk, rho)
	if err != nil {
		return nil, err
	}

	r, err := params.Commit.RandomOpening(rng)
	if err != nil {
		return nil, err
	}
	k, err := params.Commit.Commit(innerMessage(pk, rho), r)
	if err != nil {
		return nil, fmt.Errorf("k commitment: %w", err)
	}

	s, err := params.Commit.RandomOpening(rng)
	if err != nil {
		return nil, err
	}
	utxo, err := params.Commit.Commit(assetMessage(assetID, value, k), s)
	if err != nil {
		return nil, fmt.Errorf("utxo commitment: %w", err)
	}

	return &ConfidentialAsset{
		AssetID:    assetID,
		UTXO:       utxo,
		VoidNumber: voidNumber,
		Pub: PubInfo{
			PK:  pk,
			Rho: rho,
			S:   s,
			R:   r,
			K:   k,
		},
		Priv: PrivInfo{
			Value:     value,
			SecretKey: sk,
		},
	}, nil
}

func randomDigest(rng io.Reader) (crypto.Digest, error) {
	var d crypto.Digest
	if _, err := io.ReadFull(rng, d[:]); err != nil {
		return d, fmt.Errorf("%w: %v", crypto.ErrRandomness, err)
	}
	return d, nil
}

// deriveKeys returns pk = PRF(sk, 0) and void_number = PRF(sk, rho).
func deriveKeys(params *crypto.Params, sk, rho crypto.Digest) (pk, voidNumber crypto.Digest, err error) {
	pk, err = params.PRF.Evaluate(sk, crypto.Digest{})
	if err != nil {
		return pk, voidNumber, fmt.Errorf("pk derivation: %w", err)
	}
	voidNumber, err = params.PRF.Evaluate(sk, rho)
	if err != nil {
		return pk, voidNumber, fmt.Errorf("void number derivation: %w", err)
	}
	return pk, voidNumber, nil
}

// innerMessage is pk || rho.
func innerMessage(pk, rho crypto.Digest) []byte {
	msg := make([]byte, 0, 2*crypto.DigestSize)
	msg = append(msg, pk[:]...)
	return append(msg, rho[:]...)
}

// assetMessage is asset_id_le || value_le || k.
func assetMessage(assetID AssetID, value uint64, k crypto.Digest) []byte {
	msg := make([]byte, 0, 16+crypto.DigestSize)
	msg = binary.LittleEndian.AppendUint64(msg, uint64(assetID))
	msg = binary.LittleEndian.AppendUint64(msg, value)
	return append(msg, k[:]...)
}

// receiverMessage is value_le || k. Coins created through a shielded address
// do not bind the asset id in utxo, unlike assetMessage.
func receiverMessage(value uint64, k crypto.Digest) []byte {
	msg := make([]byte, 0, 8+crypto.DigestSize)
	msg = binary.LittleEndian.AppendUint64(msg, value)
	return append(msg, k[:]...)
}
