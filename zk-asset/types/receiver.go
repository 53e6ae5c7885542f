package types

import (
	"fmt"
	"io"

	"github.com/kysee/zkasset/zk-asset/crypto"
)

const CipherSize = 16

// ShieldedAddress is the publishable half of a prepared receiver.
type ShieldedAddress struct {
	AssetID AssetID
	K       crypto.Digest
	S       crypto.Digest
	R       crypto.Digest
	EncPK   crypto.Digest
}

// SpendingInfo is the private half of a prepared receiver. It is never transmitted.
type SpendingInfo struct {
	AssetID    AssetID
	PK         crypto.Digest
	SecretKey  crypto.Digest
	Rho        crypto.Digest
	VoidNumber crypto.Digest
	EncSK      crypto.Digest
}

// FullReceiver bundles both halves at preparation time.
type FullReceiver struct {
	Address  ShieldedAddress
	Spending SpendingInfo
}

// ProcessedReceiver is what a sender posts after paying to a ShieldedAddress.
// Value is kept in clear next to its encrypted copy.
type ProcessedReceiver struct {
	UTXO       crypto.Digest
	Value      uint64
	SenderPK   crypto.Digest
	Ciphertext [CipherSize]byte
	Address    ShieldedAddress
}

// SampleReceiver prepares a receiver for assetID owned by sk.
func SampleReceiver(params *crypto.Params, sk crypto.Digest, assetID AssetID, rng io.Reader) (*FullReceiver, error) {
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

	encPK, encSK, err := params.Ecies.KeyGen(rng)
	if err != nil {
		return nil, fmt.Errorf("encryption key: %w", err)
	}

	return &FullReceiver{
		Address: ShieldedAddress{
			AssetID: assetID,
			K:       k,
			S:       s,
			R:       r,
			EncPK:   encPK,
		},
		Spending: SpendingInfo{
			AssetID:    assetID,
			PK:         pk,
			SecretKey:  sk,
			Rho:        rho,
			VoidNumber: voidNumber,
			EncSK:      encSK,
		},
	}, nil
}

// Process finalizes a payment of value to sa.
// utxo = Commit(value || k; s) and the value is encrypted under sa.EncPK.
func (sa *ShieldedAddress) Process(params *crypto.Params, value uint64, rng io.Reader) (*ProcessedReceiver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	utxo, err := params.Commit.Commit(receiverMessage(value, sa.K), sa.S)
	if err != nil {
		return nil, fmt.Errorf("utxo commitment: %w", err)
	}
	ct, err := params.Ecies.Encrypt(sa.EncPK, value, rng)
	if err != nil {
		return nil, fmt.Errorf("value encryption: %w", err)
	}

	pr := &ProcessedReceiver{
		UTXO:    utxo,
		Value:   value,
		Address: *sa,
	}
	copy(pr.Ciphertext[:], ct[:CipherSize])
	copy(pr.SenderPK[:], ct[CipherSize:])
	return pr, nil
}

// EncryptedValue reassembles the 48-byte ciphertext as produced by the encryption scheme.
func (pr *ProcessedReceiver) EncryptedValue() [crypto.CiphertextSize]byte {
	var ct [crypto.CiphertextSize]byte
	copy(ct[:CipherSize], pr.Ciphertext[:])
	copy(ct[CipherSize:], pr.SenderPK[:])
	return ct
}

// Open confirms that pr pays to fr. The ciphertext must decrypt to pr.Value
// and utxo must re-derive from (value, k, s). It returns the received value.
func (fr *FullReceiver) Open(params *crypto.Params, pr *ProcessedReceiver) (uint64, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}
	if pr.Address != fr.Address {
		return 0, fmt.Errorf("%w: processed receiver is addressed to another shielded address", ErrSanityCheckFail)
	}

	value, err := params.Ecies.Decrypt(fr.Spending.EncSK, pr.EncryptedValue())
	if err != nil {
		return 0, err
	}
	if value != pr.Value {
		return 0, fmt.Errorf("%w: decrypted value %d, posted %d", ErrSanityCheckFail, value, pr.Value)
	}

	utxo, err := params.Commit.Commit(receiverMessage(value, fr.Address.K), fr.Address.S)
	if err != nil {
		return 0, fmt.Errorf("utxo commitment: %w", err)
	}
	if utxo != pr.UTXO {
		return 0, fmt.Errorf("%w: utxo mismatch", ErrSanityCheckFail)
	}
	return value, nil
}
