// Package crypto provides the cryptographic capabilities consumed by the
// confidential asset types and the sharded ledger: a keyed PRF, a Pedersen
// commitment, an ECIES-style value encryption and a merkle tree builder.
//
// Callers never reach the concrete schemes directly. Every operation receives
// a *Params that bundles the capability implementations together with their
// public parameters.
package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

const DigestSize = 32

// Digest is an opaque 32-byte value: PRF outputs, commitments, openings, keys and roots.
type Digest [DigestSize]byte

func (d Digest) Bytes() []byte {
	ret := make([]byte, DigestSize)
	copy(ret, d[:])
	return ret
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) IsZero() bool {
	return d == Digest{}
}

func DigestFromBytes(bz []byte) (Digest, error) {
	var d Digest
	if len(bz) != DigestSize {
		return d, fmt.Errorf("%w: digest must be %d bytes, got %d", ErrNonCanonical, DigestSize, len(bz))
	}
	copy(d[:], bz)
	return d, nil
}

var (
	ErrCrypto       = errors.New("crypto failure")
	ErrInvalidParam = fmt.Errorf("%w: invalid parameter", ErrCrypto)
	ErrNonCanonical = fmt.Errorf("%w: non-canonical encoding", ErrCrypto)
	ErrDecrypt      = fmt.Errorf("%w: decryption failed", ErrCrypto)
	ErrRandomness   = fmt.Errorf("%w: randomness source failed", ErrCrypto)
)

// PRF is a keyed pseudorandom function.
type PRF interface {
	Evaluate(key, input Digest) (Digest, error)
}

// Commitment is a binding and hiding commitment scheme with an explicit opening.
type Commitment interface {
	Commit(message []byte, opening Digest) (Digest, error)
	RandomOpening(rng io.Reader) (Digest, error)
	// CheckOpening and CheckDigest validate the domain of decoded values.
	CheckOpening(opening Digest) error
	CheckDigest(d Digest) error
}

// Ecies encrypts a 64-bit value under a recipient public key.
// The ciphertext is CiphertextSize bytes: a 16-byte authenticated body
// followed by the 32-byte ephemeral public key of the sender.
type Ecies interface {
	KeyGen(rng io.Reader) (pk, sk Digest, err error)
	Encrypt(pk Digest, value uint64, rng io.Reader) ([CiphertextSize]byte, error)
	Decrypt(sk Digest, ciphertext [CiphertextSize]byte) (uint64, error)
	CheckPublicKey(pk Digest) error
	CheckSecretKey(sk Digest) error
}

// MerkleTree computes roots and membership proofs over a list of digests.
type MerkleTree interface {
	Root(leaves []Digest) (Digest, error)
	Prove(leaves []Digest, index uint64) (*MembershipProof, error)
	Verify(root Digest, proof *MembershipProof) bool
}

// Params is the shared parameter object threaded through every public operation.
type Params struct {
	PRF    PRF
	Commit Commitment
	Ecies  Ecies
	Merkle MerkleTree

	commitParam *CommitParam
	hashParam   *HashParam
}

// DefaultParams builds the default scheme: BLAKE2s PRF, Pedersen commitments
// on the BN254 twisted Edwards curve, ECIES on the same curve and MiMC merkle trees.
func DefaultParams() (*Params, error) {
	cp, err := DefaultCommitParam()
	if err != nil {
		return nil, err
	}
	return newParams(cp, DefaultHashParam())
}

// NewParams parses serialized commitment and hash parameters.
func NewParams(commitParam, hashParam []byte) (*Params, error) {
	cp, err := ParseCommitParam(commitParam)
	if err != nil {
		return nil, err
	}
	hp, err := ParseHashParam(hashParam)
	if err != nil {
		return nil, err
	}
	return newParams(cp, hp)
}

func newParams(cp *CommitParam, hp HashParam) (*Params, error) {
	mt, err := NewMerkleTree(hp)
	if err != nil {
		return nil, err
	}
	return &Params{
		PRF:    Blake2sPRF{},
		Commit: NewPedersen(cp),
		Ecies:  ECIES{},
		Merkle: mt,

		commitParam: cp,
		hashParam:   &hp,
	}, nil
}

// CommitParamBytes and HashParamBytes return the serialized parameters,
// or nil when the params were not built by DefaultParams or NewParams.
func (p *Params) CommitParamBytes() []byte {
	if p.commitParam == nil {
		return nil
	}
	return p.commitParam.Bytes()
}

func (p *Params) HashParamBytes() []byte {
	if p.hashParam == nil {
		return nil
	}
	return p.hashParam.Bytes()
}

// Validate reports whether every capability is set.
func (p *Params) Validate() error {
	if p == nil || p.PRF == nil || p.Commit == nil || p.Ecies == nil || p.Merkle == nil {
		return fmt.Errorf("%w: incomplete params", ErrInvalidParam)
	}
	return nil
}
