package utils

import (
	"errors"
	"fmt"
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	_ "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	gnark_hash "github.com/consensys/gnark-crypto/hash"
)

const (
	// FieldBytes is the size of a canonical BN254 scalar field element.
	FieldBytes = fr.Bytes

	// DefaultHashID identifies the hash used for commitments digests and merkle trees.
	DefaultHashID = gnark_hash.MIMC_BN254

	limbBytes = FieldBytes / 2
)

var ErrBlockSize = errors.New("input is not a sequence of 32-byte blocks")

// DefaultHasher is MiMC over BN254 accepting any sequence of 32-byte blocks.
func DefaultHasher() hash.Hash {
	return NewLimbHasher(MiMCHasher())
}

func MiMCHasher() hash.Hash {
	return DefaultHashID.New()
}

// MiMCHash hashes the concatenation of the inputs with DefaultHasher.
// Every input must be a whole number of 32-byte blocks.
func MiMCHash(ins ...[]byte) ([]byte, error) {
	hasher := DefaultHasher()
	for _, in := range ins {
		if _, err := hasher.Write(in); err != nil {
			return nil, err
		}
	}
	return hasher.Sum(nil), nil
}

// HashToField maps an arbitrary message to a single field element
// with expand_message_xmd under the domain separation tag dst.
func HashToField(msg, dst []byte) (fr.Element, error) {
	elems, err := fr.Hash(msg, dst, 1)
	if err != nil {
		return fr.Element{}, err
	}
	return elems[0], nil
}

// IsCanonical reports whether b is the big-endian encoding of a field element lower than r.
func IsCanonical(b []byte) bool {
	var e fr.Element
	return e.SetBytesCanonical(b) == nil
}

// limbHasher feeds every 32-byte block to a field hasher as two 128-bit limbs,
// high half first. Limbs are always below r, so distinct blocks never map to
// the same field elements.
type limbHasher struct {
	inner hash.Hash
}

func NewLimbHasher(inner hash.Hash) hash.Hash {
	return &limbHasher{inner: inner}
}

func (w *limbHasher) Write(p []byte) (n int, err error) {
	if len(p)%FieldBytes != 0 {
		return 0, fmt.Errorf("%w: got %d bytes", ErrBlockSize, len(p))
	}

	var limb [FieldBytes]byte
	for i := 0; i < len(p); i += limbBytes {
		copy(limb[limbBytes:], p[i:i+limbBytes])
		if _, err := w.inner.Write(limb[:]); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func (w *limbHasher) Sum(b []byte) []byte {
	return w.inner.Sum(b)
}

func (w *limbHasher) Reset() {
	w.inner.Reset()
}

func (w *limbHasher) Size() int {
	return w.inner.Size()
}

func (w *limbHasher) BlockSize() int {
	return FieldBytes
}
