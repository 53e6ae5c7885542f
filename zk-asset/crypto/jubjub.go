package crypto

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	tedwards "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"golang.org/x/crypto/blake2s"
)

//
// Scalars and points on the twisted Edwards curve embedded in BN254.

func curveOrder() *big.Int {
	params := tedwards.GetEdwardsCurve()
	return new(big.Int).Set(&params.Order)
}

func basePoint() tedwards.PointAffine {
	return tedwards.GetEdwardsCurve().Base
}

// randomScalar reads 64 bytes from rng and reduces them modulo the subgroup order.
func randomScalar(rng io.Reader) (*big.Int, error) {
	var buf [64]byte
	if _, err := io.ReadFull(rng, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomness, err)
	}
	s := new(big.Int).SetBytes(buf[:])
	return s.Mod(s, curveOrder()), nil
}

func randomNonZeroScalar(rng io.Reader) (*big.Int, error) {
	s, err := randomScalar(rng)
	if err != nil {
		return nil, err
	}
	if s.Sign() == 0 {
		return nil, fmt.Errorf("%w: zero scalar sampled", ErrRandomness)
	}
	return s, nil
}

func scalarToDigest(s *big.Int) Digest {
	var d Digest
	s.FillBytes(d[:])
	return d
}

// digestToScalar parses a big-endian scalar lower than the subgroup order.
func digestToScalar(d Digest) (*big.Int, error) {
	s := new(big.Int).SetBytes(d[:])
	if s.Cmp(curveOrder()) >= 0 {
		return nil, fmt.Errorf("%w: scalar out of range", ErrNonCanonical)
	}
	return s, nil
}

func inSubgroup(p *tedwards.PointAffine) bool {
	var q tedwards.PointAffine
	q.ScalarMultiplication(p, curveOrder())
	return q.IsZero()
}

// pointFromDigest decodes a compressed point. The encoding must be canonical,
// the point on the curve, in the prime order subgroup and not the identity.
func pointFromDigest(d Digest) (*tedwards.PointAffine, error) {
	var p tedwards.PointAffine
	if _, err := p.SetBytes(d[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNonCanonical, err)
	}
	if !p.IsOnCurve() {
		return nil, fmt.Errorf("%w: point is not on curve", ErrNonCanonical)
	}
	if p.Bytes() != d {
		return nil, fmt.Errorf("%w: point encoding", ErrNonCanonical)
	}
	if p.IsZero() || !inSubgroup(&p) {
		return nil, fmt.Errorf("%w: point is not in the prime order subgroup", ErrNonCanonical)
	}
	return &p, nil
}

func pointToDigest(p *tedwards.PointAffine) Digest {
	return Digest(p.Bytes())
}

// NewKeyPair samples a non-zero scalar and returns (scalar·Base, scalar).
func NewKeyPair(rng io.Reader) (pk, sk Digest, err error) {
	s, err := randomNonZeroScalar(rng)
	if err != nil {
		return pk, sk, err
	}
	base := basePoint()
	var pub tedwards.PointAffine
	pub.ScalarMultiplication(&base, s)
	return pointToDigest(&pub), scalarToDigest(s), nil
}

// ECDHEComputeSharedSecret computes the ECDHE shared secret
// sharedSecret = BLAKE2s(X(privateKey * otherPublicKey))
func ECDHEComputeSharedSecret(privateKey *big.Int, otherPublicKey *tedwards.PointAffine) ([]byte, error) {
	// Verify the other public key is on the curve
	if !otherPublicKey.IsOnCurve() {
		return nil, errors.New("other public key is not on curve")
	}

	var sharedSecret tedwards.PointAffine
	sharedSecret.ScalarMultiplication(otherPublicKey, privateKey)

	if !sharedSecret.IsOnCurve() || sharedSecret.IsZero() {
		return nil, errors.New("computed shared secret is not a valid point")
	}

	hasher, err := blake2s.New256(nil)
	if err != nil {
		return nil, err
	}
	ax := sharedSecret.X.Bytes()
	hasher.Write(ax[:])
	return hasher.Sum(nil), nil
}
