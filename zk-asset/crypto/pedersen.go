package crypto

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	tedwards "github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"github.com/kysee/zkasset/utils"
)

const CommitParamSize = 2 * DigestSize

var (
	commitDST    = []byte("zkasset/pedersen/message")
	generatorDST = []byte("zkasset/pedersen/generator")
	generatorTag = []byte("zkasset/pedersen/H")
)

// CommitParam holds the two generators of the Pedersen commitment.
type CommitParam struct {
	G tedwards.PointAffine
	H tedwards.PointAffine
}

// DefaultCommitParam uses the curve base point as G and derives H from a fixed
// tag with hash-to-curve, so nobody knows log_G(H).
func DefaultCommitParam() (*CommitParam, error) {
	h, err := hashToPoint(generatorTag)
	if err != nil {
		return nil, err
	}
	return &CommitParam{G: basePoint(), H: *h}, nil
}

func ParseCommitParam(bz []byte) (*CommitParam, error) {
	if len(bz) != CommitParamSize {
		return nil, fmt.Errorf("%w: commitment param must be %d bytes, got %d", ErrInvalidParam, CommitParamSize, len(bz))
	}
	var gd, hd Digest
	copy(gd[:], bz[:DigestSize])
	copy(hd[:], bz[DigestSize:])

	g, err := pointFromDigest(gd)
	if err != nil {
		return nil, fmt.Errorf("%w: generator G: %v", ErrInvalidParam, err)
	}
	h, err := pointFromDigest(hd)
	if err != nil {
		return nil, fmt.Errorf("%w: generator H: %v", ErrInvalidParam, err)
	}
	if g.Equal(h) {
		return nil, fmt.Errorf("%w: generators must differ", ErrInvalidParam)
	}
	return &CommitParam{G: *g, H: *h}, nil
}

func (cp *CommitParam) Bytes() []byte {
	g, h := cp.G.Bytes(), cp.H.Bytes()
	return append(g[:], h[:]...)
}

// hashToPoint is a try-and-increment map: the counter is bumped until the
// hashed y coordinate lies on the curve, then the cofactor is cleared.
func hashToPoint(tag []byte) (*tedwards.PointAffine, error) {
	curve := tedwards.GetEdwardsCurve()
	var cofactor big.Int
	curve.Cofactor.BigInt(&cofactor)

	msg := make([]byte, len(tag)+4)
	copy(msg, tag)
	for ctr := uint32(0); ctr < 1024; ctr++ {
		binary.BigEndian.PutUint32(msg[len(tag):], ctr)
		y, err := utils.HashToField(msg, generatorDST)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParam, err)
		}

		// compressed points are little-endian
		yb := y.Bytes()
		var buf Digest
		for i := range yb {
			buf[i] = yb[len(yb)-1-i]
		}

		var p tedwards.PointAffine
		if _, err := p.SetBytes(buf[:]); err != nil || !p.IsOnCurve() {
			continue
		}
		var q tedwards.PointAffine
		q.ScalarMultiplication(&p, &cofactor)
		if q.IsZero() {
			continue
		}
		return &q, nil
	}
	return nil, fmt.Errorf("%w: hash to curve did not converge", ErrInvalidParam)
}

// Pedersen commits to a message as C = HashToField(message)·G + opening·H.
// The digest is MiMC(C.X, C.Y), a canonical BN254 scalar field element.
type Pedersen struct {
	param CommitParam
}

func NewPedersen(param *CommitParam) *Pedersen {
	return &Pedersen{param: *param}
}

func (pc *Pedersen) Param() *CommitParam {
	cp := pc.param
	return &cp
}

func (pc *Pedersen) Commit(message []byte, opening Digest) (Digest, error) {
	var out Digest

	r, err := digestToScalar(opening)
	if err != nil {
		return out, fmt.Errorf("commitment opening: %w", err)
	}
	m, err := utils.HashToField(message, commitDST)
	if err != nil {
		return out, fmt.Errorf("%w: commitment message: %v", ErrCrypto, err)
	}

	var mG, rH, c tedwards.PointAffine
	mG.ScalarMultiplication(&pc.param.G, m.BigInt(new(big.Int)))
	rH.ScalarMultiplication(&pc.param.H, r)
	c.Add(&mG, &rH)

	x, y := c.X.Bytes(), c.Y.Bytes()
	sum, err := utils.MiMCHash(x[:], y[:])
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	copy(out[:], sum)
	return out, nil
}

func (pc *Pedersen) RandomOpening(rng io.Reader) (Digest, error) {
	s, err := randomScalar(rng)
	if err != nil {
		return Digest{}, err
	}
	return scalarToDigest(s), nil
}

func (pc *Pedersen) CheckOpening(opening Digest) error {
	_, err := digestToScalar(opening)
	return err
}

func (pc *Pedersen) CheckDigest(d Digest) error {
	if !utils.IsCanonical(d[:]) {
		return fmt.Errorf("%w: commitment is not a field element", ErrNonCanonical)
	}
	return nil
}
