package crypto

import (
	"fmt"
	"hash"

	"github.com/consensys/gnark-crypto/accumulator/merkletree"
	gnark_hash "github.com/consensys/gnark-crypto/hash"
	"github.com/kysee/zkasset/utils"
)

const HashParamSize = 1

// HashParam selects the two-to-one hash of the merkle tree.
// Only MiMC over the BN254 scalar field is supported.
type HashParam struct {
	ID gnark_hash.Hash
}

func DefaultHashParam() HashParam {
	return HashParam{ID: utils.DefaultHashID}
}

func ParseHashParam(bz []byte) (HashParam, error) {
	if len(bz) != HashParamSize {
		return HashParam{}, fmt.Errorf("%w: hash param must be %d byte, got %d", ErrInvalidParam, HashParamSize, len(bz))
	}
	hp := HashParam{ID: gnark_hash.Hash(bz[0])}
	if hp.ID != utils.DefaultHashID {
		return HashParam{}, fmt.Errorf("%w: unsupported merkle hash %d", ErrInvalidParam, bz[0])
	}
	return hp, nil
}

func (hp HashParam) Bytes() []byte {
	return []byte{byte(hp.ID)}
}

// NewHasher returns a hasher that takes every 32-byte block as two 128-bit
// limbs, so any digest is a valid leaf and no two leaves hash alike.
func (hp HashParam) NewHasher() hash.Hash {
	return utils.NewLimbHasher(hp.ID.New())
}

// MembershipProof proves that Path[0] is the leaf at Index of a tree with NumLeaves leaves.
type MembershipProof struct {
	Index     uint64
	NumLeaves uint64
	Path      [][]byte
}

func (mp *MembershipProof) Leaf() Digest {
	var d Digest
	if mp != nil && len(mp.Path) > 0 {
		copy(d[:], mp.Path[0])
	}
	return d
}

// MiMCMerkle builds binary merkle trees where leaf = H(leaf) and node = H(left, right).
// The root of an empty tree is the zero digest.
type MiMCMerkle struct {
	param HashParam
}

func NewMerkleTree(hp HashParam) (*MiMCMerkle, error) {
	if hp.ID != utils.DefaultHashID {
		return nil, fmt.Errorf("%w: unsupported merkle hash %d", ErrInvalidParam, hp.ID)
	}
	return &MiMCMerkle{param: hp}, nil
}

func (mt *MiMCMerkle) Param() HashParam {
	return mt.param
}

func (mt *MiMCMerkle) Root(leaves []Digest) (Digest, error) {
	var root Digest
	if len(leaves) == 0 {
		return root, nil
	}
	tree := merkletree.New(mt.param.NewHasher())
	for i := range leaves {
		tree.Push(leaves[i][:])
	}
	copy(root[:], tree.Root())
	return root, nil
}

func (mt *MiMCMerkle) Prove(leaves []Digest, index uint64) (*MembershipProof, error) {
	if index >= uint64(len(leaves)) {
		return nil, fmt.Errorf("%w: leaf index %d out of range [0, %d)", ErrInvalidParam, index, len(leaves))
	}
	tree := merkletree.New(mt.param.NewHasher())
	if err := tree.SetIndex(index); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	for i := range leaves {
		tree.Push(leaves[i][:])
	}
	_, path, proofIndex, numLeaves := tree.Prove()

	mp := &MembershipProof{
		Index:     proofIndex,
		NumLeaves: numLeaves,
		Path:      make([][]byte, len(path)),
	}
	for i, p := range path {
		mp.Path[i] = append([]byte(nil), p...)
	}
	return mp, nil
}

func (mt *MiMCMerkle) Verify(root Digest, proof *MembershipProof) bool {
	if proof == nil || len(proof.Path) == 0 {
		return false
	}
	for _, p := range proof.Path {
		if len(p) != DigestSize {
			return false
		}
	}
	return merkletree.VerifyProof(mt.param.NewHasher(), root[:], proof.Path, proof.Index, proof.NumLeaves)
}
