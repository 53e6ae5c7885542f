package ledger

import (
	"fmt"
	"slices"

	"github.com/kysee/zkasset/zk-asset/crypto"
	"github.com/kysee/zkasset/zk-asset/types"
)

// SenderMetaData is what a spender needs besides its coin:
// the root of the leaves the coin is in and the coin's membership proof.
type SenderMetaData struct {
	Asset      *types.ConfidentialAsset
	Root       crypto.Digest
	Membership *crypto.MembershipProof
}

// BuildMetadata proves that asset.UTXO is one of leaves.
// The proof refers to its first occurrence.
func BuildMetadata(asset *types.ConfidentialAsset, params *crypto.Params, leaves []crypto.Digest) (*SenderMetaData, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	index := slices.Index(leaves, asset.UTXO)
	if index < 0 {
		return nil, fmt.Errorf("%w: utxo %s", types.ErrLeavesNotFound, asset.UTXO)
	}

	root, err := params.Merkle.Root(leaves)
	if err != nil {
		return nil, err
	}
	membership, err := params.Merkle.Prove(leaves, uint64(index))
	if err != nil {
		return nil, err
	}
	return &SenderMetaData{
		Asset:      asset,
		Root:       root,
		Membership: membership,
	}, nil
}

// BuildMetadata builds the metadata of asset against its shard.
func (l *ShardedLedger) BuildMetadata(asset *types.ConfidentialAsset, params *crypto.Params) (*SenderMetaData, error) {
	idx := ShardIndex(asset.UTXO)
	md, err := BuildMetadata(asset, params, l.shards[idx].Leaves)
	if err != nil {
		return nil, fmt.Errorf("shard %d: %w", idx, err)
	}
	return md, nil
}

// Verify checks that the membership proof is for the asset's utxo under Root.
func (m *SenderMetaData) Verify(params *crypto.Params) bool {
	if params.Validate() != nil || m.Asset == nil || m.Membership == nil {
		return false
	}
	if m.Membership.Leaf() != m.Asset.UTXO {
		return false
	}
	return params.Merkle.Verify(m.Root, m.Membership)
}

// SenderData returns the spend record of a private transfer.
func (m *SenderMetaData) SenderData() *types.SenderData {
	return &types.SenderData{
		K:          m.Asset.Pub.K,
		VoidNumber: m.Asset.VoidNumber,
		Root:       m.Root,
	}
}
