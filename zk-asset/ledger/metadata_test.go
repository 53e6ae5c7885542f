package ledger

import (
	"math/rand/v2"
	"testing"

	"github.com/kysee/zkasset/zk-asset/crypto"
	"github.com/kysee/zkasset/zk-asset/types"
	"github.com/stretchr/testify/require"
)

func TestScenario(t *testing.T) {
	params := testParams(t)

	// secret key of zeros, asset 0, value 10 and a fixed seed
	a, err := types.SampleAsset(params, crypto.Digest{}, types.TestAsset, 10, rand.NewChaCha8([32]byte{42}))
	require.NoError(t, err)

	decoded, err := types.ConfidentialAssetFromBytes(a.Bytes(), params)
	require.NoError(t, err)
	require.Equal(t, a, decoded)

	ok, err := a.Sanity(params)
	require.NoError(t, err)
	require.True(t, ok)

	l := New()
	require.NoError(t, l.Update(a.UTXO, params))
	require.True(t, l.Exist(a.UTXO))

	root, err := params.Merkle.Root([]crypto.Digest{a.UTXO})
	require.NoError(t, err)
	require.True(t, l.CheckRoot(root))

	md, err := l.BuildMetadata(a, params)
	require.NoError(t, err)
	require.Equal(t, root, md.Root)
	require.True(t, md.Verify(params))

	sd := md.SenderData()
	require.Equal(t, a.Pub.K, sd.K)
	require.Equal(t, a.VoidNumber, sd.VoidNumber)
	require.Equal(t, root, sd.Root)
}

func TestBuildMetadata(t *testing.T) {
	params := testParams(t)
	rng := rand.NewChaCha8([32]byte{9})

	var assets []*types.ConfidentialAsset
	var leaves []crypto.Digest
	for i := 0; i < 6; i++ {
		a, err := types.SampleAsset(params, crypto.Digest{}, types.TestAsset, uint64(i), rng)
		require.NoError(t, err)
		assets = append(assets, a)
		leaves = append(leaves, a.UTXO)
	}

	root, err := params.Merkle.Root(leaves)
	require.NoError(t, err)

	for i, a := range assets {
		md, err := BuildMetadata(a, params, leaves)
		require.NoError(t, err)
		require.Equal(t, root, md.Root)
		require.Equal(t, uint64(i), md.Membership.Index)
		require.True(t, md.Verify(params))

		// the proof does not open another asset
		other := *md
		other.Asset = assets[(i+1)%len(assets)]
		require.False(t, other.Verify(params))

		wrongRoot := *md
		wrongRoot.Root[31] ^= 0x01
		require.False(t, wrongRoot.Verify(params))
	}
}

func TestBuildMetadataLeavesNotFound(t *testing.T) {
	params := testParams(t)
	rng := rand.NewChaCha8([32]byte{10})

	a, err := types.SampleAsset(params, crypto.Digest{}, types.TestAsset, 1, rng)
	require.NoError(t, err)
	b, err := types.SampleAsset(params, crypto.Digest{}, types.TestAsset, 2, rng)
	require.NoError(t, err)

	_, err = BuildMetadata(a, params, []crypto.Digest{b.UTXO})
	require.ErrorIs(t, err, types.ErrLeavesNotFound)
	require.Equal(t, types.KindLeavesNotFound, types.KindOf(err))

	_, err = BuildMetadata(a, params, nil)
	require.ErrorIs(t, err, types.ErrLeavesNotFound)

	l := New()
	require.NoError(t, l.Update(b.UTXO, params))
	_, err = l.BuildMetadata(a, params)
	require.ErrorIs(t, err, types.ErrLeavesNotFound)
}
