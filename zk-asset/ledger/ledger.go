// Package ledger keeps the set of coin commitments in 256 shards, each one
// with the merkle root of its full list of commitments.
package ledger

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/kysee/zkasset/zk-asset/crypto"
	"github.com/kysee/zkasset/zk-asset/types"
	"github.com/rs/zerolog"
)

const NumShards = 256

var logger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("module", "zk-asset/ledger").Logger()
}

// Shard is an append-only list of commitments and the merkle root over it.
type Shard struct {
	Leaves []crypto.Digest
	Root   crypto.Digest
}

func (s *Shard) clone() Shard {
	return Shard{
		Leaves: slices.Clone(s.Leaves),
		Root:   s.Root,
	}
}

// ShardedLedger is not safe for concurrent use. Writers must be serialized by the caller.
type ShardedLedger struct {
	shards [NumShards]Shard
}

// New returns a ledger of empty shards. The root of an empty shard is the zero digest.
func New() *ShardedLedger {
	return &ShardedLedger{}
}

// ShardIndex routes a commitment to the shard named by its first byte.
//
// Commitment digests are field elements, so their first byte is bounded by the
// top byte of the field modulus and the upper shards stay empty. A uniformly
// derived index would spread the load but changes every stored shard.
func ShardIndex(cm crypto.Digest) uint8 {
	return cm[0]
}

// CheckRoot reports whether root is the current root of any shard.
func (l *ShardedLedger) CheckRoot(root crypto.Digest) bool {
	for i := range l.shards {
		if l.shards[i].Root == root {
			return true
		}
	}
	return false
}

// Exist reports whether cm has been appended to its shard.
func (l *ShardedLedger) Exist(cm crypto.Digest) bool {
	return slices.Contains(l.shards[ShardIndex(cm)].Leaves, cm)
}

// Update appends cm to its shard and recomputes the root over the whole shard.
// Duplicates are not rejected. On error the shard is left unchanged.
//
// The rebuild costs O(len(shard)) per insertion; an incremental tree would
// bring it down to O(log n).
func (l *ShardedLedger) Update(cm crypto.Digest, params *crypto.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}

	idx := ShardIndex(cm)
	shard := &l.shards[idx]

	leaves := append(slices.Clip(shard.Leaves), cm)
	root, err := params.Merkle.Root(leaves)
	if err != nil {
		return fmt.Errorf("shard %d root: %w", idx, err)
	}
	shard.Leaves = leaves
	shard.Root = root

	logger.Debug().Uint8("shard", idx).Int("size", len(leaves)).Str("root", root.String()).Msg("ledger update")
	return nil
}

// Shard returns a copy of the i-th shard.
func (l *ShardedLedger) Shard(i uint8) Shard {
	return l.shards[i].clone()
}

func (l *ShardedLedger) Root(i uint8) crypto.Digest {
	return l.shards[i].Root
}

// Len returns the number of commitments over all shards.
func (l *ShardedLedger) Len() int {
	n := 0
	for i := range l.shards {
		n += len(l.shards[i].Leaves)
	}
	return n
}

// VerifyRoots checks that every leaf sits in the shard it routes to and
// recomputes every shard root, typically after DecodeLedger.
func (l *ShardedLedger) VerifyRoots(params *crypto.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	for i := range l.shards {
		for j, cm := range l.shards[i].Leaves {
			if int(ShardIndex(cm)) != i {
				return fmt.Errorf("%w: shard %d leaf %d routes to shard %d", types.ErrSanityCheckFail, i, j, ShardIndex(cm))
			}
		}
		root, err := params.Merkle.Root(l.shards[i].Leaves)
		if err != nil {
			return fmt.Errorf("shard %d root: %w", i, err)
		}
		if root != l.shards[i].Root {
			return fmt.Errorf("%w: shard %d root mismatch", types.ErrSanityCheckFail, i)
		}
	}
	return nil
}

//
// state encoding

type rlpShard struct {
	Leaves []crypto.Digest
	Root   crypto.Digest
}

// EncodeRLP implements rlp.Encoder. The ledger is a list of NumShards shards.
func (l *ShardedLedger) EncodeRLP(w io.Writer) error {
	shards := make([]rlpShard, NumShards)
	for i := range l.shards {
		shards[i] = rlpShard{Leaves: l.shards[i].Leaves, Root: l.shards[i].Root}
	}
	return rlp.Encode(w, shards)
}

// DecodeRLP implements rlp.Decoder. Stored roots are not recomputed.
func (l *ShardedLedger) DecodeRLP(s *rlp.Stream) error {
	var shards []rlpShard
	if err := s.Decode(&shards); err != nil {
		return err
	}
	if len(shards) != NumShards {
		return fmt.Errorf("expected %d shards, got %d", NumShards, len(shards))
	}
	for i := range shards {
		l.shards[i] = Shard{Root: shards[i].Root}
		if len(shards[i].Leaves) > 0 {
			l.shards[i].Leaves = shards[i].Leaves
		}
	}
	return nil
}

func (l *ShardedLedger) Bytes() []byte {
	var buf bytes.Buffer
	if err := l.EncodeRLP(&buf); err != nil {
		panic(fmt.Sprintf("failed to RLP encode ledger: %v", err))
	}
	return buf.Bytes()
}

func (l *ShardedLedger) Encode(w io.Writer) error {
	return l.EncodeRLP(w)
}

// DecodeLedger restores a ledger written by Encode. Callers that do not trust
// the storage should call VerifyRoots before serving membership queries.
func DecodeLedger(bz []byte) (*ShardedLedger, error) {
	l := New()
	if err := rlp.DecodeBytes(bz, l); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrMalformed, err)
	}
	return l, nil
}
