package types

import (
	"io"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/kysee/zkasset/zk-asset/crypto"
	"github.com/stretchr/testify/require"
)

var (
	paramsOnce    sync.Once
	defaultParams *crypto.Params
	paramsErr     error
)

func testParams(t testing.TB) *crypto.Params {
	paramsOnce.Do(func() {
		defaultParams, paramsErr = crypto.DefaultParams()
	})
	require.NoError(t, paramsErr)
	return defaultParams
}

func seededRng(seed byte) io.Reader {
	return rand.NewChaCha8([32]byte{seed})
}

func onesKey() crypto.Digest {
	var sk crypto.Digest
	for i := range sk {
		sk[i] = 0x01
	}
	return sk
}

func sampleAsset(t testing.TB, seed byte) *ConfidentialAsset {
	a, err := SampleAsset(testParams(t), crypto.Digest{}, TestAsset, 10, seededRng(seed))
	require.NoError(t, err)
	return a
}

func sampleReceiver(t testing.TB, seed byte) *FullReceiver {
	fr, err := SampleReceiver(testParams(t), onesKey(), 7, seededRng(seed))
	require.NoError(t, err)
	return fr
}

// flip changes the least significant bit of a big-endian digest,
// which keeps canonical scalars and field elements canonical.
func flip(d *crypto.Digest) {
	d[crypto.DigestSize-1] ^= 0x01
}
