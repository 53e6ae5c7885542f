package types

import (
	"bytes"
	"io"
	"testing"

	"github.com/kysee/zkasset/zk-asset/crypto"
	"github.com/stretchr/testify/require"
)

func TestCodecSizes(t *testing.T) {
	require.Equal(t, 160, PubInfoSize)
	require.Equal(t, 40, PrivInfoSize)
	require.Equal(t, 272, AssetSize)
	require.Equal(t, 136, ShieldedAddressSize)
	require.Equal(t, 168, SpendingInfoSize)
	require.Equal(t, 304, FullReceiverSize)
	require.Equal(t, 224, ProcessedReceiverSize)

	a := sampleAsset(t, 1)
	require.Len(t, a.Bytes(), AssetSize)
	require.Len(t, a.Pub.Bytes(), PubInfoSize)
	require.Len(t, a.Priv.Bytes(), PrivInfoSize)

	fr := sampleReceiver(t, 1)
	require.Len(t, fr.Bytes(), FullReceiverSize)
	require.Len(t, fr.Address.Bytes(), ShieldedAddressSize)
	require.Len(t, fr.Spending.Bytes(), SpendingInfoSize)

	pr, err := fr.Address.Process(testParams(t), 42, seededRng(1))
	require.NoError(t, err)
	require.Len(t, pr.Bytes(), ProcessedReceiverSize)
}

func TestAssetLayout(t *testing.T) {
	a := sampleAsset(t, 2)
	a.AssetID = 0x0102030405060708
	bz := a.Bytes()

	require.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, bz[:8])
	require.Equal(t, a.UTXO[:], bz[8:40])
	require.Equal(t, a.VoidNumber[:], bz[40:72])
	require.Equal(t, a.Pub.PK[:], bz[72:104])
	require.Equal(t, a.Pub.Rho[:], bz[104:136])
	require.Equal(t, a.Pub.S[:], bz[136:168])
	require.Equal(t, a.Pub.R[:], bz[168:200])
	require.Equal(t, a.Pub.K[:], bz[200:232])
	require.Equal(t, []byte{10, 0, 0, 0, 0, 0, 0, 0}, bz[232:240])
	require.Equal(t, a.Priv.SecretKey[:], bz[240:272])

	var buf bytes.Buffer
	require.NoError(t, a.Encode(&buf))
	require.Equal(t, bz, buf.Bytes())
}

func TestProcessedReceiverLayout(t *testing.T) {
	fr := sampleReceiver(t, 3)
	pr, err := fr.Address.Process(testParams(t), 42, seededRng(3))
	require.NoError(t, err)
	bz := pr.Bytes()

	require.Equal(t, pr.UTXO[:], bz[:32])
	require.Equal(t, []byte{42, 0, 0, 0, 0, 0, 0, 0}, bz[32:40])
	require.Equal(t, pr.SenderPK[:], bz[40:72])
	require.Equal(t, pr.Ciphertext[:], bz[72:88])
	require.Equal(t, fr.Address.Bytes(), bz[88:])
}

func TestCodecRoundTrip(t *testing.T) {
	params := testParams(t)

	a := sampleAsset(t, 4)
	var buf bytes.Buffer
	require.NoError(t, a.Encode(&buf))
	decodedAsset, err := DecodeConfidentialAsset(&buf, params)
	require.NoError(t, err)
	require.Equal(t, a, decodedAsset)

	pub, err := PubInfoFromBytes(a.Pub.Bytes(), params)
	require.NoError(t, err)
	require.Equal(t, a.Pub, *pub)
	priv, err := PrivInfoFromBytes(a.Priv.Bytes())
	require.NoError(t, err)
	require.Equal(t, a.Priv, *priv)

	fr := sampleReceiver(t, 4)
	decodedReceiver, err := FullReceiverFromBytes(fr.Bytes(), params)
	require.NoError(t, err)
	require.Equal(t, fr, decodedReceiver)

	sa, err := ShieldedAddressFromBytes(fr.Address.Bytes(), params)
	require.NoError(t, err)
	require.Equal(t, fr.Address, *sa)
	sp, err := SpendingInfoFromBytes(fr.Spending.Bytes(), params)
	require.NoError(t, err)
	require.Equal(t, fr.Spending, *sp)

	pr, err := fr.Address.Process(params, 42, seededRng(4))
	require.NoError(t, err)
	decodedProcessed, err := ProcessedReceiverFromBytes(pr.Bytes(), params)
	require.NoError(t, err)
	require.Equal(t, pr, decodedProcessed)
}

func TestDecodeStream(t *testing.T) {
	params := testParams(t)

	var buf bytes.Buffer
	assets := []*ConfidentialAsset{sampleAsset(t, 5), sampleAsset(t, 6)}
	for _, a := range assets {
		require.NoError(t, a.Encode(&buf))
	}
	for _, a := range assets {
		decoded, err := DecodeConfidentialAsset(&buf, params)
		require.NoError(t, err)
		require.Equal(t, a, decoded)
	}
	_, err := DecodeConfidentialAsset(&buf, params)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecodeShortRead(t *testing.T) {
	params := testParams(t)
	a := sampleAsset(t, 7)
	fr := sampleReceiver(t, 7)
	pr, err := fr.Address.Process(params, 42, seededRng(7))
	require.NoError(t, err)

	decoders := map[string]struct {
		bz     []byte
		decode func([]byte) error
	}{
		"asset": {a.Bytes(), func(bz []byte) error {
			_, err := ConfidentialAssetFromBytes(bz, params)
			return err
		}},
		"pub info": {a.Pub.Bytes(), func(bz []byte) error {
			_, err := PubInfoFromBytes(bz, params)
			return err
		}},
		"priv info": {a.Priv.Bytes(), func(bz []byte) error {
			_, err := PrivInfoFromBytes(bz)
			return err
		}},
		"full receiver": {fr.Bytes(), func(bz []byte) error {
			_, err := FullReceiverFromBytes(bz, params)
			return err
		}},
		"spending info": {fr.Spending.Bytes(), func(bz []byte) error {
			_, err := SpendingInfoFromBytes(bz, params)
			return err
		}},
		"processed receiver": {pr.Bytes(), func(bz []byte) error {
			_, err := ProcessedReceiverFromBytes(bz, params)
			return err
		}},
	}

	for name, tc := range decoders {
		t.Run(name, func(t *testing.T) {
			for _, n := range []int{0, 1, 8, len(tc.bz) / 2, len(tc.bz) - 1} {
				err := tc.decode(tc.bz[:n])
				require.ErrorIs(t, err, ErrMalformed, "len %d", n)
				require.ErrorIs(t, err, io.ErrUnexpectedEOF, "len %d", n)
				require.Equal(t, KindIO, KindOf(err))
			}

			err := tc.decode(append(bytes.Clone(tc.bz), 0))
			require.ErrorIs(t, err, ErrMalformed)
			require.NotErrorIs(t, err, io.ErrUnexpectedEOF)
		})
	}
}

func TestDecodeRejectsInconsistentAsset(t *testing.T) {
	params := testParams(t)

	// byte offsets of pk, rho, void number, k and utxo in the asset layout
	for _, off := range []int{72, 104, 40, 200, 8} {
		bz := sampleAsset(t, 8).Bytes()
		bz[off+crypto.DigestSize-1] ^= 0x01

		a, err := ConfidentialAssetFromBytes(bz, params)
		require.ErrorIs(t, err, ErrSanityCheckFail, "offset %d", off)
		require.Equal(t, KindSanity, KindOf(err))
		require.Nil(t, a)
	}

	a := sampleAsset(t, 8)
	a.Priv.Value = 11
	_, err := ConfidentialAssetFromBytes(a.Bytes(), params)
	require.ErrorIs(t, err, ErrSanityCheckFail)
}

func TestDecodeRejectsInconsistentReceiver(t *testing.T) {
	params := testParams(t)

	fr := sampleReceiver(t, 9)
	flip(&fr.Spending.VoidNumber)
	_, err := FullReceiverFromBytes(fr.Bytes(), params)
	require.ErrorIs(t, err, ErrSanityCheckFail)

	// sub-structures have no sanity gate of their own
	_, err = SpendingInfoFromBytes(fr.Spending.Bytes(), params)
	require.NoError(t, err)
}

func TestDecodeRejectsOutOfDomain(t *testing.T) {
	params := testParams(t)

	var ff crypto.Digest
	for i := range ff {
		ff[i] = 0xff
	}

	assetCases := map[string]func(a *ConfidentialAsset){
		"utxo": func(a *ConfidentialAsset) { a.UTXO = ff },
		"k":    func(a *ConfidentialAsset) { a.Pub.K = ff },
		"s":    func(a *ConfidentialAsset) { a.Pub.S = ff },
		"r":    func(a *ConfidentialAsset) { a.Pub.R = ff },
	}
	for name, mutate := range assetCases {
		t.Run("asset "+name, func(t *testing.T) {
			a := sampleAsset(t, 10)
			mutate(a)
			_, err := ConfidentialAssetFromBytes(a.Bytes(), params)
			require.ErrorIs(t, err, ErrMalformed)
			require.NotErrorIs(t, err, ErrCrypto)
			require.Equal(t, KindIO, KindOf(err))
		})
	}

	receiverCases := map[string]func(fr *FullReceiver){
		"encryption public key": func(fr *FullReceiver) { fr.Address.EncPK = crypto.Digest{} },
		"encryption secret key": func(fr *FullReceiver) { fr.Spending.EncSK = ff },
		"zero secret key":       func(fr *FullReceiver) { fr.Spending.EncSK = crypto.Digest{} },
		"k":                     func(fr *FullReceiver) { fr.Address.K = ff },
	}
	for name, mutate := range receiverCases {
		t.Run("receiver "+name, func(t *testing.T) {
			fr := sampleReceiver(t, 10)
			mutate(fr)
			_, err := FullReceiverFromBytes(fr.Bytes(), params)
			require.ErrorIs(t, err, ErrMalformed)
			require.Equal(t, KindIO, KindOf(err))
		})
	}

	fr := sampleReceiver(t, 11)
	pr, err := fr.Address.Process(params, 1, seededRng(11))
	require.NoError(t, err)
	pr.SenderPK = crypto.Digest{}
	_, err = ProcessedReceiverFromBytes(pr.Bytes(), params)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeRequiresParams(t *testing.T) {
	a := sampleAsset(t, 12)
	_, err := ConfidentialAssetFromBytes(a.Bytes(), nil)
	require.ErrorIs(t, err, crypto.ErrInvalidParam)
	require.Equal(t, KindCrypto, KindOf(err))
}
