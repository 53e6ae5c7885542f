package types

import (
	"encoding/binary"
	"testing"

	"github.com/kysee/zkasset/zk-asset/crypto"
	"github.com/stretchr/testify/require"
)

func TestReceiverFlow(t *testing.T) {
	params := testParams(t)

	fr, err := SampleReceiver(params, onesKey(), 7, seededRng(1))
	require.NoError(t, err)
	require.Equal(t, AssetID(7), fr.Address.AssetID)
	require.Equal(t, AssetID(7), fr.Spending.AssetID)
	require.Equal(t, onesKey(), fr.Spending.SecretKey)

	ok, err := fr.Sanity(params)
	require.NoError(t, err)
	require.True(t, ok)

	pr, err := fr.Address.Process(params, 42, seededRng(2))
	require.NoError(t, err)
	require.Equal(t, uint64(42), pr.Value)
	require.Equal(t, fr.Address, pr.Address)

	// utxo = Commit(value_le || k; s)
	msg := binary.LittleEndian.AppendUint64(nil, 42)
	msg = append(msg, fr.Address.K[:]...)
	utxo, err := params.Commit.Commit(msg, fr.Address.S)
	require.NoError(t, err)
	require.Equal(t, utxo, pr.UTXO)

	ct := pr.EncryptedValue()
	require.Equal(t, pr.Ciphertext[:], ct[:CipherSize])
	require.Equal(t, pr.SenderPK[:], ct[CipherSize:])
	value, err := params.Ecies.Decrypt(fr.Spending.EncSK, ct)
	require.NoError(t, err)
	require.Equal(t, uint64(42), value)

	value, err = fr.Open(params, pr)
	require.NoError(t, err)
	require.Equal(t, uint64(42), value)
}

func TestProcessOmitsAssetID(t *testing.T) {
	params := testParams(t)
	fr := sampleReceiver(t, 3)

	other := fr.Address
	other.AssetID = 8

	pr0, err := fr.Address.Process(params, 42, seededRng(4))
	require.NoError(t, err)
	pr1, err := other.Process(params, 42, seededRng(4))
	require.NoError(t, err)
	require.Equal(t, pr0.UTXO, pr1.UTXO)
}

func TestOpenRejects(t *testing.T) {
	params := testParams(t)
	fr := sampleReceiver(t, 5)
	pr, err := fr.Address.Process(params, 42, seededRng(5))
	require.NoError(t, err)

	tampered := *pr
	tampered.Value = 43
	_, err = fr.Open(params, &tampered)
	require.ErrorIs(t, err, ErrSanityCheckFail)

	tampered = *pr
	flip(&tampered.UTXO)
	_, err = fr.Open(params, &tampered)
	require.ErrorIs(t, err, ErrSanityCheckFail)

	tampered = *pr
	tampered.Ciphertext[0] ^= 0x01
	_, err = fr.Open(params, &tampered)
	require.ErrorIs(t, err, crypto.ErrDecrypt)
	require.Equal(t, KindCrypto, KindOf(err))

	other := sampleReceiver(t, 6)
	_, err = other.Open(params, pr)
	require.ErrorIs(t, err, ErrSanityCheckFail)
}

func TestProcessFailures(t *testing.T) {
	params := testParams(t)
	fr := sampleReceiver(t, 7)

	sa := fr.Address
	sa.EncPK = crypto.Digest{}
	pr, err := sa.Process(params, 1, seededRng(7))
	require.ErrorIs(t, err, ErrCrypto)
	require.Nil(t, pr)

	sa = fr.Address
	for i := range sa.S {
		sa.S[i] = 0xff
	}
	pr, err = sa.Process(params, 1, seededRng(7))
	require.ErrorIs(t, err, crypto.ErrNonCanonical)
	require.Nil(t, pr)
}
