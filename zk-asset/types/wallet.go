package types

import (
	"fmt"
	"io"

	"github.com/holiman/uint256"
	"github.com/kysee/zkasset/zk-asset/crypto"
)

// ReceivedNote is a payment confirmed by Wallet.Scan.
type ReceivedNote struct {
	AssetID AssetID
	Value   uint64
	UTXO    crypto.Digest
	// Receiver holds the spending info needed to spend the note later.
	Receiver *FullReceiver
}

// Wallet keeps the prepared receivers of one secret key and the notes paid to them.
// It is not safe for concurrent use.
type Wallet struct {
	secretKey crypto.Digest
	receivers map[crypto.Digest]*FullReceiver // by k
	notes     []*ReceivedNote
}

func NewWallet(sk crypto.Digest) *Wallet {
	return &Wallet{
		secretKey: sk,
		receivers: make(map[crypto.Digest]*FullReceiver),
	}
}

func (w *Wallet) SecretKey() crypto.Digest {
	return w.secretKey
}

// NewReceiver prepares a receiver for assetID and keeps its spending info.
// Only the returned ShieldedAddress should leave the wallet.
func (w *Wallet) NewReceiver(params *crypto.Params, assetID AssetID, rng io.Reader) (*ShieldedAddress, error) {
	fr, err := SampleReceiver(params, w.secretKey, assetID, rng)
	if err != nil {
		return nil, err
	}
	w.receivers[fr.Address.K] = fr
	sa := fr.Address
	return &sa, nil
}

// AddReceiver imports a receiver prepared elsewhere with the wallet's secret key.
func (w *Wallet) AddReceiver(params *crypto.Params, fr *FullReceiver) error {
	if fr.Spending.SecretKey != w.secretKey {
		return fmt.Errorf("%w: receiver belongs to another secret key", ErrSanityCheckFail)
	}
	ok, err := fr.Sanity(params)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: full receiver", ErrSanityCheckFail)
	}
	w.receivers[fr.Address.K] = fr
	return nil
}

func (w *Wallet) GetReceiversCount() int {
	return len(w.receivers)
}

// Scan opens every processed receiver addressed to this wallet and returns
// the number of new notes. Entries that fail to open are logged and skipped.
func (w *Wallet) Scan(params *crypto.Params, prs []*ProcessedReceiver) int {
	found := 0
	for _, pr := range prs {
		if pr == nil {
			continue
		}
		fr, ok := w.receivers[pr.Address.K]
		if !ok {
			continue
		}
		if w.hasNote(pr.UTXO) {
			logger.Debug().Str("utxo", pr.UTXO.String()).Msg("note already received")
			continue
		}

		value, err := fr.Open(params, pr)
		if err != nil {
			logger.Warn().Err(err).Str("utxo", pr.UTXO.String()).Str("kind", KindOf(err).String()).Msg("skip processed receiver")
			continue
		}
		w.notes = append(w.notes, &ReceivedNote{
			AssetID:  fr.Address.AssetID,
			Value:    value,
			UTXO:     pr.UTXO,
			Receiver: fr,
		})
		found++
	}
	logger.Debug().Int("scanned", len(prs)).Int("found", found).Msg("wallet scan")
	return found
}

func (w *Wallet) hasNote(utxo crypto.Digest) bool {
	for _, n := range w.notes {
		if n.UTXO == utxo {
			return true
		}
	}
	return false
}

func (w *Wallet) GetNote(idx int) *ReceivedNote {
	if idx < len(w.notes) {
		return w.notes[idx]
	}
	return nil
}

func (w *Wallet) GetNotesCount() int {
	return len(w.notes)
}

// Balance sums the received values of assetID.
func (w *Wallet) Balance(assetID AssetID) *uint256.Int {
	ret := uint256.NewInt(0)
	for _, n := range w.notes {
		if n.AssetID == assetID {
			ret = ret.Add(ret, uint256.NewInt(n.Value))
		}
	}
	return ret
}
