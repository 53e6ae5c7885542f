package types

import (
	"encoding/binary"
	"io"

	"github.com/kysee/zkasset/zk-asset/crypto"
)

// Sizes of the transaction payload records.
const (
	MintDataSize     = 16 + 3*crypto.DigestSize
	SenderDataSize   = 3 * crypto.DigestSize
	ReceiverDataSize = 3*crypto.DigestSize + CipherSize

	PrivateTransferDataSize = 2*SenderDataSize + 2*ReceiverDataSize + ProofSize
	ReclaimDataSize         = 16 + 2*SenderDataSize + ReceiverDataSize + ProofSize

	// ProofSize is a serialized Groth16 proof over BN254, carried as opaque bytes.
	ProofSize = 192
)

// MintData publishes a self-minted coin together with the openings that let
// anyone check its amount.
type MintData struct {
	AssetID AssetID
	Amount  uint64
	CM      crypto.Digest
	K       crypto.Digest
	S       crypto.Digest
}

func NewMintData(a *ConfidentialAsset) *MintData {
	return &MintData{
		AssetID: a.AssetID,
		Amount:  a.Priv.Value,
		CM:      a.UTXO,
		K:       a.Pub.K,
		S:       a.Pub.S,
	}
}

// Check recomputes cm from the published amount and openings.
func (m *MintData) Check(params *crypto.Params) (bool, error) {
	if err := params.Validate(); err != nil {
		return false, err
	}
	cm, err := params.Commit.Commit(assetMessage(m.AssetID, m.Amount, m.K), m.S)
	if err != nil {
		return false, err
	}
	return cm == m.CM, nil
}

func (m *MintData) Bytes() []byte {
	bz := make([]byte, 0, MintDataSize)
	bz = binary.LittleEndian.AppendUint64(bz, uint64(m.AssetID))
	bz = binary.LittleEndian.AppendUint64(bz, m.Amount)
	return appendDigests(bz, m.CM, m.K, m.S)
}

func (m *MintData) Encode(w io.Writer) error {
	return writeAll(w, m.Bytes())
}

func DecodeMintData(r io.Reader) (*MintData, error) {
	d := &decoder{r: r}
	m := &MintData{
		AssetID: d.assetID(),
		Amount:  d.uint64(),
		CM:      d.digest(),
		K:       d.digest(),
		S:       d.digest(),
	}
	if d.err != nil {
		return nil, d.err
	}
	return m, nil
}

func MintDataFromBytes(bz []byte) (*MintData, error) {
	return fromBytes(bz, DecodeMintData)
}

// SenderData is the spend side of a private transfer.
type SenderData struct {
	K          crypto.Digest
	VoidNumber crypto.Digest
	Root       crypto.Digest
}

func (sd *SenderData) Bytes() []byte {
	return appendDigests(make([]byte, 0, SenderDataSize), sd.K, sd.VoidNumber, sd.Root)
}

func (sd *SenderData) Encode(w io.Writer) error {
	return writeAll(w, sd.Bytes())
}

func (d *decoder) senderData() SenderData {
	return SenderData{
		K:          d.digest(),
		VoidNumber: d.digest(),
		Root:       d.digest(),
	}
}

func DecodeSenderData(r io.Reader) (*SenderData, error) {
	d := &decoder{r: r}
	sd := d.senderData()
	if d.err != nil {
		return nil, d.err
	}
	return &sd, nil
}

func SenderDataFromBytes(bz []byte) (*SenderData, error) {
	return fromBytes(bz, DecodeSenderData)
}

// ReceiverData is the output side of a private transfer.
type ReceiverData struct {
	K        crypto.Digest
	CM       crypto.Digest
	SenderPK crypto.Digest
	Cipher   [CipherSize]byte
}

func (pr *ProcessedReceiver) ReceiverData() *ReceiverData {
	return &ReceiverData{
		K:        pr.Address.K,
		CM:       pr.UTXO,
		SenderPK: pr.SenderPK,
		Cipher:   pr.Ciphertext,
	}
}

func (rd *ReceiverData) Bytes() []byte {
	bz := appendDigests(make([]byte, 0, ReceiverDataSize), rd.K, rd.CM, rd.SenderPK)
	return append(bz, rd.Cipher[:]...)
}

func (rd *ReceiverData) Encode(w io.Writer) error {
	return writeAll(w, rd.Bytes())
}

func (d *decoder) receiverData() ReceiverData {
	rd := ReceiverData{
		K:        d.digest(),
		CM:       d.digest(),
		SenderPK: d.digest(),
	}
	d.read(rd.Cipher[:])
	return rd
}

func DecodeReceiverData(r io.Reader) (*ReceiverData, error) {
	d := &decoder{r: r}
	rd := d.receiverData()
	if d.err != nil {
		return nil, d.err
	}
	return &rd, nil
}

func ReceiverDataFromBytes(bz []byte) (*ReceiverData, error) {
	return fromBytes(bz, DecodeReceiverData)
}

// PrivateTransferData spends two coins into two new ones. The proof is
// produced and checked outside this package.
type PrivateTransferData struct {
	Sender1   SenderData
	Sender2   SenderData
	Receiver1 ReceiverData
	Receiver2 ReceiverData
	Proof     [ProofSize]byte
}

func (pt *PrivateTransferData) Bytes() []byte {
	bz := make([]byte, 0, PrivateTransferDataSize)
	bz = append(bz, pt.Sender1.Bytes()...)
	bz = append(bz, pt.Sender2.Bytes()...)
	bz = append(bz, pt.Receiver1.Bytes()...)
	bz = append(bz, pt.Receiver2.Bytes()...)
	return append(bz, pt.Proof[:]...)
}

func (pt *PrivateTransferData) Encode(w io.Writer) error {
	return writeAll(w, pt.Bytes())
}

func DecodePrivateTransferData(r io.Reader) (*PrivateTransferData, error) {
	d := &decoder{r: r}
	pt := &PrivateTransferData{
		Sender1:   d.senderData(),
		Sender2:   d.senderData(),
		Receiver1: d.receiverData(),
		Receiver2: d.receiverData(),
	}
	d.read(pt.Proof[:])
	if d.err != nil {
		return nil, d.err
	}
	return pt, nil
}

func PrivateTransferDataFromBytes(bz []byte) (*PrivateTransferData, error) {
	return fromBytes(bz, DecodePrivateTransferData)
}

// ReclaimData spends two coins, returns Amount to the public balance and
// keeps the change in a single new coin.
type ReclaimData struct {
	AssetID  AssetID
	Amount   uint64
	Sender1  SenderData
	Sender2  SenderData
	Receiver ReceiverData
	Proof    [ProofSize]byte
}

func (rc *ReclaimData) Bytes() []byte {
	bz := make([]byte, 0, ReclaimDataSize)
	bz = binary.LittleEndian.AppendUint64(bz, uint64(rc.AssetID))
	bz = binary.LittleEndian.AppendUint64(bz, rc.Amount)
	bz = append(bz, rc.Sender1.Bytes()...)
	bz = append(bz, rc.Sender2.Bytes()...)
	bz = append(bz, rc.Receiver.Bytes()...)
	return append(bz, rc.Proof[:]...)
}

func (rc *ReclaimData) Encode(w io.Writer) error {
	return writeAll(w, rc.Bytes())
}

func DecodeReclaimData(r io.Reader) (*ReclaimData, error) {
	d := &decoder{r: r}
	rc := &ReclaimData{
		AssetID:  d.assetID(),
		Amount:   d.uint64(),
		Sender1:  d.senderData(),
		Sender2:  d.senderData(),
		Receiver: d.receiverData(),
	}
	d.read(rc.Proof[:])
	if d.err != nil {
		return nil, d.err
	}
	return rc, nil
}

func ReclaimDataFromBytes(bz []byte) (*ReclaimData, error) {
	return fromBytes(bz, DecodeReclaimData)
}
