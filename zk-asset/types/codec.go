package types

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/kysee/zkasset/zk-asset/crypto"
)

// Canonical sizes of the fixed little-endian layouts.
const (
	PubInfoSize           = 5 * crypto.DigestSize
	PrivInfoSize          = 8 + crypto.DigestSize
	AssetSize             = 8 + 2*crypto.DigestSize + PubInfoSize + PrivInfoSize
	ShieldedAddressSize   = 8 + 4*crypto.DigestSize
	SpendingInfoSize      = 8 + 5*crypto.DigestSize
	FullReceiverSize      = ShieldedAddressSize + SpendingInfoSize
	ProcessedReceiverSize = crypto.DigestSize + 8 + crypto.DigestSize + CipherSize + ShieldedAddressSize
)

//
// field readers

// decoder reads fixed-width fields and keeps the first error.
type decoder struct {
	r   io.Reader
	err error
}

func (d *decoder) read(buf []byte) {
	if d.err != nil {
		return
	}
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		d.err = fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}

func (d *decoder) digest() crypto.Digest {
	var v crypto.Digest
	d.read(v[:])
	return v
}

func (d *decoder) uint64() uint64 {
	var buf [8]byte
	d.read(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

func (d *decoder) assetID() AssetID {
	return AssetID(d.uint64())
}

func appendDigests(dst []byte, ds ...crypto.Digest) []byte {
	for i := range ds {
		dst = append(dst, ds[i][:]...)
	}
	return dst
}

func writeAll(w io.Writer, bz []byte) error {
	if _, err := w.Write(bz); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

// fromBytes decodes a whole buffer and rejects trailing bytes.
func fromBytes[T any](bz []byte, decode func(io.Reader) (*T, error)) (*T, error) {
	r := bytes.NewReader(bz)
	v, err := decode(r)
	if err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, r.Len())
	}
	return v, nil
}

//
// domain checks

func checkField(name string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}
	return nil
}

func (p *PubInfo) validate(params *crypto.Params) error {
	return errors.Join(
		checkField("s", params.Commit.CheckOpening(p.S)),
		checkField("r", params.Commit.CheckOpening(p.R)),
		checkField("k", params.Commit.CheckDigest(p.K)),
	)
}

func (sa *ShieldedAddress) validate(params *crypto.Params) error {
	return errors.Join(
		checkField("k", params.Commit.CheckDigest(sa.K)),
		checkField("s", params.Commit.CheckOpening(sa.S)),
		checkField("r", params.Commit.CheckOpening(sa.R)),
		checkField("encryption public key", params.Ecies.CheckPublicKey(sa.EncPK)),
	)
}

func (sp *SpendingInfo) validate(params *crypto.Params) error {
	return checkField("encryption secret key", params.Ecies.CheckSecretKey(sp.EncSK))
}

//
// PubInfo

func (p *PubInfo) appendTo(dst []byte) []byte {
	return appendDigests(dst, p.PK, p.Rho, p.S, p.R, p.K)
}

func (p *PubInfo) Bytes() []byte {
	return p.appendTo(make([]byte, 0, PubInfoSize))
}

func (p *PubInfo) Encode(w io.Writer) error {
	return writeAll(w, p.Bytes())
}

func (d *decoder) pubInfo() PubInfo {
	return PubInfo{
		PK:  d.digest(),
		Rho: d.digest(),
		S:   d.digest(),
		R:   d.digest(),
		K:   d.digest(),
	}
}

func DecodePubInfo(r io.Reader, params *crypto.Params) (*PubInfo, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	d := &decoder{r: r}
	p := d.pubInfo()
	if d.err != nil {
		return nil, d.err
	}
	if err := p.validate(params); err != nil {
		return nil, err
	}
	return &p, nil
}

func PubInfoFromBytes(bz []byte, params *crypto.Params) (*PubInfo, error) {
	return fromBytes(bz, func(r io.Reader) (*PubInfo, error) {
		return DecodePubInfo(r, params)
	})
}

//
// PrivInfo

func (p *PrivInfo) appendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, p.Value)
	return appendDigests(dst, p.SecretKey)
}

func (p *PrivInfo) Bytes() []byte {
	return p.appendTo(make([]byte, 0, PrivInfoSize))
}

func (p *PrivInfo) Encode(w io.Writer) error {
	return writeAll(w, p.Bytes())
}

func (d *decoder) privInfo() PrivInfo {
	return PrivInfo{
		Value:     d.uint64(),
		SecretKey: d.digest(),
	}
}

// DecodePrivInfo needs no params: the value and the PRF key have no restricted domain.
func DecodePrivInfo(r io.Reader) (*PrivInfo, error) {
	d := &decoder{r: r}
	p := d.privInfo()
	if d.err != nil {
		return nil, d.err
	}
	return &p, nil
}

func PrivInfoFromBytes(bz []byte) (*PrivInfo, error) {
	return fromBytes(bz, DecodePrivInfo)
}

//
// ConfidentialAsset

func (a *ConfidentialAsset) Bytes() []byte {
	bz := make([]byte, 0, AssetSize)
	bz = binary.LittleEndian.AppendUint64(bz, uint64(a.AssetID))
	bz = appendDigests(bz, a.UTXO, a.VoidNumber)
	bz = a.Pub.appendTo(bz)
	return a.Priv.appendTo(bz)
}

func (a *ConfidentialAsset) Encode(w io.Writer) error {
	return writeAll(w, a.Bytes())
}

// DecodeConfidentialAsset reads an asset and accepts it only if it passes Sanity.
func DecodeConfidentialAsset(r io.Reader, params *crypto.Params) (*ConfidentialAsset, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	d := &decoder{r: r}
	a := &ConfidentialAsset{
		AssetID:    d.assetID(),
		UTXO:       d.digest(),
		VoidNumber: d.digest(),
		Pub:        d.pubInfo(),
		Priv:       d.privInfo(),
	}
	if d.err != nil {
		return nil, d.err
	}
	if err := errors.Join(checkField("utxo", params.Commit.CheckDigest(a.UTXO)), a.Pub.validate(params)); err != nil {
		return nil, err
	}

	ok, err := a.Sanity(params)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: confidential asset", ErrSanityCheckFail)
	}
	return a, nil
}

func ConfidentialAssetFromBytes(bz []byte, params *crypto.Params) (*ConfidentialAsset, error) {
	return fromBytes(bz, func(r io.Reader) (*ConfidentialAsset, error) {
		return DecodeConfidentialAsset(r, params)
	})
}

//
// ShieldedAddress

func (sa *ShieldedAddress) appendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, uint64(sa.AssetID))
	return appendDigests(dst, sa.K, sa.S, sa.R, sa.EncPK)
}

func (sa *ShieldedAddress) Bytes() []byte {
	return sa.appendTo(make([]byte, 0, ShieldedAddressSize))
}

func (sa *ShieldedAddress) Encode(w io.Writer) error {
	return writeAll(w, sa.Bytes())
}

func (d *decoder) shieldedAddress() ShieldedAddress {
	return ShieldedAddress{
		AssetID: d.assetID(),
		K:       d.digest(),
		S:       d.digest(),
		R:       d.digest(),
		EncPK:   d.digest(),
	}
}

func DecodeShieldedAddress(r io.Reader, params *crypto.Params) (*ShieldedAddress, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	d := &decoder{r: r}
	sa := d.shieldedAddress()
	if d.err != nil {
		return nil, d.err
	}
	if err := sa.validate(params); err != nil {
		return nil, err
	}
	return &sa, nil
}

func ShieldedAddressFromBytes(bz []byte, params *crypto.Params) (*ShieldedAddress, error) {
	return fromBytes(bz, func(r io.Reader) (*ShieldedAddress, error) {
		return DecodeShieldedAddress(r, params)
	})
}

//
// SpendingInfo

func (sp *SpendingInfo) appendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, uint64(sp.AssetID))
	return appendDigests(dst, sp.PK, sp.SecretKey, sp.Rho, sp.VoidNumber, sp.EncSK)
}

func (sp *SpendingInfo) Bytes() []byte {
	return sp.appendTo(make([]byte, 0, SpendingInfoSize))
}

func (sp *SpendingInfo) Encode(w io.Writer) error {
	return writeAll(w, sp.Bytes())
}

func (d *decoder) spendingInfo() SpendingInfo {
	return SpendingInfo{
		AssetID:    d.assetID(),
		PK:         d.digest(),
		SecretKey:  d.digest(),
		Rho:        d.digest(),
		VoidNumber: d.digest(),
		EncSK:      d.digest(),
	}
}

func DecodeSpendingInfo(r io.Reader, params *crypto.Params) (*SpendingInfo, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	d := &decoder{r: r}
	sp := d.spendingInfo()
	if d.err != nil {
		return nil, d.err
	}
	if err := sp.validate(params); err != nil {
		return nil, err
	}
	return &sp, nil
}

func SpendingInfoFromBytes(bz []byte, params *crypto.Params) (*SpendingInfo, error) {
	return fromBytes(bz, func(r io.Reader) (*SpendingInfo, error) {
		return DecodeSpendingInfo(r, params)
	})
}

//
// FullReceiver

func (fr *FullReceiver) Bytes() []byte {
	bz := make([]byte, 0, FullReceiverSize)
	bz = fr.Address.appendTo(bz)
	return fr.Spending.appendTo(bz)
}

func (fr *FullReceiver) Encode(w io.Writer) error {
	return writeAll(w, fr.Bytes())
}

// DecodeFullReceiver reads a prepared receiver and accepts it only if it passes Sanity.
func DecodeFullReceiver(r io.Reader, params *crypto.Params) (*FullReceiver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	d := &decoder{r: r}
	fr := &FullReceiver{
		Address:  d.shieldedAddress(),
		Spending: d.spendingInfo(),
	}
	if d.err != nil {
		return nil, d.err
	}
	if err := errors.Join(fr.Address.validate(params), fr.Spending.validate(params)); err != nil {
		return nil, err
	}

	ok, err := fr.Sanity(params)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: full receiver", ErrSanityCheckFail)
	}
	return fr, nil
}

func FullReceiverFromBytes(bz []byte, params *crypto.Params) (*FullReceiver, error) {
	return fromBytes(bz, func(r io.Reader) (*FullReceiver, error) {
		return DecodeFullReceiver(r, params)
	})
}

//
// ProcessedReceiver

func (pr *ProcessedReceiver) Bytes() []byte {
	bz := make([]byte, 0, ProcessedReceiverSize)
	bz = appendDigests(bz, pr.UTXO)
	bz = binary.LittleEndian.AppendUint64(bz, pr.Value)
	bz = appendDigests(bz, pr.SenderPK)
	bz = append(bz, pr.Ciphertext[:]...)
	return pr.Address.appendTo(bz)
}

func (pr *ProcessedReceiver) Encode(w io.Writer) error {
	return writeAll(w, pr.Bytes())
}

func DecodeProcessedReceiver(r io.Reader, params *crypto.Params) (*ProcessedReceiver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	d := &decoder{r: r}
	pr := &ProcessedReceiver{
		UTXO:     d.digest(),
		Value:    d.uint64(),
		SenderPK: d.digest(),
	}
	d.read(pr.Ciphertext[:])
	pr.Address = d.shieldedAddress()
	if d.err != nil {
		return nil, d.err
	}

	if err := errors.Join(
		checkField("utxo", params.Commit.CheckDigest(pr.UTXO)),
		checkField("sender public key", params.Ecies.CheckPublicKey(pr.SenderPK)),
		pr.Address.validate(params),
	); err != nil {
		return nil, err
	}
	return pr, nil
}

func ProcessedReceiverFromBytes(bz []byte, params *crypto.Params) (*ProcessedReceiver, error) {
	return fromBytes(bz, func(r io.Reader) (*ProcessedReceiver, error) {
		return DecodeProcessedReceiver(r, params)
	})
}
