package types

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/kysee/zkasset/zk-asset/crypto"
)

const (
	addrPrefix = "bz"
	ver        = 0x01
)

func EncodeAddress(payload []byte) string {
	return addrPrefix + base58.CheckEncode(payload, ver)
}

func DecodeAddress(addr string) ([]byte, error) {
	if !strings.HasPrefix(addr, addrPrefix) {
		return nil, fmt.Errorf("%w: wrong prefix: got(%.2s)", ErrMalformed, addr)
	}
	bz, _ver, err := base58.CheckDecode(addr[len(addrPrefix):])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _ver != ver {
		return nil, fmt.Errorf("%w: wrong version: expected(%d), got(%d)", ErrMalformed, ver, _ver)
	}
	return bz, nil
}

func EncodeShieldedAddress(sa *ShieldedAddress) string {
	return EncodeAddress(sa.Bytes())
}

func (sa *ShieldedAddress) String() string {
	return EncodeShieldedAddress(sa)
}

// ParseShieldedAddress decodes the string form of a shielded address.
func ParseShieldedAddress(addr string, params *crypto.Params) (*ShieldedAddress, error) {
	bz, err := DecodeAddress(addr)
	if err != nil {
		return nil, err
	}
	if len(bz) != ShieldedAddressSize {
		return nil, fmt.Errorf("%w: shielded address must be %d bytes, got %d", ErrMalformed, ShieldedAddressSize, len(bz))
	}
	return ShieldedAddressFromBytes(bz, params)
}
