package crypto

import (
	"fmt"

	"golang.org/x/crypto/blake2s"
)

// Blake2sPRF evaluates PRF(key, input) = BLAKE2s-256 keyed with key over input.
type Blake2sPRF struct{}

func (Blake2sPRF) Evaluate(key, input Digest) (Digest, error) {
	var out Digest
	h, err := blake2s.New256(key[:])
	if err != nil {
		return out, fmt.Errorf("%w: prf: %v", ErrCrypto, err)
	}
	h.Write(input[:])
	copy(out[:], h.Sum(nil))
	return out, nil
}
