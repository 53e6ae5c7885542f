package types

import (
	"errors"
	"io"

	"github.com/kysee/zkasset/zk-asset/crypto"
)

// ErrorKind classifies every error returned by this package and the ledger.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindIO is a truncated or malformed byte stream.
	KindIO
	// KindSanity is a decoded aggregate whose digests do not re-derive.
	KindSanity
	// KindLeavesNotFound is a commitment missing from the supplied leaves.
	KindLeavesNotFound
	// KindCrypto is a failure of an underlying cryptographic operation.
	KindCrypto
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindIO:
		return "io"
	case KindSanity:
		return "sanity check"
	case KindLeavesNotFound:
		return "leaves not found"
	case KindCrypto:
		return "crypto"
	default:
		return "unknown"
	}
}

var (
	ErrMalformed       = errors.New("malformed encoding")
	ErrSanityCheckFail = errors.New("sanity check failed")
	ErrLeavesNotFound  = errors.New("leaves not found")
	ErrCrypto          = crypto.ErrCrypto
)

// KindOf returns the kind of err. Unknown non-nil errors are reported as KindCrypto
// since every other failure in this module is wrapped with a sentinel.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrSanityCheckFail):
		return KindSanity
	case errors.Is(err, ErrLeavesNotFound):
		return KindLeavesNotFound
	case errors.Is(err, ErrMalformed), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF):
		return KindIO
	default:
		return KindCrypto
	}
}
