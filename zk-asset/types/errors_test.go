package types

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/kysee/zkasset/zk-asset/crypto"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		kind ErrorKind
	}{
		{nil, KindNone},
		{ErrMalformed, KindIO},
		{fmt.Errorf("%w: %w", ErrMalformed, io.ErrUnexpectedEOF), KindIO},
		{io.ErrUnexpectedEOF, KindIO},
		{fmt.Errorf("wrapped: %w", ErrSanityCheckFail), KindSanity},
		{ErrLeavesNotFound, KindLeavesNotFound},
		{crypto.ErrDecrypt, KindCrypto},
		{crypto.ErrInvalidParam, KindCrypto},
		{errors.New("other"), KindCrypto},
	}
	for _, c := range cases {
		require.Equal(t, c.kind, KindOf(c.err), "%v", c.err)
	}
	require.Equal(t, "sanity check", KindSanity.String())
	require.Equal(t, "unknown", ErrorKind(99).String())
}
