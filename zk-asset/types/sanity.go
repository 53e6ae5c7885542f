package types

import (
	"github.com/kysee/zkasset/zk-asset/crypto"
)

// Sanity re-derives pk, void_number, k and utxo, in this order, and reports
// whether all of them match the stored digests. A mismatch is not an error;
// errors only come from the underlying primitives.
func (a *ConfidentialAsset) Sanity(params *crypto.Params) (bool, error) {
	if err := params.Validate(); err != nil {
		return false, err
	}

	if ok, err := checkKeys(params, a.Priv.SecretKey, a.Pub.Rho, a.Pub.PK, a.VoidNumber); !ok || err != nil {
		return false, err
	}

	k, err := params.Commit.Commit(innerMessage(a.Pub.PK, a.Pub.Rho), a.Pub.R)
	if err != nil {
		return false, err
	}
	if k != a.Pub.K {
		return false, nil
	}

	utxo, err := params.Commit.Commit(assetMessage(a.AssetID, a.Priv.Value, a.Pub.K), a.Pub.S)
	if err != nil {
		return false, err
	}
	return utxo == a.UTXO, nil
}

// Sanity re-derives pk, void_number and k of a prepared receiver.
// There is no utxo to check before a value has been paid.
func (fr *FullReceiver) Sanity(params *crypto.Params) (bool, error) {
	if err := params.Validate(); err != nil {
		return false, err
	}

	sp := &fr.Spending
	if ok, err := checkKeys(params, sp.SecretKey, sp.Rho, sp.PK, sp.VoidNumber); !ok || err != nil {
		return false, err
	}

	k, err := params.Commit.Commit(innerMessage(sp.PK, sp.Rho), fr.Address.R)
	if err != nil {
		return false, err
	}
	return k == fr.Address.K, nil
}

func checkKeys(params *crypto.Params, sk, rho, pk, voidNumber crypto.Digest) (bool, error) {
	got, err := params.PRF.Evaluate(sk, crypto.Digest{})
	if err != nil {
		return false, err
	}
	if got != pk {
		return false, nil
	}
	got, err = params.PRF.Evaluate(sk, rho)
	if err != nil {
		return false, err
	}
	return got == voidNumber, nil
}
