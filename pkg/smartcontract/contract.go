package smartcontract

import (
	"crypto/elliptic"
	"fmt"
	"sort"

	"github.com/nspcc-dev/neorpc-go/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/vm"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/emit"
)

// CreateSignatureRedeemScript creates a standard single-key verification
// script for the given public key.
func CreateSignatureRedeemScript(pub *keys.PublicKey) []byte {
	return pub.GetVerificationScript()
}

// CreateMultiSigRedeemScript creates an "m out of n" type verification script
// where n is the length of publicKeys. Keys are sorted in the script, the order
// given doesn't matter.
func CreateMultiSigRedeemScript(m int, publicKeys keys.PublicKeys) ([]byte, error) {
	if m < 1 {
		return nil, fmt.Errorf("param m cannot be smaller than 1, got %d", m)
	}
	if m > len(publicKeys) {
		return nil, fmt.Errorf("length of the signatures (%d) is higher then the number of public keys", m)
	}
	if len(publicKeys) > vm.MaxMultisigKeys {
		return nil, fmt.Errorf("public key count %d exceeds maximum of %d", len(publicKeys), vm.MaxMultisigKeys)
	}

	buf := io.NewBufBinWriter()
	emit.Int(buf.BinWriter, int64(m))
	publicKeys = publicKeys.Copy()
	sort.Sort(publicKeys)
	for _, pubKey := range publicKeys {
		emit.Bytes(buf.BinWriter, pubKey.Bytes())
	}
	emit.Int(buf.BinWriter, int64(len(publicKeys)))
	emit.Syscall(buf.BinWriter, interopnames.SystemCryptoCheckMultisig)

	return buf.Bytes(), nil
}

// CreateDefaultMultiSigRedeemScript creates an "m out of n" type verification script
// using publicKeys length with the default BFT assumptions of (n - (n-1)/3) for m.
func CreateDefaultMultiSigRedeemScript(publicKeys keys.PublicKeys) ([]byte, error) {
	n := len(publicKeys)
	m := GetDefaultHonestNodeCount(n)
	return CreateMultiSigRedeemScript(m, publicKeys)
}

// CreateMajorityMultiSigRedeemScript creates an "m out of n" type verification script
// using publicKeys length with m set to majority.
func CreateMajorityMultiSigRedeemScript(publicKeys keys.PublicKeys) ([]byte, error) {
	n := len(publicKeys)
	m := GetMajorityHonestNodeCount(n)
	return CreateMultiSigRedeemScript(m, publicKeys)
}

// GetDefaultHonestNodeCount returns minimum number of honest nodes
// required for network of size n.
func GetDefaultHonestNodeCount(n int) int {
	return n - (n-1)/3
}

// GetMajorityHonestNodeCount returns minimum number of honest nodes
// required for majority-style agreement.
func GetMajorityHonestNodeCount(n int) int {
	return n - (n-1)/2
}

// ParseMultiSigContract parses a standard multisignature verification script
// returning the number of required signatures and the public keys in the
// order they appear in the script.
func ParseMultiSigContract(script []byte) (int, keys.PublicKeys, error) {
	m, raw, ok := vm.ParseMultiSigContract(script)
	if !ok {
		return 0, nil, fmt.Errorf("not a multisignature contract")
	}
	pubs := make(keys.PublicKeys, len(raw))
	for i := range raw {
		pub, err := keys.NewPublicKeyFromBytes(raw[i], elliptic.P256())
		if err != nil {
			return 0, nil, fmt.Errorf("key %d: %w", i, err)
		}
		pubs[i] = pub
	}
	return m, pubs, nil
}

// ParseSignatureContract parses a standard signature verification script
// returning its public key.
func ParseSignatureContract(script []byte) (*keys.PublicKey, error) {
	raw, ok := vm.ParseSignatureContract(script)
	if !ok {
		return nil, fmt.Errorf("not a signature contract")
	}
	return keys.NewPublicKeyFromBytes(raw, elliptic.P256())
}
