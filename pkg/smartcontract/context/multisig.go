package context

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/vm"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/emit"
)

var (
	// ErrNotMultisig is returned for scripts that are not standard
	// multisignature contracts.
	ErrNotMultisig = errors.New("not a multisignature contract")
	// ErrThresholdNotMet is returned when there are less signatures than the
	// multisignature contract requires.
	ErrThresholdNotMet = errors.New("not enough signatures")
)

// OrderSignatures checks whether the signatures (keyed by hex-encoded
// compressed public keys) satisfy the multisignature verification script and
// returns exactly m of them in the order the script checks them: by the key
// position in the script. Signatures of lower-positioned keys win when there
// are more than m of them, signatures of keys not in the script are ignored.
func OrderSignatures(script []byte, sigs map[string][]byte) ([][]byte, error) {
	m, pubs, ok := vm.ParseMultiSigContract(script)
	if !ok {
		return nil, ErrNotMultisig
	}
	res := make([][]byte, 0, m)
	for i := range pubs {
		sig, ok := sigs[hex.EncodeToString(pubs[i])]
		if !ok {
			continue
		}
		res = append(res, sig)
		if len(res) == m {
			return res, nil
		}
	}
	return nil, fmt.Errorf("%w: %d out of %d", ErrThresholdNotMet, len(res), m)
}

// InvocationScript pushes signatures in the given order.
func InvocationScript(sigs [][]byte) []byte {
	bw := io.NewBufBinWriter()
	for i := range sigs {
		emit.Bytes(bw.BinWriter, sigs[i])
	}
	return bw.Bytes()
}
