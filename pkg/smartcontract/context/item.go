package context

import (
	"encoding/hex"

	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract"
)

// Item is the set of signatures collected for one verification script.
// Parameters hold the signatures in the order the script consumes them and
// are filled only once there are enough of them.
type Item struct {
	Script     []byte                    `json:"script"`
	Parameters []smartcontract.Parameter `json:"parameters"`
	Signatures map[string][]byte         `json:"signatures"`
}

// GetSignature returns the signature made with pub or nil.
func (it *Item) GetSignature(pub *keys.PublicKey) []byte {
	return it.Signatures[hex.EncodeToString(pub.Bytes())]
}

// addSignature stores sig, a second signature for the same key is an error.
func (it *Item) addSignature(pub *keys.PublicKey, sig []byte) error {
	pubHex := hex.EncodeToString(pub.Bytes())
	if _, ok := it.Signatures[pubHex]; ok {
		return ErrSignatureAdded
	}
	it.Signatures[pubHex] = sig
	return nil
}

// fill sets parameters from the ordered signatures.
func (it *Item) fill(sigs [][]byte) {
	for i := 0; i < len(sigs) && i < len(it.Parameters); i++ {
		it.Parameters[i].Value = sigs[i]
	}
}
