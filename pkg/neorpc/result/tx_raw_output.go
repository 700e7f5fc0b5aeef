package result

import (
	"encoding/json"

	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

// TransactionOutputRaw is used as a wrapper to represents
// a Transaction.
type TransactionOutputRaw struct {
	transaction.Transaction
	TransactionMetadata
}

// TransactionMetadata is an auxiliary struct for proper TransactionOutputRaw marshaling.
// It's only present for transactions accepted into a block.
type TransactionMetadata struct {
	Blockhash     util.Uint256 `json:"blockhash"`
	Confirmations int          `json:"confirmations"`
	Timestamp     uint64       `json:"blocktime"`
	VMState       string       `json:"vmstate"`
}

// MarshalJSON implements the json.Marshaler interface.
func (t TransactionOutputRaw) MarshalJSON() ([]byte, error) {
	txBytes, err := json.Marshal(&t.Transaction)
	if err != nil {
		return nil, err
	}
	if t.Blockhash.Equals(util.Uint256{}) {
		// Pooled transaction, no metadata.
		return txBytes, nil
	}
	output, err := json.Marshal(t.TransactionMetadata)
	if err != nil {
		return nil, err
	}
	return mergeJSON(output, txBytes)
}

// UnmarshalJSON implements the json.Marshaler interface.
func (t *TransactionOutputRaw) UnmarshalJSON(data []byte) error {
	// As transaction.Transaction and tranactionOutputRaw are at the same level in json,
	// do unmarshalling separately for both structs.
	output := new(TransactionMetadata)
	err := json.Unmarshal(data, output)
	if err != nil {
		return err
	}
	t.TransactionMetadata = *output
	return json.Unmarshal(data, &t.Transaction)
}
