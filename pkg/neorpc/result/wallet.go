package result

import (
	"encoding/json"
	"errors"
	"math/big"

	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/context"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

type (
	// Account is an account of the wallet opened on the server returned by
	// `listaddress` and `importprivkey` calls.
	Account struct {
		Address   string  `json:"address"`
		HasKey    bool    `json:"haskey"`
		Label     *string `json:"label"`
		WatchOnly bool    `json:"watchonly"`
	}

	// WalletBalance is a result of `getwalletbalance` call, it's the raw
	// token amount without decimals applied.
	WalletBalance struct {
		Balance *big.Int
	}

	// WalletTransfer is a result of `sendfrom`, `sendmany` and `sendtoaddress`
	// calls. The node returns the relayed transaction if its wallet could
	// sign it, otherwise it returns the parameter context with the
	// signatures collected so far. Exactly one of the fields is set.
	WalletTransfer struct {
		Transaction *transaction.Transaction
		Context     *context.ParameterContext
	}

	// TransferOutput is a single transfer of `sendmany` call.
	TransferOutput struct {
		Asset   string `json:"asset"`
		Value   string `json:"value"`
		Address string `json:"address"`
	}
)

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *Account) UnmarshalJSON(data []byte) error {
	type accountAux Account
	aux := new(accountAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if len(aux.Address) == 0 {
		return fieldError("address", errMissing)
	}
	*a = Account(*aux)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (b WalletBalance) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"balance": amountString(b.Balance)})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *WalletBalance) UnmarshalJSON(data []byte) error {
	var aux struct {
		Balance string `json:"balance"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v, err := parseAmount(aux.Balance)
	if err != nil {
		return fieldError("balance", err)
	}
	b.Balance = v
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (t WalletTransfer) MarshalJSON() ([]byte, error) {
	if t.Context != nil {
		return json.Marshal(t.Context)
	}
	return json.Marshal(t.Transaction)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *WalletTransfer) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type  *string         `json:"type"`
		Hash  json.RawMessage `json:"hash"`
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Type != nil && probe.Items != nil {
		pc := new(context.ParameterContext)
		if err := json.Unmarshal(data, pc); err != nil {
			return fieldError("items", err)
		}
		t.Context, t.Transaction = pc, nil
		return nil
	}
	if probe.Hash == nil {
		return fieldError("hash", errMissing)
	}
	tx := new(transaction.Transaction)
	if err := json.Unmarshal(data, tx); err != nil {
		return fieldError("hash", err)
	}
	t.Transaction, t.Context = tx, nil
	return nil
}

// IsSigned returns true if the node signed and relayed the transaction.
func (t *WalletTransfer) IsSigned() bool {
	return t.Transaction != nil
}

// errNotSigned is returned by Hash for unsigned transfers.
var errNotSigned = errors.New("transaction is not signed by the node")

// Hash returns the hash of the relayed transaction.
func (t *WalletTransfer) Hash() (util.Uint256, error) {
	if t.Transaction == nil {
		return util.Uint256{}, errNotSigned
	}
	return t.Transaction.Hash(), nil
}
