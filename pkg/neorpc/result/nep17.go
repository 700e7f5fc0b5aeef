package result

import (
	"encoding/json"
	"errors"
	"math/big"
	"strconv"

	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

type (
	// NEP17Balances is a result for the getnep17balances RPC call.
	NEP17Balances struct {
		Balances []NEP17Balance `json:"balance"`
		Address  string         `json:"address"`
	}

	// NEP17Balance represents the balance for a single token contract. Name,
	// Symbol and Decimals are only returned by some servers.
	NEP17Balance struct {
		Asset       util.Uint160
		Amount      *big.Int
		Name        string
		Symbol      string
		Decimals    int
		LastUpdated uint32
	}

	// NEP17Transfers is a result for the getnep17transfers RPC.
	NEP17Transfers struct {
		Sent     []NEP17Transfer `json:"sent"`
		Received []NEP17Transfer `json:"received"`
		Address  string          `json:"address"`
	}

	// NEP17Transfer represents a single NEP-17 transfer event.
	NEP17Transfer struct {
		Timestamp   uint64
		Asset       util.Uint160
		Address     string
		Amount      *big.Int
		Index       uint32
		NotifyIndex uint32
		TxHash      util.Uint256
	}

	nep17BalanceAux struct {
		Asset       *util.Uint160 `json:"assethash"`
		Amount      string        `json:"amount"`
		Name        string        `json:"name,omitempty"`
		Symbol      string        `json:"symbol,omitempty"`
		Decimals    json.Number   `json:"decimals,omitempty"`
		LastUpdated uint32        `json:"lastupdatedblock"`
	}

	nep17TransferAux struct {
		Timestamp   uint64        `json:"timestamp"`
		Asset       *util.Uint160 `json:"assethash"`
		Address     string        `json:"transferaddress,omitempty"`
		Amount      string        `json:"amount"`
		Index       *uint32       `json:"blockindex"`
		NotifyIndex uint32        `json:"transfernotifyindex"`
		TxHash      *util.Uint256 `json:"txhash"`
	}
)

var errNotInteger = errors.New("not an integer")

func parseAmount(s string) (*big.Int, error) {
	if len(s) == 0 {
		return nil, errMissing
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errNotInteger
	}
	return v, nil
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *NEP17Balances) UnmarshalJSON(data []byte) error {
	type balancesAux NEP17Balances
	aux := new(balancesAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if len(aux.Address) == 0 {
		return fieldError("address", errMissing)
	}
	if _, err := address.StringToUint160(aux.Address); err != nil {
		return fieldError("address", err)
	}
	*b = NEP17Balances(*aux)
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (b NEP17Balance) MarshalJSON() ([]byte, error) {
	aux := nep17BalanceAux{
		Asset:       &b.Asset,
		Amount:      amountString(b.Amount),
		Name:        b.Name,
		Symbol:      b.Symbol,
		LastUpdated: b.LastUpdated,
	}
	if b.Decimals != 0 {
		aux.Decimals = json.Number(strconv.Itoa(b.Decimals))
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *NEP17Balance) UnmarshalJSON(data []byte) error {
	aux := new(nep17BalanceAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	if aux.Asset == nil {
		return fieldError("assethash", errMissing)
	}
	amount, err := parseAmount(aux.Amount)
	if err != nil {
		return fieldError("amount", err)
	}
	var decimals int64
	if len(aux.Decimals) != 0 {
		decimals, err = aux.Decimals.Int64()
		if err != nil {
			return fieldError("decimals", err)
		}
	}
	*b = NEP17Balance{
		Asset:       *aux.Asset,
		Amount:      amount,
		Name:        aux.Name,
		Symbol:      aux.Symbol,
		Decimals:    int(decimals),
		LastUpdated: aux.LastUpdated,
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (t NEP17Transfer) MarshalJSON() ([]byte, error) {
	return json.Marshal(nep17TransferAux{
		Timestamp:   t.Timestamp,
		Asset:       &t.Asset,
		Address:     t.Address,
		Amount:      amountString(t.Amount),
		Index:       &t.Index,
		NotifyIndex: t.NotifyIndex,
		TxHash:      &t.TxHash,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *NEP17Transfer) UnmarshalJSON(data []byte) error {
	aux := new(nep17TransferAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	switch {
	case aux.Asset == nil:
		return fieldError("assethash", errMissing)
	case aux.TxHash == nil:
		return fieldError("txhash", errMissing)
	case aux.Index == nil:
		return fieldError("blockindex", errMissing)
	}
	amount, err := parseAmount(aux.Amount)
	if err != nil {
		return fieldError("amount", err)
	}
	*t = NEP17Transfer{
		Timestamp:   aux.Timestamp,
		Asset:       *aux.Asset,
		Address:     aux.Address,
		Amount:      amount,
		Index:       *aux.Index,
		NotifyIndex: aux.NotifyIndex,
		TxHash:      *aux.TxHash,
	}
	return nil
}
