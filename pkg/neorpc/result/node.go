package result

import (
	"encoding/json"

	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

type (
	// RelayResult ia a result of `sendrawtransaction` or `submitblock` RPC calls.
	RelayResult struct {
		Hash util.Uint256 `json:"hash"`
	}

	// NetworkFee represents a result of calculatenetworkfee RPC call.
	NetworkFee struct {
		Value int64 `json:"networkfee,string"`
	}

	// ValidateAddress represents a result of the `validateaddress` call.
	ValidateAddress struct {
		Address string `json:"address"`
		IsValid bool   `json:"isvalid"`
	}

	// Plugin represents a server plugin returned by `listplugins`.
	Plugin struct {
		Name       string   `json:"name"`
		Version    string   `json:"version"`
		Interfaces []string `json:"interfaces"`
	}
)

// UnmarshalJSON implements the json.Unmarshaler interface.
func (r *RelayResult) UnmarshalJSON(data []byte) error {
	var aux struct {
		Hash *util.Uint256 `json:"hash"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fieldError("hash", err)
	}
	if aux.Hash == nil {
		return fieldError("hash", errMissing)
	}
	r.Hash = *aux.Hash
	return nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (n *NetworkFee) UnmarshalJSON(data []byte) error {
	var aux struct {
		Value *int64 `json:"networkfee,string"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fieldError("networkfee", err)
	}
	if aux.Value == nil {
		return fieldError("networkfee", errMissing)
	}
	n.Value = *aux.Value
	return nil
}
