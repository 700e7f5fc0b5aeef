package result

import (
	"encoding/json"
	"math/big"

	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

// UnclaimedGas response wrapper. Unclaimed is the raw GAS value, it has 8
// decimals.
type UnclaimedGas struct {
	Address   util.Uint160
	Unclaimed big.Int
}

// unclaimedGas is an auxiliary struct for JSON marhsalling.
type unclaimedGas struct {
	Address   string `json:"address"`
	Unclaimed string `json:"unclaimed"`
}

// MarshalJSON implements the json.Marshaler interface.
func (g UnclaimedGas) MarshalJSON() ([]byte, error) {
	gas := &unclaimedGas{
		Address:   address.Uint160ToString(g.Address),
		Unclaimed: g.Unclaimed.String(),
	}
	return json.Marshal(gas)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (g *UnclaimedGas) UnmarshalJSON(data []byte) error {
	gas := new(unclaimedGas)
	if err := json.Unmarshal(data, gas); err != nil {
		return err
	}
	uncl, err := parseAmount(gas.Unclaimed)
	if err != nil {
		return fieldError("unclaimed", err)
	}
	if len(gas.Address) == 0 {
		return fieldError("address", errMissing)
	}
	addr, err := address.StringToUint160(gas.Address)
	if err != nil {
		return fieldError("address", err)
	}
	g.Unclaimed = *uncl
	g.Address = addr
	return nil
}
