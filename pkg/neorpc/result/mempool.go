package result

import (
	"encoding/json"

	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

// RawMemPool represents a result of getrawmempool RPC call made with
// unverified transactions included.
type RawMemPool struct {
	Height     uint32         `json:"height"`
	Verified   []util.Uint256 `json:"verified"`
	Unverified []util.Uint256 `json:"unverified"`
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *RawMemPool) UnmarshalJSON(data []byte) error {
	var aux struct {
		Height     *uint32         `json:"height"`
		Verified   *[]util.Uint256 `json:"verified"`
		Unverified []util.Uint256  `json:"unverified"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Height == nil {
		return fieldError("height", errMissing)
	}
	if aux.Verified == nil {
		return fieldError("verified", errMissing)
	}
	*p = RawMemPool{Height: *aux.Height, Verified: *aux.Verified, Unverified: aux.Unverified}
	return nil
}
