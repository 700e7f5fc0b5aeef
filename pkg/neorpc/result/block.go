package result

import (
	"encoding/json"
	"errors"

	"github.com/nspcc-dev/neorpc-go/pkg/core/block"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

type (
	// Block wrapper used for the representation of
	// block.Block / block.Base on the RPC Server.
	Block struct {
		block.Block
		BlockMetadata
	}

	// Header wrapper used for a representation of
	// the block header on the RPC Server.
	Header struct {
		block.Header
		BlockMetadata
	}

	// BlockMetadata is an additional metadata added to the standard
	// block.Block. Block size is a part of the block JSON itself.
	BlockMetadata struct {
		NextBlockHash *util.Uint256 `json:"nextblockhash,omitempty"`
		Confirmations uint32        `json:"confirmations"`
	}
)

// mergeJSON puts fields of both JSON objects at the same level in order to
// match C# API, there's no way to marshal them correctly with the standard
// json.Marshaller tool.
func mergeJSON(meta []byte, base []byte) ([]byte, error) {
	if meta[len(meta)-1] != '}' || base[0] != '{' {
		return nil, errors.New("can't merge internal jsons")
	}
	if len(base) == 2 {
		return meta, nil
	}
	meta[len(meta)-1] = ','
	return append(meta, base[1:]...), nil
}

// MarshalJSON implements the json.Marshaler interface.
func (b Block) MarshalJSON() ([]byte, error) {
	output, err := json.Marshal(b.BlockMetadata)
	if err != nil {
		return nil, err
	}
	baseBytes, err := json.Marshal(b.Block)
	if err != nil {
		return nil, err
	}
	return mergeJSON(output, baseBytes)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *Block) UnmarshalJSON(data []byte) error {
	// As block.Block and BlockMetadata are at the same level in json,
	// do unmarshalling separately for both structs.
	meta := new(BlockMetadata)
	err := json.Unmarshal(data, meta)
	if err != nil {
		return err
	}
	err = json.Unmarshal(data, &b.Block)
	if err != nil {
		return err
	}
	b.BlockMetadata = *meta
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (h Header) MarshalJSON() ([]byte, error) {
	output, err := json.Marshal(h.BlockMetadata)
	if err != nil {
		return nil, err
	}
	baseBytes, err := json.Marshal(h.Header)
	if err != nil {
		return nil, err
	}
	return mergeJSON(output, baseBytes)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (h *Header) UnmarshalJSON(data []byte) error {
	meta := new(BlockMetadata)
	err := json.Unmarshal(data, meta)
	if err != nil {
		return err
	}
	err = json.Unmarshal(data, &h.Header)
	if err != nil {
		return err
	}
	h.BlockMetadata = *meta
	return nil
}
