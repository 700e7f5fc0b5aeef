package state

import (
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/emit"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/opcode"
)

// Contract holds information about a smart contract in the Neo blockchain
// as it's returned by the node.
type Contract struct {
	ContractBase
	UpdateCounter uint16 `json:"updatecounter"`
}

// ContractBase represents a part shared by native and user-deployed contracts.
type ContractBase struct {
	ID       int32             `json:"id"`
	Hash     util.Uint160      `json:"hash"`
	NEF      nef.File          `json:"nef"`
	Manifest manifest.Manifest `json:"manifest"`
}

// NativeContract holds information about a native contract.
type NativeContract struct {
	ContractBase
	UpdateHistory []uint32 `json:"updatehistory,omitempty"`
}

// CreateContractHash creates a deployed contract hash from the transaction sender
// and the contract script.
func CreateContractHash(sender util.Uint160, checksum uint32, name string) util.Uint160 {
	w := io.NewBufBinWriter()
	emit.Opcodes(w.BinWriter, opcode.ABORT)
	emit.Bytes(w.BinWriter, sender.BytesBE())
	emit.Int(w.BinWriter, int64(checksum))
	emit.String(w.BinWriter, name)
	if w.Err != nil {
		panic(w.Err)
	}
	return hash.Hash160(w.Bytes())
}

// CreateNativeContractHash calculates the hash for the native contract with the
// given name.
func CreateNativeContractHash(name string) util.Uint160 {
	return CreateContractHash(util.Uint160{}, 0, name)
}
