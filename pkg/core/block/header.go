package block

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

// VersionInitial is the default Neo block version.
const VersionInitial uint32 = 0

// Header holds the base info of a block.
type Header struct {
	// Version of the block.
	Version uint32

	// hash of the previous block.
	PrevHash util.Uint256

	// Root hash of a transaction list.
	MerkleRoot util.Uint256

	// Timestamp is a millisecond-precision timestamp.
	// The time stamp of each block must be later than the previous block's time stamp.
	// Generally, the difference between two blocks' time stamps is about 15 seconds and imprecision is allowed.
	// The height of the block must be exactly equal to the height of the previous block plus 1.
	Timestamp uint64

	// Nonce is block random number.
	Nonce uint64
	// index/height of the block
	Index uint32

	// Contract address of the next miner
	NextConsensus util.Uint160

	// Script used to validate the block
	Script transaction.Witness

	// PrimaryIndex is the index of the primary consensus node for this block.
	PrimaryIndex byte
}

// baseAux is used to marshal/unmarshal to/from JSON, it's almost the same
// as Header, but with Nonce and NextConsensus fields differing and Hash added.
type baseAux struct {
	Hash          util.Uint256          `json:"hash"`
	Size          int                   `json:"size"`
	Version       uint32                `json:"version"`
	PrevHash      util.Uint256          `json:"previousblockhash"`
	MerkleRoot    util.Uint256          `json:"merkleroot"`
	Timestamp     uint64                `json:"time"`
	Nonce         string                `json:"nonce"`
	Index         uint32                `json:"index"`
	NextConsensus string                `json:"nextconsensus"`
	PrimaryIndex  byte                  `json:"primary"`
	Witnesses     []transaction.Witness `json:"witnesses"`
}

// Hash returns the hash of the block, it's the SHA-256 of the hashable
// header fields (everything except the witness).
func (b *Header) Hash() util.Uint256 {
	buf := io.NewBufBinWriter()
	b.encodeHashableFields(buf.BinWriter)
	return hash.Sha256(buf.Bytes())
}

// DecodeBinary implements the Serializable interface.
func (b *Header) DecodeBinary(br *io.BinReader) {
	b.decodeHashableFields(br)
	witnessCount := br.ReadVarUint()
	if br.Err == nil && witnessCount != 1 {
		br.Err = errors.New("wrong witness count")
		return
	}

	b.Script.DecodeBinary(br)
}

// EncodeBinary implements the Serializable interface.
func (b *Header) EncodeBinary(bw *io.BinWriter) {
	b.encodeHashableFields(bw)
	bw.WriteVarUint(1)
	b.Script.EncodeBinary(bw)
}

// encodeHashableFields will only encode the fields used for hashing.
// see Hash() for more information about the fields.
func (b *Header) encodeHashableFields(bw *io.BinWriter) {
	bw.WriteU32LE(b.Version)
	bw.WriteBytes(b.PrevHash[:])
	bw.WriteBytes(b.MerkleRoot[:])
	bw.WriteU64LE(b.Timestamp)
	bw.WriteU64LE(b.Nonce)
	bw.WriteU32LE(b.Index)
	bw.WriteB(b.PrimaryIndex)
	bw.WriteBytes(b.NextConsensus[:])
}

// decodeHashableFields decodes the fields used for hashing.
// see Hash() for more information about the fields.
func (b *Header) decodeHashableFields(br *io.BinReader) {
	b.Version = br.ReadU32LE()
	br.ReadBytes(b.PrevHash[:])
	br.ReadBytes(b.MerkleRoot[:])
	b.Timestamp = br.ReadU64LE()
	b.Nonce = br.ReadU64LE()
	b.Index = br.ReadU32LE()
	b.PrimaryIndex = br.ReadB()
	br.ReadBytes(b.NextConsensus[:])
	if br.Err == nil && b.Version > VersionInitial {
		br.Err = fmt.Errorf("unsupported block version %d", b.Version)
	}
}

// GetSignedPart returns the part of the header that is signed by consensus nodes.
func (b *Header) GetSignedPart() []byte {
	buf := io.NewBufBinWriter()
	b.encodeHashableFields(buf.BinWriter)
	return buf.Bytes()
}

// MarshalJSON implements the json.Marshaler interface.
func (b Header) MarshalJSON() ([]byte, error) {
	aux := b.toAux()
	return json.Marshal(aux)
}

func (b *Header) toAux() baseAux {
	size, _ := io.ToBytes(b)
	return baseAux{
		Hash:          b.Hash(),
		Size:          len(size),
		Version:       b.Version,
		PrevHash:      b.PrevHash,
		MerkleRoot:    b.MerkleRoot,
		Timestamp:     b.Timestamp,
		Nonce:         fmt.Sprintf("%016X", b.Nonce),
		Index:         b.Index,
		PrimaryIndex:  b.PrimaryIndex,
		NextConsensus: address.Uint160ToString(b.NextConsensus),
		Witnesses:     []transaction.Witness{b.Script},
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *Header) UnmarshalJSON(data []byte) error {
	var aux = new(baseAux)
	err := json.Unmarshal(data, aux)
	if err != nil {
		return err
	}
	return b.fromAux(aux)
}

func (b *Header) fromAux(aux *baseAux) error {
	var (
		nextC util.Uint160
		nonce uint64
		err   error
	)
	if len(aux.Nonce) != 0 {
		nonce, err = strconv.ParseUint(strings.TrimPrefix(aux.Nonce, "0x"), 16, 64)
		if err != nil {
			return fmt.Errorf("invalid nonce: %w", err)
		}
	}
	nextC, err = address.StringToUint160(aux.NextConsensus)
	if err != nil {
		return fmt.Errorf("invalid nextconsensus: %w", err)
	}
	if len(aux.Witnesses) != 1 {
		return errors.New("wrong number of witnesses")
	}
	b.Version = aux.Version
	b.PrevHash = aux.PrevHash
	b.MerkleRoot = aux.MerkleRoot
	b.Timestamp = aux.Timestamp
	b.Nonce = nonce
	b.Index = aux.Index
	b.PrimaryIndex = aux.PrimaryIndex
	b.NextConsensus = nextC
	b.Script = aux.Witnesses[0]
	if !aux.Hash.Equals(b.Hash()) {
		return errors.New("json 'hash' doesn't match block hash")
	}
	return nil
}
