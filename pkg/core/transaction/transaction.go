package transaction

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neorpc-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

const (
	// MaxScriptLength is the limit for transaction's script length.
	MaxScriptLength = 65535
	// MaxTransactionSize is the upper limit size in bytes that a transaction can reach. It is
	// set to be 102400.
	MaxTransactionSize = 102400
	// MaxAttributes is maximum number of attributes including signers that can be contained
	// within a transaction. It is set to be 16.
	MaxAttributes = 16
	// DummyVersion represents reserved transaction version for trimmed transactions.
	DummyVersion = 255
)

// ErrInvalidWitnessNum returns when the number of witnesses does not match signers.
var ErrInvalidWitnessNum = errors.New("number of signers doesn't match witnesses")

// Transaction is a process recorded in the Neo blockchain.
type Transaction struct {
	// Incremented every time the format changes.
	Version uint8

	// Random number to avoid hash collision.
	Nonce uint32

	// Fee to be burned.
	SystemFee int64

	// Fee to be distributed to consensus nodes.
	NetworkFee int64

	// Maximum blockchain height exceeding which
	// transaction should fail verification.
	ValidUntilBlock uint32

	// Code to run in NeoVM for this transaction.
	Script []byte

	// Transaction attributes.
	Attributes []Attribute

	// Transaction signers list (starts with Sender).
	Signers []Signer

	// The scripts that come with this transaction.
	// Scripts exist out of the verification script
	// and invocation script.
	Scripts []Witness
}

// NewTransactionFromBytes decodes byte array into *Transaction.
func NewTransactionFromBytes(b []byte) (*Transaction, error) {
	tx := &Transaction{}
	if err := io.DecodeFull(b, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// New returns a new transaction to execute the given script and pay the given
// system fee. The nonce is random.
func New(script []byte, gas int64) *Transaction {
	return &Transaction{
		Version:   0,
		Nonce:     RandomNonce(),
		Script:    script,
		SystemFee: gas,
	}
}

// RandomNonce returns a random value suitable for the transaction nonce.
func RandomNonce() uint32 {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// Hash returns the hash of the transaction, it's the SHA-256 of the unsigned
// transaction fields.
func (t *Transaction) Hash() util.Uint256 {
	return hash.Sha256(t.GetSignedPart())
}

// HasAttribute returns true iff t has an attribute of type typ.
func (t *Transaction) HasAttribute(typ AttrType) bool {
	for i := range t.Attributes {
		if t.Attributes[i].Type == typ {
			return true
		}
	}
	return false
}

// GetAttributes returns the list of transaction's attributes of the given type.
// Returns nil in case if attributes not found.
func (t *Transaction) GetAttributes(typ AttrType) []Attribute {
	var result []Attribute
	for _, attr := range t.Attributes {
		if attr.Type == typ {
			result = append(result, attr)
		}
	}
	return result
}

// decodeHashableFields decodes the fields that are used for signing the
// transaction, which are all fields except the scripts.
func (t *Transaction) decodeHashableFields(br *io.BinReader) {
	t.Version = br.ReadB()
	t.Nonce = br.ReadU32LE()
	t.SystemFee = int64(br.ReadU64LE())
	t.NetworkFee = int64(br.ReadU64LE())
	t.ValidUntilBlock = br.ReadU32LE()
	if br.Err != nil {
		return
	}
	if t.SystemFee < 0 {
		br.Err = errors.New("negative system fee")
		return
	}
	if t.NetworkFee < 0 {
		br.Err = errors.New("negative network fee")
		return
	}
	io.ReadArray(br, &t.Signers, MaxAttributes)
	io.ReadArray(br, &t.Attributes, MaxAttributes-len(t.Signers))
	t.Script = br.ReadVarBytes(MaxScriptLength)
	if br.Err == nil {
		br.Err = t.isValid()
	}
}

func (t *Transaction) decodeBinaryNoSize(br *io.BinReader) {
	t.decodeHashableFields(br)
	if br.Err != nil {
		return
	}
	io.ReadArray(br, &t.Scripts, len(t.Signers))
	if br.Err != nil {
		return
	}
	if len(t.Signers) != len(t.Scripts) {
		br.Err = fmt.Errorf("%w: %d vs %d", ErrInvalidWitnessNum, len(t.Signers), len(t.Scripts))
	}
}

// DecodeBinary implements the Serializable interface.
func (t *Transaction) DecodeBinary(br *io.BinReader) {
	t.decodeBinaryNoSize(br)
}

// EncodeBinary implements the Serializable interface.
func (t *Transaction) EncodeBinary(bw *io.BinWriter) {
	t.encodeHashableFields(bw)
	io.WriteArray(bw, t.Scripts)
}

// encodeHashableFields encodes the fields that are not used for
// signing the transaction, which are all fields except the scripts.
func (t *Transaction) encodeHashableFields(bw *io.BinWriter) {
	if len(t.Script) == 0 {
		bw.Err = errors.New("transaction has no script")
		return
	}
	bw.WriteB(t.Version)
	bw.WriteU32LE(t.Nonce)
	bw.WriteU64LE(uint64(t.SystemFee))
	bw.WriteU64LE(uint64(t.NetworkFee))
	bw.WriteU32LE(t.ValidUntilBlock)
	io.WriteArray(bw, t.Signers)
	io.WriteArray(bw, t.Attributes)
	bw.WriteVarBytes(t.Script)
}

// GetSignedPart returns a part of the transaction which must be signed.
func (t *Transaction) GetSignedPart() []byte {
	buf := io.NewBufBinWriter()
	t.encodeHashableFields(buf.BinWriter)
	if buf.Err != nil {
		return nil
	}
	return buf.Bytes()
}

// EncodeHashableFields returns the serialized unsigned part of the
// transaction, it's the same as GetSignedPart, but returns an error.
func (t *Transaction) EncodeHashableFields() ([]byte, error) {
	buf := io.NewBufBinWriter()
	t.encodeHashableFields(buf.BinWriter)
	if buf.Err != nil {
		return nil, buf.Err
	}
	return buf.Bytes(), nil
}

// DecodeHashableFields decodes the unsigned part of the transaction, the
// transaction has no witnesses after that.
func (t *Transaction) DecodeHashableFields(b []byte) error {
	br := bytes.NewReader(b)
	r := io.NewBinReaderFromIO(br)
	t.decodeHashableFields(r)
	if r.Err != nil {
		return r.Err
	}
	if br.Len() != 0 {
		return io.ErrTrailingData
	}
	t.Scripts = make([]Witness, 0)
	return nil
}

// Bytes converts the transaction to []byte.
func (t *Transaction) Bytes() []byte {
	buf := io.NewBufBinWriter()
	t.EncodeBinary(buf.BinWriter)
	if buf.Err != nil {
		return nil
	}
	return buf.Bytes()
}

// Size returns size of the serialized transaction.
func (t *Transaction) Size() int {
	return len(t.Bytes())
}

// Sender returns the sender of the transaction which is always on the first place
// in the transaction's signers list.
func (t *Transaction) Sender() util.Uint160 {
	if len(t.Signers) == 0 {
		panic("transaction does not have signers")
	}
	return t.Signers[0].Account
}

// HasSigner returns true in case if hash is present in the list of signers.
func (t *Transaction) HasSigner(hash util.Uint160) bool {
	for _, h := range t.Signers {
		if h.Account.Equals(hash) {
			return true
		}
	}
	return false
}

// GetSigner returns the signer with the given account or nil.
func (t *Transaction) GetSigner(hash util.Uint160) *Signer {
	for i := range t.Signers {
		if t.Signers[i].Account.Equals(hash) {
			return &t.Signers[i]
		}
	}
	return nil
}

// Copy creates a deep copy of the Transaction, including all slice fields.
func (t *Transaction) Copy() *Transaction {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Script = append([]byte(nil), t.Script...)
	if t.Attributes != nil {
		cp.Attributes = make([]Attribute, len(t.Attributes))
		copy(cp.Attributes, t.Attributes)
	}
	if t.Signers != nil {
		cp.Signers = make([]Signer, len(t.Signers))
		for i := range t.Signers {
			cp.Signers[i] = *t.Signers[i].Copy()
		}
	}
	if t.Scripts != nil {
		cp.Scripts = make([]Witness, len(t.Scripts))
		for i := range t.Scripts {
			cp.Scripts[i] = t.Scripts[i].Copy()
		}
	}
	return &cp
}

// transactionJSON is a wrapper for Transaction and
// used for correct marhalling of transaction.Data.
type transactionJSON struct {
	TxID            util.Uint256 `json:"hash"`
	Size            int          `json:"size"`
	Version         uint8        `json:"version"`
	Nonce           uint32       `json:"nonce"`
	Sender          string       `json:"sender"`
	SystemFee       int64        `json:"sysfee,string"`
	NetworkFee      int64        `json:"netfee,string"`
	ValidUntilBlock uint32       `json:"validuntilblock"`
	Attributes      []Attribute  `json:"attributes"`
	Signers         []Signer     `json:"signers"`
	Script          []byte       `json:"script"`
	Scripts         []Witness    `json:"witnesses"`
}

// MarshalJSON implements the json.Marshaler interface.
func (t *Transaction) MarshalJSON() ([]byte, error) {
	tx := transactionJSON{
		TxID:            t.Hash(),
		Size:            t.Size(),
		Version:         t.Version,
		Nonce:           t.Nonce,
		Sender:          address.Uint160ToString(t.Sender()),
		ValidUntilBlock: t.ValidUntilBlock,
		Attributes:      t.Attributes,
		Signers:         t.Signers,
		Script:          t.Script,
		Scripts:         t.Scripts,
		SystemFee:       t.SystemFee,
		NetworkFee:      t.NetworkFee,
	}
	if tx.Attributes == nil {
		tx.Attributes = []Attribute{}
	}
	if tx.Scripts == nil {
		tx.Scripts = []Witness{}
	}
	return json.Marshal(tx)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	tx := new(transactionJSON)
	if err := json.Unmarshal(data, tx); err != nil {
		return err
	}
	t.Version = tx.Version
	t.Nonce = tx.Nonce
	t.ValidUntilBlock = tx.ValidUntilBlock
	t.Attributes = tx.Attributes
	t.Signers = tx.Signers
	t.Scripts = tx.Scripts
	t.SystemFee = tx.SystemFee
	t.NetworkFee = tx.NetworkFee
	t.Script = tx.Script
	if t.Hash() != tx.TxID {
		return errors.New("txid doesn't match transaction hash")
	}
	if len(t.Signers) == 0 {
		return errors.New("transaction has no signers")
	}
	if sender := address.Uint160ToString(t.Sender()); tx.Sender != "" && sender != tx.Sender {
		return errors.New("sender doesn't match the first signer")
	}
	return t.isValid()
}

// Various errors for transaction validation.
var (
	ErrInvalidVersion    = errors.New("only version 0 is supported")
	ErrNegativeValue     = errors.New("negative value")
	ErrNoSigners         = errors.New("no signers")
	ErrNonUniqueSigners  = errors.New("multiple signers have the same account")
	ErrInvalidAttribute  = errors.New("invalid attribute")
	ErrEmptyScript       = errors.New("no script")
	ErrTooManyAttributes = errors.New("too many attributes")
)

// isValid checks whether decoded/unmarshalled transaction has all fields valid.
func (t *Transaction) isValid() error {
	if t.Version > 0 && t.Version != DummyVersion {
		return ErrInvalidVersion
	}
	if t.SystemFee < 0 || t.NetworkFee < 0 {
		return ErrNegativeValue
	}
	if len(t.Signers) == 0 {
		return ErrNoSigners
	}
	if len(t.Signers)+len(t.Attributes) > MaxAttributes {
		return ErrTooManyAttributes
	}
	for i := 0; i < len(t.Signers); i++ {
		for j := i + 1; j < len(t.Signers); j++ {
			if t.Signers[i].Account.Equals(t.Signers[j].Account) {
				return ErrNonUniqueSigners
			}
		}
	}
	hasHighPrio := false
	for i := range t.Attributes {
		if t.Attributes[i].Type == HighPriorityT {
			if hasHighPrio {
				return fmt.Errorf("%w: multiple HighPriority attributes", ErrInvalidAttribute)
			}
			hasHighPrio = true
		}
	}
	if len(t.Script) == 0 {
		return ErrEmptyScript
	}
	return nil
}
