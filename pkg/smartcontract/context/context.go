/*
Package context implements the parameter context: a container collecting
signatures of a transaction from several parties, it's the unit of the
offline multisignature signing flow.
*/
package context

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neorpc-go/pkg/config/netmode"
	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm"
)

// TransactionType is the type of a transaction context.
const TransactionType = "Neo.Network.P2P.Payloads.Transaction"

var (
	// ErrInvalidSignature is returned when the signature doesn't verify
	// against the key and the transaction.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrUnknownKey is returned when the key is not a part of the
	// verification script.
	ErrUnknownKey = errors.New("public key is not present in script")
	// ErrSignatureAdded is returned when a signature for the key is already
	// present.
	ErrSignatureAdded = errors.New("signature is already added")
	// ErrUnsupportedScript is returned for non-standard verification scripts.
	ErrUnsupportedScript = errors.New("only standard signature and multisignature contracts are supported")
)

// ParameterContext represents smartcontract parameter's context.
type ParameterContext struct {
	// Type is a type of a verifiable item.
	Type string
	// Network is a network this context belongs to.
	Network netmode.Magic
	// Verifiable is the transaction being signed.
	Verifiable *transaction.Transaction
	// Items is a map from script hashes to context items.
	Items map[util.Uint160]*Item
}

type paramContext struct {
	Type  string                     `json:"type"`
	Hash  util.Uint256               `json:"hash"`
	Data  []byte                     `json:"data"`
	Items map[string]json.RawMessage `json:"items"`
	Net   uint32                     `json:"network"`
}

// NewParameterContext returns ParameterContext with the specified network
// and transaction to sign.
func NewParameterContext(network netmode.Magic, tx *transaction.Transaction) *ParameterContext {
	return &ParameterContext{
		Type:       TransactionType,
		Network:    network,
		Verifiable: tx,
		Items:      make(map[util.Uint160]*Item),
	}
}

// AddSignature adds a signature for the account with the given verification
// script. The signature is checked against the key and the transaction before
// it's stored.
func (c *ParameterContext) AddSignature(h util.Uint160, script []byte, pub *keys.PublicKey, sig []byte) error {
	if pub == nil {
		return fmt.Errorf("%w: no key", ErrInvalidSignature)
	}
	if !pub.VerifyHashable(sig, uint32(c.Network), c.Verifiable) {
		return fmt.Errorf("%w: key %s", ErrInvalidSignature, pub.StringCompressed())
	}
	if m, pubs, ok := vm.ParseMultiSigContract(script); ok {
		item := c.getItemForContract(h, script, m)
		pubBytes := pub.Bytes()
		var contained bool
		for i := range pubs {
			if bytes.Equal(pubBytes, pubs[i]) {
				contained = true
				break
			}
		}
		if !contained {
			return ErrUnknownKey
		}
		if err := item.addSignature(pub, sig); err != nil {
			return err
		}
		if sigs, err := OrderSignatures(script, item.Signatures); err == nil {
			item.fill(sigs)
		}
		return nil
	}
	key, ok := vm.ParseSignatureContract(script)
	if !ok {
		return ErrUnsupportedScript
	}
	if !bytes.Equal(key, pub.Bytes()) {
		return ErrUnknownKey
	}
	item := c.getItemForContract(h, script, 1)
	if err := item.addSignature(pub, sig); err != nil {
		return err
	}
	item.fill([][]byte{sig})
	return nil
}

// IsComplete returns true when the item for the given script hash has all
// the signatures its verification script needs.
func (c *ParameterContext) IsComplete(h util.Uint160) bool {
	item, ok := c.Items[h]
	if !ok {
		return false
	}
	for i := range item.Parameters {
		if item.Parameters[i].Value == nil {
			return false
		}
	}
	return len(item.Parameters) != 0
}

// GetWitness returns invocation and verification scripts for the specified contract.
func (c *ParameterContext) GetWitness(h util.Uint160) (*transaction.Witness, error) {
	item, ok := c.Items[h]
	if !ok {
		return nil, errors.New("witness not found")
	}
	sigs := make([][]byte, 0, len(item.Parameters))
	for i := range item.Parameters {
		if item.Parameters[i].Type != smartcontract.SignatureType {
			return nil, errors.New("only signature parameters are supported")
		} else if item.Parameters[i].Value == nil {
			return nil, fmt.Errorf("%w: %d out of %d", ErrThresholdNotMet, i, len(item.Parameters))
		}
		sigs = append(sigs, item.Parameters[i].Value.([]byte))
	}
	return &transaction.Witness{
		InvocationScript:   InvocationScript(sigs),
		VerificationScript: item.Script,
	}, nil
}

func (c *ParameterContext) getItemForContract(h util.Uint160, script []byte, nsigs int) *Item {
	item, ok := c.Items[h]
	if ok {
		return item
	}
	params := make([]smartcontract.Parameter, nsigs)
	for i := range params {
		params[i].Type = smartcontract.SignatureType
	}
	item = &Item{
		Script:     script,
		Parameters: params,
		Signatures: make(map[string][]byte),
	}
	c.Items[h] = item
	return item
}

// MarshalJSON implements the json.Marshaler interface.
func (c ParameterContext) MarshalJSON() ([]byte, error) {
	verif, err := c.Verifiable.EncodeHashableFields()
	if err != nil {
		return nil, fmt.Errorf("failed to encode hashable fields: %w", err)
	}
	items := make(map[string]json.RawMessage, len(c.Items))
	for u := range c.Items {
		data, err := json.Marshal(c.Items[u])
		if err != nil {
			return nil, err
		}
		items["0x"+u.StringLE()] = data
	}
	pc := &paramContext{
		Type:  c.Type,
		Hash:  c.Verifiable.Hash(),
		Data:  verif,
		Items: items,
		Net:   uint32(c.Network),
	}
	return json.Marshal(pc)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *ParameterContext) UnmarshalJSON(data []byte) error {
	pc := new(paramContext)
	if err := json.Unmarshal(data, pc); err != nil {
		return err
	}

	if pc.Type != TransactionType {
		return fmt.Errorf("unsupported type: %s", pc.Type)
	}
	tx := new(transaction.Transaction)
	err := tx.DecodeHashableFields(pc.Data)
	if err != nil {
		return err
	}
	items := make(map[util.Uint160]*Item, len(pc.Items))
	for h := range pc.Items {
		u, err := util.Uint160DecodeStringLE(strings.TrimPrefix(h, "0x"))
		if err != nil {
			return err
		}
		item := new(Item)
		if err := json.Unmarshal(pc.Items[h], item); err != nil {
			return err
		}
		items[u] = item
	}
	c.Type = pc.Type
	c.Network = netmode.Magic(pc.Net)
	c.Verifiable = tx
	c.Items = items
	return nil
}
