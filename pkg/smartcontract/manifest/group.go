package manifest

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neorpc-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

// Group represents a group of smartcontracts identified by a public key.
// Every SC in a group must provide signature of its hash to prove
// it belongs to the group.
type Group struct {
	PublicKey *keys.PublicKey `json:"pubkey"`
	Signature []byte          `json:"signature"`
}

// Groups is just an array of Group.
type Groups []Group

type groupAux struct {
	PublicKey string `json:"pubkey"`
	Signature []byte `json:"signature"`
}

// NewGroup signs the contract hash with the given key producing a group
// entry for the manifest.
func NewGroup(priv *keys.PrivateKey, h util.Uint160) Group {
	return Group{
		PublicKey: priv.PublicKey(),
		Signature: priv.Sign(h.BytesBE()),
	}
}

// IsValid checks whether group's signature corresponds to the given hash.
func (g *Group) IsValid(h util.Uint160) error {
	if g.PublicKey == nil {
		return errors.New("no public key")
	}
	if !g.PublicKey.Verify(g.Signature, hash.Sha256(h.BytesBE()).BytesBE()) {
		return errors.New("incorrect group signature")
	}
	return nil
}

// AreValid checks for groups correctness and uniqueness.
// If the contract hash is empty, then hash-related checks are omitted.
func (g Groups) AreValid(h util.Uint160) error {
	if !h.Equals(util.Uint160{}) {
		for i := range g {
			err := g[i].IsValid(h)
			if err != nil {
				return fmt.Errorf("group #%d: %w", i, err)
			}
		}
	}
	for i := range g {
		for j := i + 1; j < len(g); j++ {
			if g[i].PublicKey.Equal(g[j].PublicKey) {
				return errors.New("duplicate group keys")
			}
		}
	}
	return nil
}

// Contains checks if the given public key belongs to some of the groups.
func (g Groups) Contains(k *keys.PublicKey) bool {
	for i := range g {
		if k.Equal(g[i].PublicKey) {
			return true
		}
	}
	return false
}

// MarshalJSON implements the json.Marshaler interface.
func (g Group) MarshalJSON() ([]byte, error) {
	if g.PublicKey == nil {
		return nil, errors.New("group without a public key")
	}
	aux := &groupAux{
		PublicKey: hex.EncodeToString(g.PublicKey.Bytes()),
		Signature: g.Signature,
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (g *Group) UnmarshalJSON(data []byte) error {
	aux := new(groupAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	pub, err := keys.NewPublicKeyFromString(aux.PublicKey)
	if err != nil {
		return err
	}
	g.PublicKey = pub
	if len(aux.Signature) != keys.SignatureLen {
		return errors.New("wrong signature length")
	}
	g.Signature = aux.Signature
	return nil
}
