package result

import (
	"encoding/json"
	"math/big"

	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
)

// Validator is used for the representation of consensus node data in the JSON-RPC
// protocol.
type Validator struct {
	PublicKey keys.PublicKey
	Votes     *big.Int
}

// Candidate represents a node participating in the governance elections, it's
// active when it's a validator (consensus node).
type Candidate struct {
	PublicKey keys.PublicKey
	Votes     *big.Int
	Active    bool
}

type candidateAux struct {
	PublicKey *string `json:"publickey"`
	Votes     string  `json:"votes"`
	Active    *bool   `json:"active,omitempty"`
}

func (a *candidateAux) decode() (*keys.PublicKey, *big.Int, error) {
	if a.PublicKey == nil {
		return nil, nil, fieldError("publickey", errMissing)
	}
	pub, err := keys.NewPublicKeyFromString(*a.PublicKey)
	if err != nil {
		return nil, nil, fieldError("publickey", err)
	}
	votes, err := parseAmount(a.Votes)
	if err != nil {
		return nil, nil, fieldError("votes", err)
	}
	return pub, votes, nil
}

// MarshalJSON implements the json.Marshaler interface.
func (v Validator) MarshalJSON() ([]byte, error) {
	pub := v.PublicKey.StringCompressed()
	return json.Marshal(candidateAux{PublicKey: &pub, Votes: amountString(v.Votes)})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (v *Validator) UnmarshalJSON(data []byte) error {
	aux := new(candidateAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	pub, votes, err := aux.decode()
	if err != nil {
		return err
	}
	*v = Validator{PublicKey: *pub, Votes: votes}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (c Candidate) MarshalJSON() ([]byte, error) {
	pub := c.PublicKey.StringCompressed()
	return json.Marshal(candidateAux{PublicKey: &pub, Votes: amountString(c.Votes), Active: &c.Active})
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *Candidate) UnmarshalJSON(data []byte) error {
	aux := new(candidateAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	pub, votes, err := aux.decode()
	if err != nil {
		return err
	}
	*c = Candidate{PublicKey: *pub, Votes: votes}
	if aux.Active != nil {
		c.Active = *aux.Active
	}
	return nil
}
