package transaction

import (
	"errors"

	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

// The maximum number of AllowedContracts or AllowedGroups.
const maxSubitems = 16

// Signer implements a Transaction signer.
type Signer struct {
	Account          util.Uint160      `json:"account"`
	Scopes           WitnessScope      `json:"scopes"`
	AllowedContracts []util.Uint160    `json:"allowedcontracts,omitempty"`
	AllowedGroups    []*keys.PublicKey `json:"allowedgroups,omitempty"`
}

// EncodeBinary implements the Serializable interface.
func (c *Signer) EncodeBinary(bw *io.BinWriter) {
	bw.WriteBytes(c.Account[:])
	bw.WriteB(byte(c.Scopes))
	if c.Scopes&CustomContracts != 0 {
		bw.WriteVarUint(uint64(len(c.AllowedContracts)))
		for i := range c.AllowedContracts {
			c.AllowedContracts[i].EncodeBinary(bw)
		}
	}
	if c.Scopes&CustomGroups != 0 {
		bw.WriteVarUint(uint64(len(c.AllowedGroups)))
		for _, g := range c.AllowedGroups {
			g.EncodeBinary(bw)
		}
	}
}

// DecodeBinary implements the Serializable interface.
func (c *Signer) DecodeBinary(br *io.BinReader) {
	br.ReadBytes(c.Account[:])
	c.Scopes = WitnessScope(br.ReadB())
	if br.Err != nil {
		return
	}
	if c.Scopes & ^(Global|CalledByEntry|CustomContracts|CustomGroups|None) != 0 {
		br.Err = errors.New("unknown witness scope")
		return
	}
	if c.Scopes&Global != 0 && c.Scopes != Global {
		br.Err = ErrGlobalCombined
		return
	}
	if c.Scopes&CustomContracts != 0 {
		io.ReadArray(br, &c.AllowedContracts, maxSubitems)
	}
	if c.Scopes&CustomGroups != 0 {
		var groups []keys.PublicKey
		io.ReadArray(br, &groups, maxSubitems)
		c.AllowedGroups = make([]*keys.PublicKey, len(groups))
		for i := range groups {
			c.AllowedGroups[i] = &groups[i]
		}
	}
}

// Copy creates a deep copy of the Signer.
func (c *Signer) Copy() *Signer {
	if c == nil {
		return nil
	}
	cp := *c
	if c.AllowedContracts != nil {
		cp.AllowedContracts = make([]util.Uint160, len(c.AllowedContracts))
		copy(cp.AllowedContracts, c.AllowedContracts)
	}
	cp.AllowedGroups = keys.PublicKeys(c.AllowedGroups).Copy()
	return &cp
}
