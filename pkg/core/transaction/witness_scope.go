package transaction

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// WitnessScope represents set of witness flags for Transaction signer.
type WitnessScope byte

const (
	// None specifies that no contract was witnessed. Only sign the transaction.
	None WitnessScope = 0
	// CalledByEntry means that this condition must hold: EntryScriptHash == CallingScriptHash.
	// No params is needed, as the witness/permission/signature given on first invocation will
	// automatically expire if entering deeper internal invokes. This can be default safe
	// choice for native NEO/GAS.
	CalledByEntry WitnessScope = 0x01
	// CustomContracts define custom hash for contract-specific.
	CustomContracts WitnessScope = 0x10
	// CustomGroups define custom pubkey for group members.
	CustomGroups WitnessScope = 0x20
	// Global allows this witness in all contexts. This cannot be combined with other flags.
	Global WitnessScope = 0x80
)

var scopeNames = []struct {
	scope WitnessScope
	name  string
}{
	{CalledByEntry, "CalledByEntry"},
	{CustomContracts, "CustomContracts"},
	{CustomGroups, "CustomGroups"},
}

// ErrGlobalCombined is returned when the Global scope is combined with others.
var ErrGlobalCombined = errors.New("global scope can not be combined with other scopes")

// ScopesFromString converts a string of comma-separated scopes to a set of scopes
// (case-sensitive). String can combine several scopes, e.g. be any of: 'Global',
// 'CalledByEntry,CustomGroups' etc. In case of an empty string an error is
// returned.
func ScopesFromString(s string) (WitnessScope, error) {
	var result WitnessScope
	var isGlobal bool
	for _, scopeStr := range strings.Split(s, ",") {
		var scope WitnessScope
		switch scopeStr = strings.TrimSpace(scopeStr); scopeStr {
		case "Global":
			scope = Global
		case "None":
			scope = None
		default:
			var found bool
			for _, sn := range scopeNames {
				if sn.name == scopeStr {
					scope, found = sn.scope, true
					break
				}
			}
			if !found {
				return result, fmt.Errorf("invalid witness scope: %v", scopeStr)
			}
		}
		if isGlobal && scope != Global || scope == Global && result != None {
			return result, ErrGlobalCombined
		}
		result |= scope
		if scope == Global {
			isGlobal = true
		}
	}
	return result, nil
}

// String implements the fmt.Stringer interface. It uses `, ` to separate
// scope names.
func (s WitnessScope) String() string {
	switch {
	case s == None:
		return "None"
	case s == Global:
		return "Global"
	}
	var res []string
	for _, sn := range scopeNames {
		if s&sn.scope != 0 {
			res = append(res, sn.name)
		}
	}
	if rest := s &^ (CalledByEntry | CustomContracts | CustomGroups); rest != 0 {
		res = append(res, fmt.Sprintf("0x%02x", byte(rest)))
	}
	return strings.Join(res, ", ")
}

// MarshalJSON implements the json.Marshaler interface.
func (s WitnessScope) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *WitnessScope) UnmarshalJSON(data []byte) error {
	var js string
	if err := json.Unmarshal(data, &js); err != nil {
		return err
	}
	scopes, err := ScopesFromString(js)
	if err != nil {
		return err
	}
	*s = scopes
	return nil
}
