/*
Package manifest contains the contract manifest: the JSON document describing
methods, events and permissions of a contract. It's passed along with the NEF
file when the contract is deployed.
*/
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

const (
	// MaxManifestSize is a max length for a valid contract manifest.
	MaxManifestSize = math.MaxUint16

	// NEP11StandardName represents the name of NEP-11 smartcontract standard.
	NEP11StandardName = "NEP-11"
	// NEP17StandardName represents the name of NEP-17 smartcontract standard.
	NEP17StandardName = "NEP-17"
	// NEP11Payable represents the name of contract interface which can receive NEP-11 tokens.
	NEP11Payable = "NEP-11-Payable"
	// NEP17Payable represents the name of contract interface which can receive NEP-17 tokens.
	NEP17Payable = "NEP-17-Payable"

	emptyFeatures = "{}"
)

// Manifest represens contract metadata.
type Manifest struct {
	// Name is a contract's name.
	Name string `json:"name"`
	// Groups is a set of groups to which a contract belongs.
	Groups []Group `json:"groups"`
	// Features is reserved for future use and must be an empty object.
	Features json.RawMessage `json:"features"`
	// SupportedStandards is a list of standards supported by the contract.
	SupportedStandards []string `json:"supportedstandards"`
	// ABI is a contract's ABI.
	ABI ABI `json:"abi"`
	// Permissions is a set of permissions for a contract.
	Permissions []Permission `json:"permissions"`
	// Trusts is a set of hashes to a which contract trusts.
	Trusts WildPermissionDescs `json:"trusts"`
	// Extra is an implementation-defined user data.
	Extra json.RawMessage `json:"extra"`
}

// NewManifest returns a new manifest with necessary fields initialized.
func NewManifest(name string) *Manifest {
	m := &Manifest{
		Name: name,
		ABI: ABI{
			Methods: []Method{},
			Events:  []Event{},
		},
		Groups:             []Group{},
		Permissions:        []Permission{},
		SupportedStandards: []string{},
		Features:           json.RawMessage(emptyFeatures),
		Extra:              json.RawMessage("null"),
	}
	m.Trusts.Restrict()
	return m
}

// DefaultManifest returns the default contract manifest.
func DefaultManifest(name string) *Manifest {
	m := NewManifest(name)
	m.Permissions = []Permission{*NewPermission(PermissionWildcard)}
	return m
}

// CanCall returns true if the current contract is allowed to call
// the method of another contract with the specified hash.
func (m *Manifest) CanCall(hash util.Uint160, toCall *Manifest, method string) bool {
	for i := range m.Permissions {
		if m.Permissions[i].IsAllowed(hash, toCall, method) {
			return true
		}
	}
	return false
}

// IsValid checks manifest internal consistency and correctness, one of the
// checks is for group signature correctness, contract hash is passed for it.
func (m *Manifest) IsValid(hash util.Uint160) error {
	var err error

	if m.Name == "" {
		return errors.New("no name")
	}

	for i := range m.SupportedStandards {
		if m.SupportedStandards[i] == "" {
			return errors.New("invalid nameless supported standard")
		}
	}
	if stringsHaveDups(m.SupportedStandards) {
		return errors.New("duplicate supported standards")
	}
	err = m.ABI.IsValid()
	if err != nil {
		return fmt.Errorf("ABI: %w", err)
	}
	err = Groups(m.Groups).AreValid(hash)
	if err != nil {
		return err
	}
	if len(m.Features) != 0 && string(m.Features) != emptyFeatures {
		return errors.New("invalid features")
	}
	if len(m.Trusts.Value) > 1 {
		if permissionDescsHaveDups(m.Trusts.Value) {
			return errors.New("duplicate trusted contracts")
		}
	}
	err = Permissions(m.Permissions).AreValid()
	if err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if len(data) > MaxManifestSize {
		return fmt.Errorf("manifest is too big: %d", len(data))
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface. Nil collections are
// marshalled as empty ones since the node rejects nulls there.
func (m Manifest) MarshalJSON() ([]byte, error) {
	type manifestAux Manifest
	aux := manifestAux(m)
	if aux.Groups == nil {
		aux.Groups = []Group{}
	}
	if aux.SupportedStandards == nil {
		aux.SupportedStandards = []string{}
	}
	if aux.Permissions == nil {
		aux.Permissions = []Permission{}
	}
	if aux.ABI.Methods == nil {
		aux.ABI.Methods = []Method{}
	}
	if aux.ABI.Events == nil {
		aux.ABI.Events = []Event{}
	}
	if len(aux.Features) == 0 {
		aux.Features = json.RawMessage(emptyFeatures)
	}
	if len(aux.Extra) == 0 {
		aux.Extra = json.RawMessage("null")
	}
	return json.Marshal(aux)
}

// FromJSON decodes the manifest, it's a shorthand for json.Unmarshal
// that also checks the resulting size.
func FromJSON(data []byte) (*Manifest, error) {
	if len(data) > MaxManifestSize {
		return nil, fmt.Errorf("manifest is too big: %d", len(data))
	}
	m := new(Manifest)
	if err := json.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}

func stringsHaveDups(strings []string) bool {
	if len(strings) < 2 {
		return false
	}
	sorted := make([]string, len(strings))
	copy(sorted, strings)
	sort.Strings(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return true
		}
	}
	return false
}

func permissionDescsHaveDups(descs []PermissionDesc) bool {
	sorted := make([]PermissionDesc, len(descs))
	copy(sorted, descs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Less(sorted[j])
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Equals(sorted[i-1]) {
			return true
		}
	}
	return false
}
