/*
Package nativehashes contains hashes of all native contracts in their LE
and Uint160 representation.
*/
package nativehashes

import "github.com/nspcc-dev/neorpc-go/pkg/util"

// Hashes of all native contracts.
var (
	// ContractManagement is a hash of native ContractManagement contract.
	ContractManagement = mustDecode("fffdc93764dbaddd97c48f252a53ea4643faa3fd")
	// StdLib is a hash of native StdLib contract.
	StdLib = mustDecode("acce6fd80d44e1796aa0c2c625e9e4e0ce39efc0")
	// CryptoLib is a hash of native CryptoLib contract.
	CryptoLib = mustDecode("726cb6e0cd8628a1350a611384688911ab75f51b")
	// LedgerContract is a hash of native LedgerContract contract.
	LedgerContract = mustDecode("da65b600f7124ce6c79950c1772a36403104f2be")
	// NeoToken is a hash of native NeoToken contract.
	NeoToken = mustDecode("ef4073a0f2b305a38ec4050e4d3d28bc40ea63f5")
	// GasToken is a hash of native GasToken contract.
	GasToken = mustDecode("d2a4cff31913016155e38e474a2c06d08be276cf")
	// PolicyContract is a hash of native PolicyContract contract.
	PolicyContract = mustDecode("cc5e4edd9f5f8dba8bb65734541df7a1c081c67b")
	// RoleManagement is a hash of native RoleManagement contract.
	RoleManagement = mustDecode("49cf4e5378ffcd4dec034fd98a174c5491e395e2")
	// OracleContract is a hash of native OracleContract contract.
	OracleContract = mustDecode("fe924b7cfe89ddd271abaf7210a80a7e11178758")
)

func mustDecode(s string) util.Uint160 {
	u, err := util.Uint160DecodeStringLE(s)
	if err != nil {
		panic(err)
	}
	return u
}
