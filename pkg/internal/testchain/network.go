// Package testchain holds the shared fixtures of client tests: the network a
// stub node pretends to serve and keys with predictable values.
package testchain

import (
	"encoding/hex"

	"github.com/nspcc-dev/neorpc-go/pkg/config/netmode"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
)

// privKeys are hex-encoded private keys of the test committee.
var privKeys = []string{
	"a7e6ed50b4ba2b6b7bf8bea8b9a1e1d0a3a1a7a8f2c2dd8e0e7f4e0ef6f1a8a1",
	"b1c3f6a8dbbf4f0d1e3a5c7e9f1b3d5f7a9cbedf0123456789abcdef01234567",
	"1f2e3d4c5b6a79888776655443322110fedcba98765432100123456789abcdef",
	"0a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f9",
}

// Network returns test chain network's magic number.
func Network() netmode.Magic {
	return netmode.UnitTestNet
}

// PrivateKey returns the i-th committee private key.
func PrivateKey(i int) *keys.PrivateKey {
	b, err := hex.DecodeString(privKeys[i])
	if err != nil {
		panic(err)
	}
	priv, err := keys.NewPrivateKeyFromBytes(b)
	if err != nil {
		panic(err)
	}
	return priv
}

// Size returns the number of committee keys.
func Size() int {
	return len(privKeys)
}

// PublicKeys returns public keys of the whole committee.
func PublicKeys() keys.PublicKeys {
	pubs := make(keys.PublicKeys, len(privKeys))
	for i := range privKeys {
		pubs[i] = PrivateKey(i).PublicKey()
	}
	return pubs
}
