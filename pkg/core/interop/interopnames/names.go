/*
Package interopnames contains the names of the system calls a client emits into
scripts or needs to recognize in standard verification scripts.
*/
package interopnames

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
)

// Names of the interops used by client-side scripts.
const (
	SystemContractCall                  = "System.Contract.Call"
	SystemContractCreateMultisigAccount = "System.Contract.CreateMultisigAccount"
	SystemContractCreateStandardAccount = "System.Contract.CreateStandardAccount"
	SystemCryptoCheckMultisig           = "System.Crypto.CheckMultisig"
	SystemCryptoCheckSig                = "System.Crypto.CheckSig"
	SystemIteratorNext                  = "System.Iterator.Next"
	SystemIteratorValue                 = "System.Iterator.Value"
	SystemRuntimeCheckWitness           = "System.Runtime.CheckWitness"
	SystemRuntimeLog                    = "System.Runtime.Log"
	SystemRuntimeNotify                 = "System.Runtime.Notify"
)

var names = []string{
	SystemContractCall,
	SystemContractCreateMultisigAccount,
	SystemContractCreateStandardAccount,
	SystemCryptoCheckMultisig,
	SystemCryptoCheckSig,
	SystemIteratorNext,
	SystemIteratorValue,
	SystemRuntimeCheckWitness,
	SystemRuntimeLog,
	SystemRuntimeNotify,
}

var errNotFound = errors.New("interop not found")

// ToID returns an identificator of the method based on its name.
func ToID(name []byte) uint32 {
	h := sha256.Sum256(name)
	return binary.LittleEndian.Uint32(h[:4])
}

// FromID returns the interop name from its ID.
func FromID(id uint32) (string, error) {
	for i := range names {
		if id == ToID([]byte(names[i])) {
			return names[i], nil
		}
	}
	return "", errNotFound
}
