// Package vm contains the bits of NeoVM knowledge a client needs: recognition
// of standard verification scripts. Scripts are never executed locally.
package vm

import (
	"encoding/binary"

	"github.com/nspcc-dev/neorpc-go/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/opcode"
)

// MaxMultisigKeys is the maximum number of keys allowed for a correct
// multisig contract.
const MaxMultisigKeys = 1024

var (
	verifyInteropID   = interopnames.ToID([]byte(interopnames.SystemCryptoCheckSig))
	multisigInteropID = interopnames.ToID([]byte(interopnames.SystemCryptoCheckMultisig))
)

// instrReader walks over a script one instruction at a time. It only
// understands the instructions used by standard verification scripts.
type instrReader struct {
	script []byte
	ip     int
}

func (r *instrReader) next() (opcode.Opcode, []byte, bool) {
	if r.ip >= len(r.script) {
		return 0, nil, false
	}
	op := opcode.Opcode(r.script[r.ip])
	r.ip++
	var n int
	switch {
	case op == opcode.PUSHINT8:
		n = 1
	case op == opcode.PUSHINT16:
		n = 2
	case op == opcode.SYSCALL:
		n = 4
	case op == opcode.PUSHDATA1:
		if r.ip >= len(r.script) {
			return 0, nil, false
		}
		n = int(r.script[r.ip])
		r.ip++
	case op == opcode.PUSHDATA2:
		if r.ip+2 > len(r.script) {
			return 0, nil, false
		}
		n = int(binary.LittleEndian.Uint16(r.script[r.ip:]))
		r.ip += 2
	case op >= opcode.PUSHM1 && op <= opcode.PUSH16:
	default:
		return 0, nil, false
	}
	if r.ip+n > len(r.script) {
		return 0, nil, false
	}
	param := r.script[r.ip : r.ip+n]
	r.ip += n
	return op, param, true
}

func getNumOfThingsFromInstr(op opcode.Opcode, param []byte) (int, bool) {
	var nthings int

	switch {
	case opcode.PUSH1 <= op && op <= opcode.PUSH16:
		nthings = int(op-opcode.PUSH1) + 1
	case op == opcode.PUSHINT8:
		nthings = int(int8(param[0]))
	case op == opcode.PUSHINT16:
		nthings = int(int16(binary.LittleEndian.Uint16(param)))
	default:
		return 0, false
	}
	if nthings < 1 || nthings > MaxMultisigKeys {
		return 0, false
	}
	return nthings, true
}

// IsMultiSigContract checks whether the passed script is a multi-signature
// contract.
func IsMultiSigContract(script []byte) bool {
	_, _, ok := ParseMultiSigContract(script)
	return ok
}

// ParseMultiSigContract returns the number of signatures and a list of public keys
// from the verification script of the contract.
func ParseMultiSigContract(script []byte) (int, [][]byte, bool) {
	var nsigs, nkeys int

	r := &instrReader{script: script}
	op, param, ok := r.next()
	if !ok {
		return nsigs, nil, false
	}
	nsigs, ok = getNumOfThingsFromInstr(op, param)
	if !ok {
		return nsigs, nil, false
	}
	var pubs [][]byte
	for {
		op, param, ok = r.next()
		if !ok {
			return nsigs, nil, false
		}
		if op != opcode.PUSHDATA1 {
			break
		}
		if len(param) < 33 {
			return nsigs, nil, false
		}
		pubs = append(pubs, param)
		nkeys++
		if nkeys > MaxMultisigKeys {
			return nsigs, nil, false
		}
	}
	if nkeys < nsigs {
		return nsigs, nil, false
	}
	nkeys2, ok := getNumOfThingsFromInstr(op, param)
	if !ok || nkeys2 != nkeys {
		return nsigs, nil, false
	}
	op, param, ok = r.next()
	if !ok || op != opcode.SYSCALL || binary.LittleEndian.Uint32(param) != multisigInteropID {
		return nsigs, nil, false
	}
	if r.ip != len(script) {
		return nsigs, nil, false
	}
	return nsigs, pubs, true
}

// IsSignatureContract checks whether the passed script is a signature check
// contract.
func IsSignatureContract(script []byte) bool {
	_, ok := ParseSignatureContract(script)
	return ok
}

// ParseSignatureContract parses a simple signature contract and returns
// a public key.
func ParseSignatureContract(script []byte) ([]byte, bool) {
	if len(script) != 40 {
		return nil, false
	}

	if script[0] != byte(opcode.PUSHDATA1) || script[1] != 33 ||
		script[35] != byte(opcode.SYSCALL) ||
		binary.LittleEndian.Uint32(script[36:40]) != verifyInteropID {
		return nil, false
	}
	return script[2:35], true
}

// IsStandardContract checks whether the passed script is a signature or
// multi-signature contract.
func IsStandardContract(script []byte) bool {
	return IsSignatureContract(script) || IsMultiSigContract(script)
}
