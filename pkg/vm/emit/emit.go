package emit

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
	"math/bits"

	"github.com/nspcc-dev/neorpc-go/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/opcode"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/stackitem"
)

// ErrUnsupportedType is set as a writer error when a value can't be
// represented in a script.
var ErrUnsupportedType = errors.New("unsupported type")

// Instruction emits a VM Instruction with data to the given buffer.
func Instruction(w *io.BinWriter, op opcode.Opcode, b []byte) {
	w.WriteB(byte(op))
	w.WriteBytes(b)
}

// Opcodes emits a single VM Instruction without arguments to the given buffer.
func Opcodes(w *io.BinWriter, ops ...opcode.Opcode) {
	for _, op := range ops {
		w.WriteB(byte(op))
	}
}

// Bool emits a bool type to the given buffer.
func Bool(w *io.BinWriter, ok bool) {
	var opVal = opcode.PUSHT
	if !ok {
		opVal = opcode.PUSHF
	}
	Opcodes(w, opVal)
}

func padRight(s int, buf []byte) []byte {
	l := len(buf)
	res := make([]byte, s)
	copy(res, buf)
	if buf[l-1]&0x80 != 0 {
		for i := l; i < s; i++ {
			res[i] = 0xFF
		}
	}
	return res
}

// Int emits an int type to the given buffer.
func Int(w *io.BinWriter, i int64) {
	if smallInt(w, i) {
		return
	}
	bigInt(w, big.NewInt(i))
}

// BigInt emits a big-integer to the given buffer.
func BigInt(w *io.BinWriter, n *big.Int) {
	if w.Err != nil {
		return
	}
	if n.IsInt64() && smallInt(w, n.Int64()) {
		return
	}
	bigInt(w, n)
}

func smallInt(w *io.BinWriter, i int64) bool {
	switch {
	case i == -1:
		Opcodes(w, opcode.PUSHM1)
	case i >= 0 && i <= 16:
		val := opcode.PUSH0 + opcode.Opcode(i)
		Opcodes(w, val)
	default:
		return false
	}
	return true
}

func bigInt(w *io.BinWriter, n *big.Int) {
	buf := bigint.ToBytes(n)
	if len(buf) > bigint.MaxBytesLen {
		w.Err = fmt.Errorf("%w: integer is too big", ErrUnsupportedType)
		return
	}
	// Two's complement form never has zero length for non-small values.
	padSize := byte(8 - bits.LeadingZeros8(byte(len(buf)-1)))
	Opcodes(w, opcode.PUSHINT8+opcode.Opcode(padSize))
	w.WriteBytes(padRight(1<<padSize, buf))
}

// Array emits an array of elements to the given buffer. Elements are pushed in
// reverse order so that the first one ends up on the top before PACK.
func Array(w *io.BinWriter, es ...any) {
	if len(es) == 0 {
		Opcodes(w, opcode.NEWARRAY0)
		return
	}
	for i := len(es) - 1; i >= 0; i-- {
		Any(w, es[i])
		if w.Err != nil {
			return
		}
	}
	Int(w, int64(len(es)))
	Opcodes(w, opcode.PACK)
}

// Any emits a single value of any supported type to the given buffer.
func Any(w *io.BinWriter, e any) {
	switch e := e.(type) {
	case []any:
		Array(w, e...)
	case int64:
		Int(w, e)
	case uint64:
		BigInt(w, new(big.Int).SetUint64(e))
	case int32:
		Int(w, int64(e))
	case uint32:
		Int(w, int64(e))
	case int16:
		Int(w, int64(e))
	case uint16:
		Int(w, int64(e))
	case int8:
		Int(w, int64(e))
	case uint8:
		Int(w, int64(e))
	case int:
		Int(w, int64(e))
	case *big.Int:
		BigInt(w, e)
	case string:
		String(w, e)
	case util.Uint160:
		Bytes(w, e.BytesBE())
	case util.Uint256:
		Bytes(w, e.BytesBE())
	case *util.Uint160:
		if e == nil {
			Opcodes(w, opcode.PUSHNULL)
		} else {
			Bytes(w, e.BytesBE())
		}
	case *util.Uint256:
		if e == nil {
			Opcodes(w, opcode.PUSHNULL)
		} else {
			Bytes(w, e.BytesBE())
		}
	case []byte:
		Bytes(w, e)
	case bool:
		Bool(w, e)
	case stackitem.Item:
		StackItem(w, e)
	default:
		if e != nil {
			w.Err = fmt.Errorf("%w: %T", ErrUnsupportedType, e)
			return
		}
		Opcodes(w, opcode.PUSHNULL)
	}
}

// StackItem emits a stack item that can be used as a constant value in a
// script. Interop and pointer items are not supported.
func StackItem(w *io.BinWriter, si stackitem.Item) {
	if w.Err != nil {
		return
	}
	switch t := si.(type) {
	case stackitem.Null:
		Opcodes(w, opcode.PUSHNULL)
	case stackitem.Bool:
		Bool(w, bool(t))
	case *stackitem.BigInteger:
		BigInt(w, t.Big())
	case *stackitem.ByteArray:
		Bytes(w, *t)
	case *stackitem.Buffer:
		Bytes(w, *t)
		Opcodes(w, opcode.CONVERT)
		w.WriteB(byte(stackitem.BufferT))
	case *stackitem.Array, *stackitem.Struct:
		items := t.Value().([]stackitem.Item)
		for i := len(items) - 1; i >= 0; i-- {
			StackItem(w, items[i])
		}
		Int(w, int64(len(items)))
		if t.Type() == stackitem.ArrayT {
			Opcodes(w, opcode.PACK)
		} else {
			Opcodes(w, opcode.PACKSTRUCT)
		}
	case *stackitem.Map:
		elems := t.Value().([]stackitem.MapElement)
		for i := len(elems) - 1; i >= 0; i-- {
			StackItem(w, elems[i].Value)
			StackItem(w, elems[i].Key)
		}
		Int(w, int64(len(elems)))
		Opcodes(w, opcode.PACKMAP)
	default:
		w.Err = fmt.Errorf("%w: %s", ErrUnsupportedType, si.Type())
	}
}

// String emits a string to the given buffer.
func String(w *io.BinWriter, s string) {
	Bytes(w, []byte(s))
}

// Bytes emits a byte array to the given buffer.
func Bytes(w *io.BinWriter, b []byte) {
	var n = len(b)

	switch {
	case n < 0x100:
		Instruction(w, opcode.PUSHDATA1, []byte{byte(n)})
	case n < 0x10000:
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(n))
		Instruction(w, opcode.PUSHDATA2, buf)
	default:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n))
		Instruction(w, opcode.PUSHDATA4, buf)
	}
	w.WriteBytes(b)
}

// Syscall emits the syscall API to the given buffer.
// Syscall API string cannot be 0.
func Syscall(w *io.BinWriter, api string) {
	if w.Err != nil {
		return
	} else if len(api) == 0 {
		w.Err = errors.New("syscall api cannot be of length 0")
		return
	}
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, interopnames.ToID([]byte(api)))
	Instruction(w, opcode.SYSCALL, buf)
}

// AppCall emits SYSCALL with System.Contract.Call parameter for the given contract, method
// and call flags. Arguments are packed into an array first.
func AppCall(w *io.BinWriter, scriptHash util.Uint160, operation string, f callflag.CallFlag, args ...any) {
	Array(w, args...)
	Int(w, int64(f))
	String(w, operation)
	Bytes(w, scriptHash.BytesBE())
	Syscall(w, interopnames.SystemContractCall)
}

// CheckSig emits a single-key verification script using given []bytes as a key.
// It does not check for key correctness, so you can get an invalid script if the
// data passed is not really a public key.
func CheckSig(w *io.BinWriter, key []byte) {
	Bytes(w, key)
	Syscall(w, interopnames.SystemCryptoCheckSig)
}
