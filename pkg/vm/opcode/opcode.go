package opcode

import "fmt"

// Opcode represents a single operation code for the NEO virtual machine.
type Opcode byte

// Instructions used by script building and verification script parsing.
const (
	// Constants
	PUSHINT8   Opcode = 0x00
	PUSHINT16  Opcode = 0x01
	PUSHINT32  Opcode = 0x02
	PUSHINT64  Opcode = 0x03
	PUSHINT128 Opcode = 0x04
	PUSHINT256 Opcode = 0x05
	PUSHT      Opcode = 0x08
	PUSHF      Opcode = 0x09
	PUSHA      Opcode = 0x0A
	PUSHNULL   Opcode = 0x0B
	PUSHDATA1  Opcode = 0x0C
	PUSHDATA2  Opcode = 0x0D
	PUSHDATA4  Opcode = 0x0E
	PUSHM1     Opcode = 0x0F
	PUSH0      Opcode = 0x10
	PUSH1      Opcode = 0x11
	PUSH2      Opcode = 0x12
	PUSH3      Opcode = 0x13
	PUSH4      Opcode = 0x14
	PUSH5      Opcode = 0x15
	PUSH6      Opcode = 0x16
	PUSH7      Opcode = 0x17
	PUSH8      Opcode = 0x18
	PUSH9      Opcode = 0x19
	PUSH10     Opcode = 0x1A
	PUSH11     Opcode = 0x1B
	PUSH12     Opcode = 0x1C
	PUSH13     Opcode = 0x1D
	PUSH14     Opcode = 0x1E
	PUSH15     Opcode = 0x1F
	PUSH16     Opcode = 0x20

	// Flow control
	NOP     Opcode = 0x21
	JMP     Opcode = 0x22
	JMPL    Opcode = 0x23
	JMPIF   Opcode = 0x24
	JMPIFL  Opcode = 0x25
	CALL    Opcode = 0x34
	CALLL   Opcode = 0x35
	ABORT   Opcode = 0x38
	ASSERT  Opcode = 0x39
	THROW   Opcode = 0x3A
	RET     Opcode = 0x40
	SYSCALL Opcode = 0x41

	// Stack
	DEPTH Opcode = 0x43
	DROP  Opcode = 0x45
	NIP   Opcode = 0x46
	CLEAR Opcode = 0x49
	DUP   Opcode = 0x4A
	OVER  Opcode = 0x4B
	SWAP  Opcode = 0x50
	ROT   Opcode = 0x51

	// Splice
	NEWBUFFER Opcode = 0x88
	CAT       Opcode = 0x8B

	// Bitwise logic
	EQUAL    Opcode = 0x97
	NOTEQUAL Opcode = 0x98

	// Arithmetic
	ADD Opcode = 0x9E
	SUB Opcode = 0x9F
	NOT Opcode = 0xAA

	// Advanced data structures (arrays, structures, maps)
	PACKMAP    Opcode = 0xBE
	PACKSTRUCT Opcode = 0xBF
	PACK       Opcode = 0xC0
	UNPACK     Opcode = 0xC1
	NEWARRAY0  Opcode = 0xC2
	NEWARRAY   Opcode = 0xC3
	NEWSTRUCT0 Opcode = 0xC5
	NEWMAP     Opcode = 0xC8
	SIZE       Opcode = 0xCA
	PICKITEM   Opcode = 0xCE
	APPEND     Opcode = 0xCF
	SETITEM    Opcode = 0xD0

	// Types
	ISNULL  Opcode = 0xD8
	ISTYPE  Opcode = 0xD9
	CONVERT Opcode = 0xDB
)

var names = map[Opcode]string{
	PUSHINT8: "PUSHINT8", PUSHINT16: "PUSHINT16", PUSHINT32: "PUSHINT32",
	PUSHINT64: "PUSHINT64", PUSHINT128: "PUSHINT128", PUSHINT256: "PUSHINT256",
	PUSHT: "PUSHT", PUSHF: "PUSHF", PUSHA: "PUSHA", PUSHNULL: "PUSHNULL",
	PUSHDATA1: "PUSHDATA1", PUSHDATA2: "PUSHDATA2", PUSHDATA4: "PUSHDATA4",
	PUSHM1: "PUSHM1", PUSH0: "PUSH0", PUSH1: "PUSH1", PUSH2: "PUSH2", PUSH3: "PUSH3",
	PUSH4: "PUSH4", PUSH5: "PUSH5", PUSH6: "PUSH6", PUSH7: "PUSH7", PUSH8: "PUSH8",
	PUSH9: "PUSH9", PUSH10: "PUSH10", PUSH11: "PUSH11", PUSH12: "PUSH12",
	PUSH13: "PUSH13", PUSH14: "PUSH14", PUSH15: "PUSH15", PUSH16: "PUSH16",
	NOP: "NOP", JMP: "JMP", JMPL: "JMPL", JMPIF: "JMPIF", JMPIFL: "JMPIFL",
	CALL: "CALL", CALLL: "CALLL", ABORT: "ABORT", ASSERT: "ASSERT", THROW: "THROW",
	RET: "RET", SYSCALL: "SYSCALL",
	DEPTH: "DEPTH", DROP: "DROP", NIP: "NIP", CLEAR: "CLEAR", DUP: "DUP",
	OVER: "OVER", SWAP: "SWAP", ROT: "ROT",
	NEWBUFFER: "NEWBUFFER", CAT: "CAT", EQUAL: "EQUAL", NOTEQUAL: "NOTEQUAL",
	ADD: "ADD", SUB: "SUB", NOT: "NOT",
	PACKMAP: "PACKMAP", PACKSTRUCT: "PACKSTRUCT", PACK: "PACK", UNPACK: "UNPACK",
	NEWARRAY0: "NEWARRAY0", NEWARRAY: "NEWARRAY", NEWSTRUCT0: "NEWSTRUCT0",
	NEWMAP: "NEWMAP", SIZE: "SIZE", PICKITEM: "PICKITEM", APPEND: "APPEND",
	SETITEM: "SETITEM", ISNULL: "ISNULL", ISTYPE: "ISTYPE", CONVERT: "CONVERT",
}

// String implements the Stringer interface.
func (op Opcode) String() string {
	if s, ok := names[op]; ok {
		return s
	}
	return fmt.Sprintf("Opcode(%d)", byte(op))
}

// FromString converts a string representation to an opcode.
func FromString(s string) (Opcode, error) {
	for op, name := range names {
		if name == s {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown opcode: %s", s)
}
