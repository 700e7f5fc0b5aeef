package stackitem

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neorpc-go/pkg/encoding/bigint"
)

// Item represents a VM stack item as it is returned by the node in
// invocation results. Items are read-only projections, they're never executed
// or mutated on the client side.
type Item interface {
	fmt.Stringer
	Value() any
	// TryBool converts Item to a boolean value.
	TryBool() (bool, error)
	// TryBytes converts Item to a byte slice. If the underlying type is a
	// byte slice, it's returned as is without copying.
	TryBytes() ([]byte, error)
	// TryInteger converts Item to an integer.
	TryInteger() (*big.Int, error)
	// Equals checks if 2 StackItems are equal.
	Equals(s Item) bool
	// Type returns stack item type.
	Type() Type
}

// ErrInvalidConversion is returned upon an attempt to make an incorrect
// conversion between item types.
var ErrInvalidConversion = errors.New("invalid conversion")

func mkInvConversion(from Item, to Type) error {
	return fmt.Errorf("%w: %s/%s", ErrInvalidConversion, from.Type(), to)
}

// Make tries to make an appropriate stack item from the provided value.
// It will panic if it's not possible.
func Make(v any) Item {
	switch val := v.(type) {
	case int:
		return NewBigInteger(big.NewInt(int64(val)))
	case int64:
		return NewBigInteger(big.NewInt(val))
	case uint32:
		return NewBigInteger(big.NewInt(int64(val)))
	case *big.Int:
		return NewBigInteger(val)
	case Item:
		return val
	case []byte:
		return NewByteArray(val)
	case string:
		return NewByteArray([]byte(val))
	case bool:
		return NewBool(val)
	case []Item:
		return NewArray(val)
	case []any:
		res := make([]Item, len(val))
		for i := range val {
			res[i] = Make(val[i])
		}
		return NewArray(res)
	case nil:
		return Null{}
	default:
		panic(fmt.Sprintf("invalid stack item type: %v (%T)", val, val))
	}
}

// Null represents null on the stack.
type Null struct{}

// String implements the Item interface.
func (i Null) String() string { return "Any" }

// Value implements the Item interface.
func (i Null) Value() any { return nil }

// TryBool implements the Item interface.
func (i Null) TryBool() (bool, error) { return false, nil }

// TryBytes implements the Item interface.
func (i Null) TryBytes() ([]byte, error) { return nil, mkInvConversion(i, ByteArrayT) }

// TryInteger implements the Item interface.
func (i Null) TryInteger() (*big.Int, error) { return nil, mkInvConversion(i, IntegerT) }

// Equals implements the Item interface.
func (i Null) Equals(s Item) bool {
	_, ok := s.(Null)
	return ok
}

// Type implements the Item interface.
func (i Null) Type() Type { return AnyT }

// BigInteger represents a big integer on the stack.
type BigInteger big.Int

// NewBigInteger returns a new BigInteger object.
func NewBigInteger(value *big.Int) *BigInteger {
	return (*BigInteger)(value)
}

// Big casts i to the big.Int type.
func (i *BigInteger) Big() *big.Int {
	return (*big.Int)(i)
}

// TryBool implements the Item interface.
func (i *BigInteger) TryBool() (bool, error) { return i.Big().Sign() != 0, nil }

// TryBytes implements the Item interface.
func (i *BigInteger) TryBytes() ([]byte, error) { return bigint.ToBytes(i.Big()), nil }

// TryInteger implements the Item interface.
func (i *BigInteger) TryInteger() (*big.Int, error) { return i.Big(), nil }

// Equals implements the Item interface.
func (i *BigInteger) Equals(s Item) bool {
	val, ok := s.(*BigInteger)
	return ok && i.Big().Cmp(val.Big()) == 0
}

// Value implements the Item interface.
func (i *BigInteger) Value() any { return i.Big() }

// String implements the Item interface.
func (i *BigInteger) String() string { return "BigInteger" }

// Type implements the Item interface.
func (i *BigInteger) Type() Type { return IntegerT }

// Bool represents a boolean Item.
type Bool bool

// NewBool returns a new Bool object.
func NewBool(val bool) Bool { return Bool(val) }

// Value implements the Item interface.
func (i Bool) Value() any { return bool(i) }

// String implements the Item interface.
func (i Bool) String() string { return "Boolean" }

// TryBool implements the Item interface.
func (i Bool) TryBool() (bool, error) { return bool(i), nil }

// TryBytes implements the Item interface.
func (i Bool) TryBytes() ([]byte, error) {
	if i {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

// TryInteger implements the Item interface.
func (i Bool) TryInteger() (*big.Int, error) {
	if i {
		return big.NewInt(1), nil
	}
	return big.NewInt(0), nil
}

// Equals implements the Item interface.
func (i Bool) Equals(s Item) bool {
	val, ok := s.(Bool)
	return ok && i == val
}

// Type implements the Item interface.
func (i Bool) Type() Type { return BooleanT }

// ByteArray represents a byte array on the stack.
type ByteArray []byte

// NewByteArray returns a byte array Item.
func NewByteArray(b []byte) *ByteArray {
	return (*ByteArray)(&b)
}

// Value implements the Item interface.
func (i *ByteArray) Value() any { return []byte(*i) }

// String implements the Item interface.
func (i *ByteArray) String() string { return "ByteString" }

// TryBool implements the Item interface.
func (i *ByteArray) TryBool() (bool, error) {
	for _, b := range *i {
		if b != 0 {
			return true, nil
		}
	}
	return false, nil
}

// TryBytes implements the Item interface.
func (i *ByteArray) TryBytes() ([]byte, error) { return *i, nil }

// TryInteger implements the Item interface.
func (i *ByteArray) TryInteger() (*big.Int, error) {
	if len(*i) > bigint.MaxBytesLen {
		return nil, errors.New("integer is too big")
	}
	return bigint.FromBytes(*i), nil
}

// Equals implements the Item interface.
func (i *ByteArray) Equals(s Item) bool {
	val, ok := s.(*ByteArray)
	return ok && bytes.Equal(*i, *val)
}

// Type implements the Item interface.
func (i *ByteArray) Type() Type { return ByteArrayT }

// Buffer represents a mutable byte array on the stack.
type Buffer []byte

// NewBuffer returns a new Buffer object.
func NewBuffer(b []byte) *Buffer {
	return (*Buffer)(&b)
}

// Value implements the Item interface.
func (i *Buffer) Value() any { return []byte(*i) }

// String implements the Item interface.
func (i *Buffer) String() string { return "Buffer" }

// TryBool implements the Item interface.
func (i *Buffer) TryBool() (bool, error) { return true, nil }

// TryBytes implements the Item interface.
func (i *Buffer) TryBytes() ([]byte, error) { return *i, nil }

// TryInteger implements the Item interface.
func (i *Buffer) TryInteger() (*big.Int, error) { return nil, mkInvConversion(i, IntegerT) }

// Equals implements the Item interface. Buffers are compared by reference.
func (i *Buffer) Equals(s Item) bool { return i == s }

// Type implements the Item interface.
func (i *Buffer) Type() Type { return BufferT }

// Array represents a new Array object.
type Array struct {
	value []Item
}

// NewArray returns a new Array object.
func NewArray(items []Item) *Array {
	return &Array{value: items}
}

// Value implements the Item interface.
func (i *Array) Value() any { return i.value }

// Len returns length of the array.
func (i *Array) Len() int { return len(i.value) }

// String implements the Item interface.
func (i *Array) String() string { return "Array" }

// TryBool implements the Item interface.
func (i *Array) TryBool() (bool, error) { return true, nil }

// TryBytes implements the Item interface.
func (i *Array) TryBytes() ([]byte, error) { return nil, mkInvConversion(i, ByteArrayT) }

// TryInteger implements the Item interface.
func (i *Array) TryInteger() (*big.Int, error) { return nil, mkInvConversion(i, IntegerT) }

// Equals implements the Item interface. Results decoded from JSON are
// compared element-wise.
func (i *Array) Equals(s Item) bool {
	val, ok := s.(*Array)
	return ok && equalItems(i.value, val.value)
}

// Type implements the Item interface.
func (i *Array) Type() Type { return ArrayT }

// Struct represents a struct on the stack.
type Struct struct {
	value []Item
}

// NewStruct returns a new Struct object.
func NewStruct(items []Item) *Struct {
	return &Struct{value: items}
}

// Value implements the Item interface.
func (i *Struct) Value() any { return i.value }

// Len returns the length of the struct.
func (i *Struct) Len() int { return len(i.value) }

// String implements the Item interface.
func (i *Struct) String() string { return "Struct" }

// TryBool implements the Item interface.
func (i *Struct) TryBool() (bool, error) { return true, nil }

// TryBytes implements the Item interface.
func (i *Struct) TryBytes() ([]byte, error) { return nil, mkInvConversion(i, ByteArrayT) }

// TryInteger implements the Item interface.
func (i *Struct) TryInteger() (*big.Int, error) { return nil, mkInvConversion(i, IntegerT) }

// Equals implements the Item interface.
func (i *Struct) Equals(s Item) bool {
	val, ok := s.(*Struct)
	return ok && equalItems(i.value, val.value)
}

// Type implements the Item interface.
func (i *Struct) Type() Type { return StructT }

func equalItems(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for j := range a {
		if !a[j].Equals(b[j]) {
			return false
		}
	}
	return true
}

// MapElement is a key-value pair of StackItems.
type MapElement struct {
	Key   Item
	Value Item
}

// Map represents a Map object. Its elements are kept in the order they
// were received.
type Map struct {
	value []MapElement
}

// NewMap returns a new Map object.
func NewMap() *Map {
	return &Map{}
}

// NewMapWithValue returns a new Map object filled with the specified value.
func NewMapWithValue(value []MapElement) *Map {
	return &Map{value: value}
}

// Value implements the Item interface.
func (i *Map) Value() any { return i.value }

// Len returns the length of the map.
func (i *Map) Len() int { return len(i.value) }

// TryBool implements the Item interface.
func (i *Map) TryBool() (bool, error) { return true, nil }

// TryBytes implements the Item interface.
func (i *Map) TryBytes() ([]byte, error) { return nil, mkInvConversion(i, ByteArrayT) }

// TryInteger implements the Item interface.
func (i *Map) TryInteger() (*big.Int, error) { return nil, mkInvConversion(i, IntegerT) }

// Equals implements the Item interface.
func (i *Map) Equals(s Item) bool {
	val, ok := s.(*Map)
	if !ok || len(i.value) != len(val.value) {
		return false
	}
	for j := range i.value {
		if !i.value[j].Key.Equals(val.value[j].Key) || !i.value[j].Value.Equals(val.value[j].Value) {
			return false
		}
	}
	return true
}

// String implements the Item interface.
func (i *Map) String() string { return "Map" }

// Index returns an index of the key in the map, -1 if there is none.
func (i *Map) Index(key Item) int {
	for k := range i.value {
		if i.value[k].Key.Equals(key) {
			return k
		}
	}
	return -1
}

// Add adds a key-value pair to the map, replacing the value for an existing
// key.
func (i *Map) Add(key, value Item) {
	if index := i.Index(key); index >= 0 {
		i.value[index].Value = value
		return
	}
	i.value = append(i.value, MapElement{Key: key, Value: value})
}

// Type implements the Item interface.
func (i *Map) Type() Type { return MapT }

// IsValidMapKey checks whether it's possible to use the given Item as a Map
// key.
func IsValidMapKey(key Item) error {
	switch key.(type) {
	case Bool, *BigInteger, *ByteArray:
		return nil
	default:
		return fmt.Errorf("invalid map key of type %s", key.Type())
	}
}

// Interop represents an interop data on the stack. Values received from the
// node are opaque, iterators are described separately in invocation results.
type Interop struct {
	value any
}

// NewInterop returns a new Interop object.
func NewInterop(value any) *Interop {
	return &Interop{value: value}
}

// Value implements the Item interface.
func (i *Interop) Value() any { return i.value }

// String implements the Item interface.
func (i *Interop) String() string { return "InteropInterface" }

// TryBool implements the Item interface.
func (i *Interop) TryBool() (bool, error) { return true, nil }

// TryBytes implements the Item interface.
func (i *Interop) TryBytes() ([]byte, error) { return nil, mkInvConversion(i, ByteArrayT) }

// TryInteger implements the Item interface.
func (i *Interop) TryInteger() (*big.Int, error) { return nil, mkInvConversion(i, IntegerT) }

// Equals implements the Item interface.
func (i *Interop) Equals(s Item) bool { return i == s }

// Type implements the Item interface.
func (i *Interop) Type() Type { return InteropT }

// Pointer represents a VM-level instruction pointer.
type Pointer struct {
	pos int
}

// NewPointer returns a new pointer item.
func NewPointer(pos int) *Pointer {
	return &Pointer{pos: pos}
}

// Position returns the pointer item position.
func (p *Pointer) Position() int { return p.pos }

// Value implements the Item interface.
func (p *Pointer) Value() any { return p.pos }

// String implements the Item interface.
func (p *Pointer) String() string { return "Pointer" }

// TryBool implements the Item interface.
func (p *Pointer) TryBool() (bool, error) { return true, nil }

// TryBytes implements the Item interface.
func (p *Pointer) TryBytes() ([]byte, error) { return nil, mkInvConversion(p, ByteArrayT) }

// TryInteger implements the Item interface.
func (p *Pointer) TryInteger() (*big.Int, error) { return nil, mkInvConversion(p, IntegerT) }

// Equals implements the Item interface.
func (p *Pointer) Equals(s Item) bool {
	val, ok := s.(*Pointer)
	return ok && p.pos == val.pos
}

// Type implements the Item interface.
func (p *Pointer) Type() Type { return PointerT }
