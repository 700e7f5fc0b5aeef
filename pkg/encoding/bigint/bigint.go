package bigint

import (
	"math/big"
)

// MaxBytesLen is the maximum length of a serialized integer suitable for Neo VM.
const MaxBytesLen = 32 // 256-bit signed integer

// FromBytesUnsigned converts data in little-endian format to an unsigned integer.
func FromBytesUnsigned(data []byte) *big.Int {
	bs := reverse(data)
	return new(big.Int).SetBytes(bs)
}

// FromBytes converts data in little-endian two's complement format to
// an integer.
func FromBytes(data []byte) *big.Int {
	n := new(big.Int)
	size := len(data)
	if size == 0 {
		return n
	}

	bs := reverse(data)
	if bs[0]&0x80 == 0 {
		return n.SetBytes(bs)
	}

	// Negative: invert and add one to get the absolute value.
	for i := range bs {
		bs[i] = ^bs[i]
	}
	n.SetBytes(bs)
	n.Add(n, big.NewInt(1))
	return n.Neg(n)
}

// ToBytes converts an integer to a slice in little-endian two's complement
// format. Zero is encoded as an empty slice.
func ToBytes(n *big.Int) []byte {
	sign := n.Sign()
	if sign == 0 {
		return []byte{}
	}

	if sign > 0 {
		bs := n.Bytes()
		if bs[0]&0x80 != 0 {
			bs = append([]byte{0}, bs...)
		}
		return reverse(bs)
	}

	// Two's complement of |n| within the minimal byte length.
	abs := new(big.Int).Neg(n)
	abs.Sub(abs, big.NewInt(1))
	bs := abs.Bytes()
	if len(bs) == 0 || bs[0]&0x80 != 0 {
		bs = append([]byte{0}, bs...)
	}
	for i := range bs {
		bs[i] = ^bs[i]
	}
	return reverse(bs)
}

func reverse(b []byte) []byte {
	res := make([]byte, len(b))
	for i := range b {
		res[len(b)-1-i] = b[i]
	}
	return res
}
