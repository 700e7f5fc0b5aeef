package bigint

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

var testCases = []struct {
	number int64
	buf    []byte
}{
	{0, []byte{}},
	{1, []byte{1}},
	{-1, []byte{0xFF}},
	{2, []byte{2}},
	{-2, []byte{0xFE}},
	{127, []byte{0x7F}},
	{-127, []byte{0x81}},
	{128, []byte{0x80, 0x00}},
	{-128, []byte{0x80}},
	{129, []byte{0x81, 0x00}},
	{-129, []byte{0x7F, 0xFF}},
	{255, []byte{0xFF, 0x00}},
	{-255, []byte{0x01, 0xFF}},
	{256, []byte{0x00, 0x01}},
	{-256, []byte{0x00, 0xFF}},
	{123456789, []byte{0x15, 0xcd, 0x5b, 0x07}},
	{-123456789, []byte{0xeb, 0x32, 0xa4, 0xf8}},
	{math.MaxInt64, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x7F}},
	{math.MinInt64, []byte{0, 0, 0, 0, 0, 0, 0, 0x80}},
}

func TestIntToBytes(t *testing.T) {
	for _, tc := range testCases {
		buf := ToBytes(big.NewInt(tc.number))
		require.Equal(t, tc.buf, buf, "error while converting %d", tc.number)
	}
}

func TestBytesToInt(t *testing.T) {
	for _, tc := range testCases {
		num := FromBytes(tc.buf)
		require.Equal(t, tc.number, num.Int64(), "error while converting %d", tc.number)
	}

	t.Run("unnormalized", func(t *testing.T) {
		require.Equal(t, int64(1), FromBytes([]byte{1, 0, 0}).Int64())
		require.Equal(t, int64(-1), FromBytes([]byte{0xFF, 0xFF}).Int64())
	})
}

func TestFromBytesUnsigned(t *testing.T) {
	require.Equal(t, int64(0xFF01), FromBytesUnsigned([]byte{0x01, 0xFF}).Int64())
	require.Equal(t, int64(0), FromBytesUnsigned(nil).Int64())
}
