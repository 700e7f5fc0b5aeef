package address

import (
	"testing"

	"github.com/nspcc-dev/neorpc-go/pkg/encoding/base58"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint160DecodeEncodeAddress(t *testing.T) {
	addrs := []string{
		"NQrEVKgpx2qEg6DpVMT5H8kFa7kc2DFgqS",
		"NYaVsrMV9GS8aaspRS4odXf1WHZdMmJiPC",
		"NWcpK2143ZjgzDYyQJhoKrodJUymHTxPzR",
	}
	for _, addr := range addrs {
		val, err := StringToUint160(addr)
		require.NoError(t, err)
		assert.Equal(t, addr, Uint160ToString(val))
	}
}

func TestUint160RoundTrip(t *testing.T) {
	var u = util.Uint160{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	addr := Uint160ToString(u)
	require.Equal(t, byte('N'), addr[0])
	actual, err := StringToUint160(addr)
	require.NoError(t, err)
	require.Equal(t, u, actual)
}

func TestUint160DecodeBadBase58(t *testing.T) {
	_, err := StringToUint160("AJeAEsmeD6t279Dx4n2HWdUvUmmXQ4iJv@")
	require.Error(t, err)
}

func TestUint160DecodeBadPrefix(t *testing.T) {
	b := append([]byte{0x17}, make([]byte, 20)...)
	_, err := StringToUint160(base58.CheckEncode(b))
	require.Error(t, err)

	b = append([]byte{Prefix}, make([]byte, 19)...)
	_, err = StringToUint160(base58.CheckEncode(b))
	require.Error(t, err)
}

func TestPrefixChange(t *testing.T) {
	defer func(p byte) { Prefix = p }(Prefix)

	var u util.Uint160
	Prefix = 0x17
	addr := Uint160ToString(u)
	actual, err := StringToUint160(addr)
	require.NoError(t, err)
	require.Equal(t, u, actual)

	Prefix = NEO3Prefix
	_, err = StringToUint160(addr)
	require.Error(t, err)
}
