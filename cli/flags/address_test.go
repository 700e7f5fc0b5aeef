package flags

import (
	"flag"
	"io"
	"testing"

	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestAddress_String(t *testing.T) {
	value := util.Uint160{1, 2, 3}
	addr := Address{
		IsSet: true,
		Value: value,
	}

	require.Equal(t, address.Uint160ToString(value), addr.String())
}

func TestAddress_Set(t *testing.T) {
	value := util.Uint160{1, 2, 3}
	addr := Address{}

	require.Error(t, addr.Set("not-an-address"))
	require.False(t, addr.IsSet)

	require.NoError(t, addr.Set(address.Uint160ToString(value)))
	require.True(t, addr.IsSet)
	require.Equal(t, value, addr.Uint160())

	addr = Address{}
	require.NoError(t, addr.Set("0x"+value.StringLE()))
	require.Equal(t, value, addr.Uint160())
}

func TestAddress_Uint160(t *testing.T) {
	addr := Address{}
	require.Panics(t, func() { addr.Uint160() })
}

func TestAddressFlag(t *testing.T) {
	value := util.Uint160{4, 5, 6}
	fl := AddressFlag{Name: "address, a", Usage: "Account address"}
	require.Equal(t, "--address value, -a value\tAccount address", fl.String())
	require.Equal(t, "address, a", fl.GetName())
	require.False(t, fl.IsSet())

	f := flag.NewFlagSet("", flag.ContinueOnError)
	f.SetOutput(io.Discard)
	fl.Apply(f)
	require.NoError(t, f.Parse([]string{"--address", address.Uint160ToString(value)}))
	require.Equal(t, address.Uint160ToString(value), f.Lookup("a").Value.String())
	require.Error(t, f.Parse([]string{"-a", "kek"}))
}
