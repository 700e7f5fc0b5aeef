package nep17

import (
	"errors"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neorpc-go/pkg/core/native/nativehashes"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

// testInv answers calls by method name.
type testInv struct {
	err   error
	res   map[string]*result.Invoke
	calls []string
}

func (t *testInv) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	t.calls = append(t.calls, operation)
	return t.res[operation], t.err
}

func halt(v any) *result.Invoke {
	return &result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.Make(v)}}
}

func TestReaderBalanceOf(t *testing.T) {
	ti := &testInv{res: make(map[string]*result.Invoke)}
	tr := NewReader(ti, util.Uint160{1, 2, 3})
	require.Equal(t, util.Uint160{1, 2, 3}, tr.Hash())

	ti.err = errors.New("")
	_, err := tr.BalanceOf(util.Uint160{3, 2, 1})
	require.Error(t, err)

	ti.err = nil
	ti.res["balanceOf"] = halt(100500)
	bal, err := tr.BalanceOf(util.Uint160{3, 2, 1})
	require.NoError(t, err)
	require.Equal(t, int64(100500), bal.Int64())

	ti.res["balanceOf"] = halt([]stackitem.Item{})
	_, err = tr.BalanceOf(util.Uint160{3, 2, 1})
	require.Error(t, err)
}

func TestReaderBalance(t *testing.T) {
	ti := &testInv{res: map[string]*result.Invoke{
		"decimals":  halt(8),
		"balanceOf": halt(150000000),
	}}
	tr := NewGASReader(ti)
	require.Equal(t, nativehashes.GasToken, tr.Hash())

	bal, err := tr.Balance(util.Uint160{1})
	require.NoError(t, err)
	require.Equal(t, "1.5", bal.String())
	require.Equal(t, 0, bal.Cmp(fixedn.NewDecimal(big.NewInt(15), 1)))
	require.Equal(t, []string{"decimals", "balanceOf"}, ti.calls)

	ti.res["decimals"] = halt(100)
	_, err = tr.Balance(util.Uint160{1})
	require.Error(t, err)

	ti.res["decimals"] = &result.Invoke{State: "FAULT"}
	_, err = tr.Balance(util.Uint160{1})
	require.Error(t, err)
}

func TestReaderMetadata(t *testing.T) {
	ti := &testInv{res: map[string]*result.Invoke{
		"symbol":      halt("GAS"),
		"totalSupply": halt(42),
	}}
	tr := NewReader(ti, util.Uint160{1})

	sym, err := tr.Symbol()
	require.NoError(t, err)
	require.Equal(t, "GAS", sym)

	ts, err := tr.TotalSupply()
	require.NoError(t, err)
	require.Equal(t, int64(42), ts.Int64())
}

func TestTransferScript(t *testing.T) {
	token := util.Uint160{1}
	s1, err := TransferScript(token, util.Uint160{2}, util.Uint160{3}, big.NewInt(10), nil)
	require.NoError(t, err)
	s2, err := TransferScript(token, util.Uint160{2}, util.Uint160{3}, big.NewInt(10), nil)
	require.NoError(t, err)
	require.Equal(t, s1, s2)

	expected, err := smartcontract.CreateCallWithAssertScript(token, "transfer", util.Uint160{2}, util.Uint160{3}, big.NewInt(10), nil)
	require.NoError(t, err)
	require.Equal(t, expected, s1)

	_, err = TransferScript(token, util.Uint160{2}, util.Uint160{3}, big.NewInt(10), make(chan int))
	require.Error(t, err)
}
