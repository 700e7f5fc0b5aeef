package wallet

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/neorpc-go/internal/testrpc"
	"github.com/nspcc-dev/neorpc-go/pkg/config/netmode"
	"github.com/nspcc-dev/neorpc-go/pkg/core/native/nativehashes"
	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/context"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

var (
	addrA = address.Uint160ToString(util.Uint160{1, 2, 3})
	addrB = address.Uint160ToString(util.Uint160{4, 5, 6})
)

func newApp() (*cli.App, *bytes.Buffer) {
	cli.OsExiter = func(int) {}
	app := cli.NewApp()
	app.Name = "neorpc"
	app.Commands = NewCommands()
	out := new(bytes.Buffer)
	app.Writer = out
	app.ErrWriter = out
	return app, out
}

func run(srv *testrpc.Server, args ...string) (string, error) {
	app, out := newApp()
	full := append([]string{"neorpc", "wallet"}, args[0], "-r", srv.URL)
	full = append(full, args[1:]...)
	err := app.Run(full)
	return out.String(), err
}

func newServer(t *testing.T, results map[string]string) *testrpc.Server {
	results["getversion"] = testrpc.VersionResult
	return testrpc.NewServer(t, results)
}

func lastParams(t *testing.T, srv *testrpc.Server) []any {
	reqs := srv.Requests()
	require.NotEmpty(t, reqs)
	last := reqs[len(reqs)-1]
	res := make([]any, len(last.Params))
	for i := range last.Params {
		require.NoError(t, json.Unmarshal(last.Params[i], &res[i]))
	}
	return res
}

func newTx() *transaction.Transaction {
	tx := transaction.New([]byte{0x40}, 10)
	tx.Nonce = 7
	tx.ValidUntilBlock = 100
	tx.Signers = []transaction.Signer{{Account: util.Uint160{1, 2, 3}, Scopes: transaction.CalledByEntry}}
	tx.Scripts = []transaction.Witness{{InvocationScript: []byte{1}, VerificationScript: []byte{2}}}
	return tx
}

func TestOpenCloseWallet(t *testing.T) {
	srv := newServer(t, map[string]string{
		"openwallet":  "true",
		"closewallet": "true",
	})

	_, err := run(srv, "openwallet", "-p", "pass")
	require.Error(t, err)

	out, err := run(srv, "openwallet", "-p", "pass", "/data/wallet.json")
	require.NoError(t, err)
	require.Contains(t, out, "Wallet opened")
	require.Equal(t, []any{"/data/wallet.json", "pass"}, lastParams(t, srv))

	srv.Set("openwallet", "false")
	_, err = run(srv, "openwallet", "-p", "pass", "/data/wallet.json")
	require.Error(t, err)

	out, err = run(srv, "closewallet")
	require.NoError(t, err)
	require.Contains(t, out, "Wallet closed")
}

func TestKeys(t *testing.T) {
	const wif = "L1QqQJnpBwbsPGAuutuzPTac8piqvbR1HRjrY5qHup48TBCBFe4g"
	srv := newServer(t, map[string]string{
		"dumpprivkey":   `"` + wif + `"`,
		"getnewaddress": `"` + addrA + `"`,
		"importprivkey": `{"address":"` + addrB + `","haskey":true,"label":null,"watchonly":false}`,
		"listaddress":   `[{"address":"` + addrA + `","haskey":true,"label":"main","watchonly":false},{"address":"` + addrB + `","haskey":false,"label":null,"watchonly":true}]`,
	})

	t.Run("dumpprivkey", func(t *testing.T) {
		_, err := run(srv, "dumpprivkey")
		require.Error(t, err)
		_, err = run(srv, "dumpprivkey", "notanaddress")
		require.Error(t, err)

		out, err := run(srv, "dumpprivkey", addrA)
		require.NoError(t, err)
		require.Equal(t, wif+"\n", out)
		require.Equal(t, []any{addrA}, lastParams(t, srv))
	})
	t.Run("getnewaddress", func(t *testing.T) {
		out, err := run(srv, "getnewaddress")
		require.NoError(t, err)
		require.Equal(t, addrA+"\n", out)
	})
	t.Run("importprivkey", func(t *testing.T) {
		_, err := run(srv, "importprivkey")
		require.Error(t, err)

		out, err := run(srv, "importprivkey", wif)
		require.NoError(t, err)
		require.Equal(t, addrB+"\n", out)
		require.Equal(t, []any{wif}, lastParams(t, srv))
	})
	t.Run("listaddress", func(t *testing.T) {
		out, err := run(srv, "listaddress")
		require.NoError(t, err)
		require.Equal(t, addrA+" (main)\n"+addrB+" [watch-only]\n", out)
	})
}

func TestBalances(t *testing.T) {
	srv := newServer(t, map[string]string{
		"getwalletbalance":      `{"balance":"300000000"}`,
		"getwalletunclaimedgas": `"12345"`,
	})

	_, err := run(srv, "getbalance")
	require.Error(t, err)
	_, err = run(srv, "getbalance", "btc")
	require.Error(t, err)

	out, err := run(srv, "getbalance", "GAS")
	require.NoError(t, err)
	require.Equal(t, "300000000\n", out)
	require.Equal(t, []any{nativehashes.GasToken.StringLE()}, lastParams(t, srv))

	h := util.Uint160{7, 8, 9}
	_, err = run(srv, "getbalance", "0x"+h.StringLE())
	require.NoError(t, err)
	require.Equal(t, []any{h.StringLE()}, lastParams(t, srv))

	out, err = run(srv, "getunclaimedgas")
	require.NoError(t, err)
	require.Equal(t, "12345\n", out)
}

func TestSend(t *testing.T) {
	tx := newTx()
	signed, err := json.Marshal(tx)
	require.NoError(t, err)
	pc, err := json.Marshal(context.NewParameterContext(netmode.UnitTestNet, tx))
	require.NoError(t, err)

	srv := newServer(t, map[string]string{
		"sendfrom":      string(signed),
		"sendtoaddress": string(signed),
		"sendmany":      string(signed),
	})

	t.Run("sendfrom", func(t *testing.T) {
		_, err := run(srv, "sendfrom", "neo", addrA, addrB)
		require.Error(t, err)
		_, err = run(srv, "sendfrom", "neo", addrA, "bad", "1")
		require.Error(t, err)
		_, err = run(srv, "sendfrom", "neo", addrA, addrB, "-1")
		require.Error(t, err)
		_, err = run(srv, "sendfrom", "neo", addrA, addrB, "1/2")
		require.Error(t, err)

		out, err := run(srv, "sendfrom", "neo", addrA, addrB, "10")
		require.NoError(t, err)
		require.Equal(t, "Transaction: "+tx.Hash().StringLE()+"\n", out)
		require.Equal(t, []any{nativehashes.NeoToken.StringLE(), addrA, addrB, "10"}, lastParams(t, srv))
	})
	t.Run("sendtoaddress", func(t *testing.T) {
		out, err := run(srv, "sendtoaddress", "gas", addrB, "1.5")
		require.NoError(t, err)
		require.Contains(t, out, tx.Hash().StringLE())
		require.Equal(t, []any{nativehashes.GasToken.StringLE(), addrB, "1.5"}, lastParams(t, srv))
	})
	t.Run("sendmany", func(t *testing.T) {
		_, err := run(srv, "sendmany")
		require.Error(t, err)
		_, err = run(srv, "sendmany", "gas:"+addrB)
		require.Error(t, err)
		_, err = run(srv, "sendmany", "--from", "bad", "gas:"+addrB+":1")
		require.Error(t, err)

		out, err := run(srv, "sendmany", "--from", addrA, "gas:"+addrB+":1.5", "neo:"+addrA+":2")
		require.NoError(t, err)
		require.Contains(t, out, tx.Hash().StringLE())
		require.Equal(t, []any{addrA, []any{
			map[string]any{"asset": nativehashes.GasToken.StringLE(), "value": "1.5", "address": addrB},
			map[string]any{"asset": nativehashes.NeoToken.StringLE(), "value": "2", "address": addrA},
		}}, lastParams(t, srv))

		_, err = run(srv, "sendmany", "gas:"+addrB+":1")
		require.NoError(t, err)
		require.Equal(t, 1, len(lastParams(t, srv)))
	})
	t.Run("unsigned", func(t *testing.T) {
		srv.Set("sendtoaddress", string(pc))
		out, err := run(srv, "sendtoaddress", "gas", addrB, "1")
		require.NoError(t, err)
		require.Contains(t, out, "parameter context")
		require.Contains(t, out, `"items"`)
	})
}
