package result

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neorpc-go/pkg/config/netmode"
	"github.com/nspcc-dev/neorpc-go/pkg/core/state"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/context"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
)

func requireDecodeError(t *testing.T, err error, field string) {
	var decErr *neorpc.DecodeError
	require.True(t, errors.As(err, &decErr), err)
	require.Equal(t, field, decErr.Field)
}

func TestRelayResult(t *testing.T) {
	h := util.Uint256{1, 2, 3}
	var r RelayResult
	require.NoError(t, json.Unmarshal([]byte(`{"hash":"0x`+h.StringLE()+`"}`), &r))
	require.Equal(t, h, r.Hash)

	requireDecodeError(t, json.Unmarshal([]byte(`{}`), &r), "hash")
	requireDecodeError(t, json.Unmarshal([]byte(`{"hash":"0x1234"}`), &r), "hash")
}

func TestNetworkFee(t *testing.T) {
	var n NetworkFee
	require.NoError(t, json.Unmarshal([]byte(`{"networkfee":"1230610"}`), &n))
	require.Equal(t, int64(1230610), n.Value)

	requireDecodeError(t, json.Unmarshal([]byte(`{}`), &n), "networkfee")
	requireDecodeError(t, json.Unmarshal([]byte(`{"networkfee":"many"}`), &n), "networkfee")
}

func TestUnclaimedGas(t *testing.T) {
	addr := util.Uint160{4, 5, 6}
	data := `{"address":"` + address.Uint160ToString(addr) + `","unclaimed":"897299680935"}`
	var g UnclaimedGas
	require.NoError(t, json.Unmarshal([]byte(data), &g))
	require.Equal(t, addr, g.Address)
	require.Equal(t, int64(897299680935), g.Unclaimed.Int64())

	out, err := json.Marshal(g)
	require.NoError(t, err)
	require.JSONEq(t, data, string(out))

	requireDecodeError(t, json.Unmarshal([]byte(`{"unclaimed":"1"}`), &g), "address")
	requireDecodeError(t, json.Unmarshal([]byte(`{"address":"`+address.Uint160ToString(addr)+`"}`), &g), "unclaimed")
}

func TestApplicationLog(t *testing.T) {
	l := ApplicationLog{
		Container:     util.Uint256{7, 7},
		IsTransaction: true,
		Executions: []state.Execution{{
			Trigger:     trigger.Application,
			VMState:     vmstate.Halt,
			GasConsumed: 9007990,
			Stack:       []stackitem.Item{stackitem.NewBool(true)},
			Events: []state.NotificationEvent{{
				ScriptHash: util.Uint160{1},
				Name:       "Transfer",
				Item:       stackitem.NewArray([]stackitem.Item{stackitem.NewBigInteger(big.NewInt(10))}),
			}},
		}},
	}
	data, err := json.Marshal(l)
	require.NoError(t, err)
	require.Contains(t, string(data), `"txid"`)

	actual := new(ApplicationLog)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, l, *actual)
	require.Equal(t, "", actual.GetException())

	l.IsTransaction = false
	l.Executions[0].VMState = vmstate.Fault
	l.Executions[0].FaultException = "ASSERT failed"
	data, err = json.Marshal(l)
	require.NoError(t, err)
	require.Contains(t, string(data), `"blockhash"`)
	actual = new(ApplicationLog)
	require.NoError(t, json.Unmarshal(data, actual))
	require.False(t, actual.IsTransaction)
	require.Equal(t, "ASSERT failed", actual.GetException())

	requireDecodeError(t, json.Unmarshal([]byte(`{"executions":[]}`), actual), "txid")
	requireDecodeError(t, json.Unmarshal([]byte(`{"txid":"0x`+l.Container.StringLE()+`","executions":[{"trigger":"Wat"}]}`), actual), "executions")
}

func TestRawMemPool(t *testing.T) {
	h := util.Uint256{1}
	var m RawMemPool
	require.NoError(t, json.Unmarshal([]byte(`{"height":10,"verified":["0x`+h.StringLE()+`"],"unverified":[]}`), &m))
	require.Equal(t, RawMemPool{Height: 10, Verified: []util.Uint256{h}, Unverified: []util.Uint256{}}, m)

	requireDecodeError(t, json.Unmarshal([]byte(`{"verified":[]}`), &m), "height")
	requireDecodeError(t, json.Unmarshal([]byte(`{"height":10,"unverified":[]}`), &m), "verified")
}

func TestValidators(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	pub := priv.PublicKey().StringCompressed()

	var vals []Validator
	require.NoError(t, json.Unmarshal([]byte(`[{"publickey":"`+pub+`","votes":"100000000000000000000"}]`), &vals))
	require.Equal(t, 1, len(vals))
	require.Equal(t, pub, vals[0].PublicKey.StringCompressed())
	require.Equal(t, "100000000000000000000", vals[0].Votes.String())

	out, err := json.Marshal(vals[0])
	require.NoError(t, err)
	require.JSONEq(t, `{"publickey":"`+pub+`","votes":"100000000000000000000"}`, string(out))

	var cands []Candidate
	require.NoError(t, json.Unmarshal([]byte(`[{"publickey":"`+pub+`","votes":"10","active":true}]`), &cands))
	require.True(t, cands[0].Active)
	require.Equal(t, int64(10), cands[0].Votes.Int64())

	for name, tc := range map[string]struct {
		data  string
		field string
	}{
		"no key":    {`[{"votes":"10"}]`, "publickey"},
		"bad key":   {`[{"publickey":"0102","votes":"10"}]`, "publickey"},
		"no votes":  {`[{"publickey":"` + pub + `"}]`, "votes"},
		"bad votes": {`[{"publickey":"` + pub + `","votes":"ten"}]`, "votes"},
	} {
		t.Run(name, func(t *testing.T) {
			requireDecodeError(t, json.Unmarshal([]byte(tc.data), new([]Validator)), tc.field)
			requireDecodeError(t, json.Unmarshal([]byte(tc.data), new([]Candidate)), tc.field)
		})
	}
}

func TestWalletResults(t *testing.T) {
	var accs []Account
	data := `[{"address":"NZs2zXSPuuv9ZF6TDGSWT1RBmE8rfGj7UW","haskey":true,"label":null,"watchonly":false}]`
	require.NoError(t, json.Unmarshal([]byte(data), &accs))
	require.Equal(t, []Account{{Address: "NZs2zXSPuuv9ZF6TDGSWT1RBmE8rfGj7UW", HasKey: true}}, accs)
	requireDecodeError(t, json.Unmarshal([]byte(`{"haskey":true}`), new(Account)), "address")

	var b WalletBalance
	require.NoError(t, json.Unmarshal([]byte(`{"balance":"300000000"}`), &b))
	require.Equal(t, int64(300000000), b.Balance.Int64())
	out, err := json.Marshal(b)
	require.NoError(t, err)
	require.JSONEq(t, `{"balance":"300000000"}`, string(out))
	requireDecodeError(t, json.Unmarshal([]byte(`{}`), &b), "balance")
}

func TestWalletTransfer(t *testing.T) {
	t.Run("signed", func(t *testing.T) {
		tx := newTestTx()
		data, err := json.Marshal(tx)
		require.NoError(t, err)

		var w WalletTransfer
		require.NoError(t, json.Unmarshal(data, &w))
		require.True(t, w.IsSigned())
		require.Nil(t, w.Context)
		h, err := w.Hash()
		require.NoError(t, err)
		require.Equal(t, tx.Hash(), h)

		out, err := json.Marshal(w)
		require.NoError(t, err)
		require.JSONEq(t, string(data), string(out))
	})
	t.Run("context", func(t *testing.T) {
		tx := newTestTx()
		pc := context.NewParameterContext(netmode.UnitTestNet, tx)
		data, err := json.Marshal(pc)
		require.NoError(t, err)

		var w WalletTransfer
		require.NoError(t, json.Unmarshal(data, &w))
		require.False(t, w.IsSigned())
		require.NotNil(t, w.Context)
		require.Equal(t, netmode.UnitTestNet, w.Context.Network)
		require.Equal(t, tx.Hash(), w.Context.Verifiable.Hash())
		_, err = w.Hash()
		require.Error(t, err)
	})
	t.Run("bad", func(t *testing.T) {
		var w WalletTransfer
		requireDecodeError(t, json.Unmarshal([]byte(`{"size":10}`), &w), "hash")
		requireDecodeError(t, json.Unmarshal([]byte(`{"hash":"0x`+util.Uint256{1}.StringLE()+`","signers":[]}`), &w), "hash")
	})
}
