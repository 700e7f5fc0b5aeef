package state

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/nspcc-dev/neorpc-go/pkg/core/native/nativehashes"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
)

func TestCreateNativeContractHash(t *testing.T) {
	require.Equal(t, nativehashes.GasToken, CreateNativeContractHash("GasToken"))
	require.Equal(t, nativehashes.NeoToken, CreateNativeContractHash("NeoToken"))
	require.Equal(t, nativehashes.ContractManagement, CreateNativeContractHash("ContractManagement"))
}

func TestCreateContractHash(t *testing.T) {
	sender := util.Uint160{1, 2, 3}
	h1 := CreateContractHash(sender, 42, "Test")
	require.Equal(t, h1, CreateContractHash(sender, 42, "Test"))
	require.NotEqual(t, h1, CreateContractHash(sender, 43, "Test"))
	require.NotEqual(t, h1, CreateContractHash(sender, 42, "Other"))
	require.NotEqual(t, h1, CreateContractHash(util.Uint160{}, 42, "Test"))
}

func TestContractJSON(t *testing.T) {
	f, err := nef.NewFile([]byte{0x11, 0x40})
	require.NoError(t, err)
	m := manifest.DefaultManifest("Test")
	m.ABI.Methods = []manifest.Method{{Name: "main", Parameters: []manifest.Parameter{}}}
	expected := &Contract{
		ContractBase: ContractBase{
			ID:       5,
			Hash:     CreateContractHash(util.Uint160{}, f.Checksum, m.Name),
			NEF:      *f,
			Manifest: *m,
		},
		UpdateCounter: 1,
	}
	data, err := json.Marshal(expected)
	require.NoError(t, err)

	actual := new(Contract)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, expected, actual)
}

func TestNotificationEventJSON(t *testing.T) {
	ne := &NotificationEvent{
		ScriptHash: nativehashes.GasToken,
		Name:       "Transfer",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.Null{},
			stackitem.NewByteArray([]byte{1, 2, 3}),
			stackitem.NewBigInteger(big.NewInt(100500)),
		}),
	}
	data, err := json.Marshal(ne)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"contract": "0xd2a4cff31913016155e38e474a2c06d08be276cf",
		"eventname": "Transfer",
		"state": {"type": "Array", "value": [
			{"type": "Any"},
			{"type": "ByteString", "value": "AQID"},
			{"type": "Integer", "value": "100500"}
		]}
	}`, string(data))

	actual := new(NotificationEvent)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, ne, actual)

	t.Run("struct state", func(t *testing.T) {
		js := `{"contract":"0xd2a4cff31913016155e38e474a2c06d08be276cf","eventname":"E","state":{"type":"Struct","value":[{"type":"Boolean","value":true}]}}`
		actual := new(NotificationEvent)
		require.NoError(t, json.Unmarshal([]byte(js), actual))
		require.Equal(t, 1, actual.Item.Len())
	})

	t.Run("bad state", func(t *testing.T) {
		js := `{"contract":"0xd2a4cff31913016155e38e474a2c06d08be276cf","eventname":"E","state":{"type":"Integer","value":"1"}}`
		require.Error(t, json.Unmarshal([]byte(js), new(NotificationEvent)))
	})
}

func TestAppExecResultJSON(t *testing.T) {
	js := `{
		"container": "0x` + util.Uint256{1, 2, 3}.StringLE() + `",
		"trigger": "Application",
		"vmstate": "FAULT",
		"gasconsumed": "2007570",
		"stack": [{"type": "Integer", "value": "1"}],
		"notifications": [],
		"exception": "at instruction 70 (SYSCALL): insufficient funds"
	}`
	actual := new(AppExecResult)
	require.NoError(t, json.Unmarshal([]byte(js), actual))
	require.Equal(t, util.Uint256{1, 2, 3}, actual.Container)
	require.Equal(t, trigger.Application, actual.Trigger)
	require.Equal(t, vmstate.Fault, actual.VMState)
	require.Equal(t, int64(2007570), actual.GasConsumed)
	require.Equal(t, []stackitem.Item{stackitem.NewBigInteger(big.NewInt(1))}, actual.Stack)
	require.Equal(t, "at instruction 70 (SYSCALL): insufficient funds", actual.FaultException)

	data, err := json.Marshal(actual)
	require.NoError(t, err)
	require.JSONEq(t, js, string(data))

	t.Run("unserializable stack item", func(t *testing.T) {
		js := `{"trigger":"Application","vmstate":"HALT","gasconsumed":"1","stack":["error: recursive reference"],"notifications":[]}`
		e := new(Execution)
		require.NoError(t, json.Unmarshal([]byte(js), e))
		require.Equal(t, 1, len(e.Stack))
		require.Nil(t, e.Stack[0])
	})

	t.Run("bad trigger", func(t *testing.T) {
		js := `{"trigger":"Unknown","vmstate":"HALT","gasconsumed":"1","stack":[],"notifications":[]}`
		require.Error(t, json.Unmarshal([]byte(js), new(Execution)))
	})
}
