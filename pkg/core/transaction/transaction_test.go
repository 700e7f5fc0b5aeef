package transaction

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/nspcc-dev/neorpc-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTx(t *testing.T) *Transaction {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)
	tx := New([]byte{0x51}, 123)
	tx.NetworkFee = 456
	tx.ValidUntilBlock = 1000
	tx.Signers = []Signer{
		{Account: priv.GetScriptHash(), Scopes: CalledByEntry},
		{
			Account:          util.Uint160{1, 2, 3},
			Scopes:           CustomContracts | CustomGroups,
			AllowedContracts: []util.Uint160{{4, 5, 6}},
			AllowedGroups:    []*keys.PublicKey{priv.PublicKey()},
		},
	}
	tx.Attributes = []Attribute{
		{Type: HighPriorityT},
		{Type: NotValidBeforeT, Value: &NotValidBefore{Height: 10}},
		{Type: ConflictsT, Value: &Conflicts{Hash: util.Uint256{7, 8}}},
		{Type: OracleResponseT, Value: &OracleResponse{ID: 1, Code: Success, Result: []byte{1, 2}}},
	}
	tx.Scripts = []Witness{
		{InvocationScript: []byte{1}, VerificationScript: priv.PublicKey().GetVerificationScript()},
		{InvocationScript: []byte{2}, VerificationScript: []byte{3}},
	}
	return tx
}

func TestTransactionBinary(t *testing.T) {
	tx := newTestTx(t)
	data := tx.Bytes()
	require.NotNil(t, data)
	require.Equal(t, len(data), tx.Size())

	actual, err := NewTransactionFromBytes(data)
	require.NoError(t, err)
	require.Equal(t, tx.Hash(), actual.Hash())
	require.Equal(t, data, actual.Bytes())
	require.Equal(t, tx.Sender(), actual.Sender())
	require.True(t, actual.Signers[1].AllowedGroups[0].Equal(tx.Signers[1].AllowedGroups[0]))

	_, err = NewTransactionFromBytes(append(data, 0))
	require.ErrorIs(t, err, io.ErrTrailingData)
}

func TestTransactionHash(t *testing.T) {
	tx := newTestTx(t)
	require.Equal(t, hash.Sha256(tx.GetSignedPart()), tx.Hash())

	h := tx.Hash()
	tx.Scripts = nil
	require.Equal(t, h, tx.Hash(), "witnesses are not hashed")

	tx.Nonce++
	require.NotEqual(t, h, tx.Hash())
}

func TestTransactionNoScript(t *testing.T) {
	tx := newTestTx(t)
	tx.Script = nil
	require.Nil(t, tx.Bytes())
	require.Nil(t, tx.GetSignedPart())
}

func TestTransactionDecodeErrors(t *testing.T) {
	t.Run("witness count", func(t *testing.T) {
		tx := newTestTx(t)
		tx.Scripts = tx.Scripts[:1]
		_, err := NewTransactionFromBytes(tx.Bytes())
		require.ErrorIs(t, err, ErrInvalidWitnessNum)
	})
	t.Run("same signers", func(t *testing.T) {
		tx := newTestTx(t)
		tx.Signers[1].Account = tx.Signers[0].Account
		_, err := NewTransactionFromBytes(tx.Bytes())
		require.ErrorIs(t, err, ErrNonUniqueSigners)
	})
	t.Run("double high priority", func(t *testing.T) {
		tx := newTestTx(t)
		tx.Attributes = append(tx.Attributes, Attribute{Type: HighPriorityT})
		_, err := NewTransactionFromBytes(tx.Bytes())
		require.True(t, errors.Is(err, ErrInvalidAttribute))
	})
	t.Run("version", func(t *testing.T) {
		tx := newTestTx(t)
		tx.Version = 1
		_, err := NewTransactionFromBytes(tx.Bytes())
		require.ErrorIs(t, err, ErrInvalidVersion)
	})
	t.Run("no signers", func(t *testing.T) {
		tx := newTestTx(t)
		tx.Signers = nil
		tx.Scripts = nil
		_, err := NewTransactionFromBytes(tx.Bytes())
		require.ErrorIs(t, err, ErrNoSigners)
	})
}

func TestTransactionJSON(t *testing.T) {
	tx := newTestTx(t)
	data, err := json.Marshal(tx)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	require.Equal(t, "123", m["sysfee"])
	require.Equal(t, "456", m["netfee"])
	require.Equal(t, "0x"+tx.Hash().StringLE(), m["hash"])

	actual := new(Transaction)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, tx.Bytes(), actual.Bytes())

	m["nonce"] = float64(tx.Nonce + 1)
	bad, err := json.Marshal(m)
	require.NoError(t, err)
	require.Error(t, json.Unmarshal(bad, new(Transaction)))
}

func TestTransactionSigners(t *testing.T) {
	tx := newTestTx(t)
	require.True(t, tx.HasSigner(util.Uint160{1, 2, 3}))
	require.False(t, tx.HasSigner(util.Uint160{3, 2, 1}))
	require.NotNil(t, tx.GetSigner(util.Uint160{1, 2, 3}))
	require.Nil(t, tx.GetSigner(util.Uint160{3, 2, 1}))

	require.Panics(t, func() { (&Transaction{}).Sender() })
}

func TestTransactionAttributes(t *testing.T) {
	tx := newTestTx(t)
	require.True(t, tx.HasAttribute(ConflictsT))
	require.Equal(t, 1, len(tx.GetAttributes(NotValidBeforeT)))
	tx.Attributes = nil
	require.False(t, tx.HasAttribute(ConflictsT))
	require.Nil(t, tx.GetAttributes(ConflictsT))
}

func TestTransactionCopy(t *testing.T) {
	tx := newTestTx(t)
	cp := tx.Copy()
	require.Equal(t, tx.Bytes(), cp.Bytes())

	cp.Script[0] = 0x52
	cp.Scripts[0].InvocationScript[0] = 0xff
	cp.Signers[1].AllowedContracts[0] = util.Uint160{}
	require.EqualValues(t, 0x51, tx.Script[0])
	require.EqualValues(t, 1, tx.Scripts[0].InvocationScript[0])
	require.Equal(t, util.Uint160{4, 5, 6}, tx.Signers[1].AllowedContracts[0])

	require.Nil(t, (*Transaction)(nil).Copy())
}

func TestWitnessScope(t *testing.T) {
	var cases = map[string]WitnessScope{
		"None":                          None,
		"Global":                        Global,
		"CalledByEntry":                 CalledByEntry,
		"CalledByEntry, CustomGroups":   CalledByEntry | CustomGroups,
		"CustomContracts, CustomGroups": CustomContracts | CustomGroups,
	}
	for s, scope := range cases {
		assert.Equal(t, s, scope.String())
		actual, err := ScopesFromString(s)
		require.NoError(t, err)
		require.Equal(t, scope, actual)
	}

	_, err := ScopesFromString("Global, CalledByEntry")
	require.ErrorIs(t, err, ErrGlobalCombined)
	_, err = ScopesFromString("CalledByEntry, Global")
	require.ErrorIs(t, err, ErrGlobalCombined)
	_, err = ScopesFromString("Unknown")
	require.Error(t, err)

	data, err := json.Marshal(CalledByEntry | CustomContracts)
	require.NoError(t, err)
	require.Equal(t, `"CalledByEntry, CustomContracts"`, string(data))

	var s WitnessScope
	require.NoError(t, json.Unmarshal([]byte(`"Global"`), &s))
	require.Equal(t, Global, s)
	require.Error(t, json.Unmarshal([]byte(`1`), &s))
}

func TestSignerDecodeErrors(t *testing.T) {
	t.Run("unknown scope", func(t *testing.T) {
		data := append(make([]byte, util.Uint160Size), 0x02)
		require.Error(t, io.DecodeFull(data, new(Signer)))
	})
	t.Run("global combined", func(t *testing.T) {
		data := append(make([]byte, util.Uint160Size), byte(Global|CalledByEntry))
		require.ErrorIs(t, io.DecodeFull(data, new(Signer)), ErrGlobalCombined)
	})
	t.Run("too many contracts", func(t *testing.T) {
		data := append(make([]byte, util.Uint160Size), byte(CustomContracts), maxSubitems+1)
		require.Error(t, io.DecodeFull(data, new(Signer)))
	})
}

func TestAttributeJSON(t *testing.T) {
	var cases = []struct {
		attr Attribute
		js   string
	}{
		{Attribute{Type: HighPriorityT}, `{"type":"HighPriority"}`},
		{Attribute{Type: NotValidBeforeT, Value: &NotValidBefore{Height: 123}}, `{"type":"NotValidBefore","height":123}`},
		{Attribute{Type: OracleResponseT, Value: &OracleResponse{ID: 42, Code: Success, Result: []byte{1, 2, 3}}},
			`{"type":"OracleResponse","id":42,"code":"Success","result":"AQID"}`},
	}
	for _, tc := range cases {
		data, err := json.Marshal(&tc.attr)
		require.NoError(t, err)
		require.JSONEq(t, tc.js, string(data))

		actual := new(Attribute)
		require.NoError(t, json.Unmarshal([]byte(tc.js), actual))
		require.Equal(t, tc.attr, *actual)
	}

	conflicts := Attribute{Type: ConflictsT, Value: &Conflicts{Hash: util.Uint256{1}}}
	data, err := json.Marshal(&conflicts)
	require.NoError(t, err)
	actual := new(Attribute)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, conflicts, *actual)

	for _, js := range []string{
		`{"type":"Unknown"}`,
		`{"type":"NotValidBefore"}`,
		`{"type":"Conflicts"}`,
		`{"type":"OracleResponse","id":1}`,
		`{"type":"OracleResponse","id":1,"code":"Bad"}`,
	} {
		require.Error(t, json.Unmarshal([]byte(js), new(Attribute)), js)
	}
}

func TestAttributeBinaryErrors(t *testing.T) {
	require.Error(t, io.DecodeFull([]byte{0xff}, new(Attribute)))

	// Non-success code with a result.
	w := io.NewBufBinWriter()
	(&OracleResponse{ID: 1, Code: NotFound, Result: []byte{1}}).EncodeBinary(w.BinWriter)
	require.ErrorIs(t, io.DecodeFull(w.Bytes(), new(OracleResponse)), ErrInvalidResult)

	w.Reset()
	(&OracleResponse{ID: 1, Code: 0x42}).EncodeBinary(w.BinWriter)
	require.ErrorIs(t, io.DecodeFull(w.Bytes(), new(OracleResponse)), ErrInvalidResponseCode)

	w.Reset()
	(&Attribute{Type: ConflictsT}).EncodeBinary(w.BinWriter)
	require.Error(t, w.Err)
}

func TestWitness(t *testing.T) {
	w := Witness{InvocationScript: []byte{1, 2}, VerificationScript: []byte{3, 4}}
	require.Equal(t, hash.Hash160([]byte{3, 4}), w.ScriptHash())

	data, err := io.ToBytes(&w)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 1, 2, 2, 3, 4}, data)

	actual := new(Witness)
	require.NoError(t, io.DecodeFull(data, actual))
	require.Equal(t, w, *actual)

	js, err := json.Marshal(w)
	require.NoError(t, err)
	require.JSONEq(t, `{"invocation":"AQI=","verification":"AwQ="}`, string(js))
}
