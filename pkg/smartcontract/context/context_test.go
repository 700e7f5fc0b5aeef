package context

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/internal/testchain"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm"
	"github.com/stretchr/testify/require"
)

func getContractTx(signer util.Uint160) *transaction.Transaction {
	tx := transaction.New([]byte{byte(0x40)}, 0)
	tx.Nonce = 42
	tx.ValidUntilBlock = 100500
	tx.Signers = []transaction.Signer{{Account: signer, Scopes: transaction.CalledByEntry}}
	tx.Scripts = []transaction.Witness{}
	return tx
}

func multisigFixture(t *testing.T, m int) ([]byte, util.Uint160, []*keys.PrivateKey) {
	privs := make([]*keys.PrivateKey, 3)
	pubs := make(keys.PublicKeys, 3)
	for i := range privs {
		privs[i] = testchain.PrivateKey(i)
		pubs[i] = privs[i].PublicKey()
	}
	script, err := smartcontract.CreateMultiSigRedeemScript(m, pubs)
	require.NoError(t, err)
	return script, hash.Hash160(script), privs
}

func TestParameterContext_AddSignatureSimpleContract(t *testing.T) {
	priv := testchain.PrivateKey(0)
	pub := priv.PublicKey()
	script := pub.GetVerificationScript()
	tx := getContractTx(pub.GetScriptHash())
	sig := priv.SignHashable(uint32(testchain.Network()), tx)

	t.Run("invalid signature", func(t *testing.T) {
		c := NewParameterContext(testchain.Network(), tx)
		wrong := testchain.PrivateKey(1).SignHashable(uint32(testchain.Network()), tx)
		require.ErrorIs(t, c.AddSignature(pub.GetScriptHash(), script, pub, wrong), ErrInvalidSignature)
		require.False(t, c.IsComplete(pub.GetScriptHash()))
	})

	t.Run("no key", func(t *testing.T) {
		c := NewParameterContext(testchain.Network(), tx)
		require.ErrorIs(t, c.AddSignature(pub.GetScriptHash(), script, nil, sig), ErrInvalidSignature)
		require.Empty(t, c.Items)
	})

	t.Run("wrong key", func(t *testing.T) {
		c := NewParameterContext(testchain.Network(), tx)
		other := testchain.PrivateKey(1)
		otherSig := other.SignHashable(uint32(testchain.Network()), tx)
		require.ErrorIs(t, c.AddSignature(pub.GetScriptHash(), script, other.PublicKey(), otherSig), ErrUnknownKey)
	})

	t.Run("unsupported script", func(t *testing.T) {
		c := NewParameterContext(testchain.Network(), tx)
		require.ErrorIs(t, c.AddSignature(util.Uint160{}, []byte{0x40}, pub, sig), ErrUnsupportedScript)
	})

	c := NewParameterContext(testchain.Network(), tx)
	require.NoError(t, c.AddSignature(pub.GetScriptHash(), script, pub, sig))
	require.True(t, c.IsComplete(pub.GetScriptHash()))
	require.ErrorIs(t, c.AddSignature(pub.GetScriptHash(), script, pub, sig), ErrSignatureAdded)

	item := c.Items[pub.GetScriptHash()]
	require.NotNil(t, item)
	require.Equal(t, sig, item.GetSignature(pub))
	require.Equal(t, 1, len(item.Parameters))
	require.Equal(t, smartcontract.SignatureType, item.Parameters[0].Type)
	require.Equal(t, sig, item.Parameters[0].Value)

	w, err := c.GetWitness(pub.GetScriptHash())
	require.NoError(t, err)
	require.Equal(t, script, w.VerificationScript)
	require.Equal(t, append([]byte{0x0c, 64}, sig...), w.InvocationScript)

	_, err = c.GetWitness(util.Uint160{1})
	require.Error(t, err)
}

func TestParameterContext_AddSignatureMultisig(t *testing.T) {
	script, h, privs := multisigFixture(t, 2)
	tx := getContractTx(h)
	net := uint32(testchain.Network())
	sigs := make([][]byte, len(privs))
	for i := range privs {
		sigs[i] = privs[i].SignHashable(net, tx)
	}

	t.Run("below threshold", func(t *testing.T) {
		c := NewParameterContext(testchain.Network(), tx)
		require.NoError(t, c.AddSignature(h, script, privs[2].PublicKey(), sigs[2]))
		require.False(t, c.IsComplete(h))
		_, err := c.GetWitness(h)
		require.ErrorIs(t, err, ErrThresholdNotMet)
	})

	t.Run("foreign key", func(t *testing.T) {
		c := NewParameterContext(testchain.Network(), tx)
		foreign := testchain.PrivateKey(3)
		require.ErrorIs(t, c.AddSignature(h, script, foreign.PublicKey(), foreign.SignHashable(net, tx)), ErrUnknownKey)
	})

	t.Run("mismatch doesn't count", func(t *testing.T) {
		c := NewParameterContext(testchain.Network(), tx)
		require.NoError(t, c.AddSignature(h, script, privs[0].PublicKey(), sigs[0]))
		require.ErrorIs(t, c.AddSignature(h, script, privs[1].PublicKey(), sigs[2]), ErrInvalidSignature)
		require.False(t, c.IsComplete(h))
	})

	t.Run("any subset of m keys", func(t *testing.T) {
		for _, pair := range [][2]int{{0, 1}, {1, 0}, {0, 2}, {2, 1}} {
			c := NewParameterContext(testchain.Network(), tx)
			for _, i := range pair {
				require.NoError(t, c.AddSignature(h, script, privs[i].PublicKey(), sigs[i]))
			}
			require.True(t, c.IsComplete(h))
			w, err := c.GetWitness(h)
			require.NoError(t, err)
			require.Equal(t, script, w.VerificationScript)

			expected := orderedByScript(t, script, privs, sigs, pair[:])
			require.Equal(t, InvocationScript(expected), w.InvocationScript)
		}
	})

	t.Run("excess signatures", func(t *testing.T) {
		c := NewParameterContext(testchain.Network(), tx)
		for _, i := range []int{2, 1, 0} {
			require.NoError(t, c.AddSignature(h, script, privs[i].PublicKey(), sigs[i]))
		}
		w, err := c.GetWitness(h)
		require.NoError(t, err)
		expected := orderedByScript(t, script, privs, sigs, []int{0, 1, 2})[:2]
		require.Equal(t, InvocationScript(expected), w.InvocationScript)
	})
}

// orderedByScript returns signatures of the given signers sorted by the key
// position in the verification script.
func orderedByScript(t *testing.T, script []byte, privs []*keys.PrivateKey, sigs [][]byte, signers []int) [][]byte {
	_, pubs, ok := vm.ParseMultiSigContract(script)
	require.True(t, ok)
	var res [][]byte
	for _, p := range pubs {
		for _, i := range signers {
			if hex.EncodeToString(privs[i].PublicKey().Bytes()) == hex.EncodeToString(p) {
				res = append(res, sigs[i])
			}
		}
	}
	return res
}

func TestOrderSignatures(t *testing.T) {
	script, _, privs := multisigFixture(t, 2)
	key := func(i int) string { return hex.EncodeToString(privs[i].PublicKey().Bytes()) }

	_, err := OrderSignatures([]byte{0x40}, nil)
	require.ErrorIs(t, err, ErrNotMultisig)

	_, err = OrderSignatures(script, map[string][]byte{key(0): {1}})
	require.ErrorIs(t, err, ErrThresholdNotMet)

	_, err = OrderSignatures(script, map[string][]byte{key(0): {1}, "02ff": {2}})
	require.ErrorIs(t, err, ErrThresholdNotMet)

	sigs := map[string][]byte{key(0): {0}, key(1): {1}, key(2): {2}}
	res, err := OrderSignatures(script, sigs)
	require.NoError(t, err)
	require.Equal(t, 2, len(res))

	again, err := OrderSignatures(script, sigs)
	require.NoError(t, err)
	require.Equal(t, res, again)
}

func TestParameterContext_MarshalJSON(t *testing.T) {
	script, h, privs := multisigFixture(t, 2)
	tx := getContractTx(h)
	c := NewParameterContext(testchain.Network(), tx)
	require.NoError(t, c.AddSignature(h, script, privs[1].PublicKey(), privs[1].SignHashable(uint32(testchain.Network()), tx)))

	data, err := json.Marshal(c)
	require.NoError(t, err)

	actual := new(ParameterContext)
	require.NoError(t, json.Unmarshal(data, actual))
	require.Equal(t, c.Type, actual.Type)
	require.Equal(t, c.Network, actual.Network)
	require.Equal(t, tx.Hash(), actual.Verifiable.Hash())
	require.Equal(t, c.Items, actual.Items)

	t.Run("continue signing", func(t *testing.T) {
		require.NoError(t, actual.AddSignature(h, script, privs[0].PublicKey(), privs[0].SignHashable(uint32(testchain.Network()), actual.Verifiable)))
		require.True(t, actual.IsComplete(h))
	})

	t.Run("unsupported type", func(t *testing.T) {
		js := `{"type":"Neo.Network.P2P.Payloads.Block","data":"","items":{},"network":42}`
		require.Error(t, json.Unmarshal([]byte(js), new(ParameterContext)))
	})
}
