package txmanager

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/nspcc-dev/neorpc-go/pkg/config/netmode"
	"github.com/nspcc-dev/neorpc-go/pkg/core/fee"
	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient/policy"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/context"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	testNet        = netmode.UnitTestNet
	testFeePerByte = 1000
	testExecFactor = 30
	testGas        = 1_0000_0000
	testHeight     = 100
)

type rpcStub struct {
	err      error
	feesErr  error
	invoke   *result.Invoke
	count    uint32
	net      netmode.Magic
	scripts  [][]byte
	signers  [][]transaction.Signer
	sent     *transaction.Transaction
	sendHash util.Uint256
}

func newRPCStub() *rpcStub {
	return &rpcStub{
		invoke: &result.Invoke{State: "HALT", GasConsumed: testGas},
		count:  testHeight,
		net:    testNet,
	}
}

func (r *rpcStub) InvokeContractVerify(contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error) {
	return nil, errors.New("not implemented")
}

func (r *rpcStub) InvokeScript(script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	r.scripts = append(r.scripts, script)
	r.signers = append(r.signers, signers)
	if len(r.scripts) == 1 {
		return r.invoke, r.err
	}
	return &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.Make(testFeePerByte), stackitem.Make(testExecFactor)},
	}, r.feesErr
}

func (r *rpcStub) GetBlockCount() (uint32, error) {
	return r.count, nil
}

func (r *rpcStub) GetVersion() (*result.Version, error) {
	v := new(result.Version)
	v.Protocol.Network = r.net
	return v, nil
}

func (r *rpcStub) SendRawTransaction(tx *transaction.Transaction) (util.Uint256, error) {
	r.sent = tx
	return r.sendHash, nil
}

type keyProvider struct {
	*keys.PrivateKey
}

func (k keyProvider) SignTx(net netmode.Magic, tx *transaction.Transaction) ([]byte, error) {
	return k.SignHashable(uint32(net), tx), nil
}

func newKeys(t *testing.T, n int) []*keys.PrivateKey {
	res := make([]*keys.PrivateKey, n)
	for i := range res {
		var err error
		res[i], err = keys.NewPrivateKey()
		require.NoError(t, err)
	}
	return res
}

func multisigScript(t *testing.T, m int, privs []*keys.PrivateKey) []byte {
	pubs := make(keys.PublicKeys, len(privs))
	for i := range privs {
		pubs[i] = privs[i].PublicKey()
	}
	script, err := smartcontract.CreateMultiSigRedeemScript(m, pubs)
	require.NoError(t, err)
	return script
}

func newManager(t *testing.T, rpc *rpcStub, opts Options) *Manager {
	m, err := New(rpc, opts)
	require.NoError(t, err)
	return m
}

func TestNew(t *testing.T) {
	m := newManager(t, newRPCStub(), Options{})
	require.Equal(t, testNet, m.Network())
	require.Equal(t, uint32(DefaultValidUntilHorizon), m.opts.ValidUntilHorizon)

	_, err := New(newRPCStub(), Options{MaxSystemFee: -1})
	require.Error(t, err)
}

func TestDraftSingleSigner(t *testing.T) {
	rpc := newRPCStub()
	m := newManager(t, rpc, Options{})
	priv := newKeys(t, 1)[0]
	verif := priv.PublicKey().GetVerificationScript()
	script := []byte{1, 2, 3}

	tx, err := m.Draft(script, []Signer{{
		Signer: transaction.Signer{Scopes: transaction.CalledByEntry},
		Script: verif,
	}})
	require.NoError(t, err)
	require.Equal(t, AwaitingSignatures, tx.State())

	require.Equal(t, 2, len(rpc.scripts))
	require.Equal(t, script, rpc.scripts[0])
	require.Equal(t, priv.GetScriptHash(), rpc.signers[0][0].Account)
	require.Nil(t, rpc.signers[1])

	raw := tx.Transaction()
	require.Equal(t, int64(testGas), raw.SystemFee)
	require.Equal(t, uint32(testHeight+DefaultValidUntilHorizon), raw.ValidUntilBlock)
	require.Equal(t, priv.GetScriptHash(), raw.Sender())

	_, err = tx.Signed()
	require.ErrorIs(t, err, ErrIncompleteSignatures)
	_, err = m.Send(tx)
	require.ErrorIs(t, err, ErrIncompleteSignatures)
	require.Nil(t, rpc.sent)

	require.NoError(t, tx.Sign(keyProvider{priv}))
	require.Equal(t, Signed, tx.State())

	signed, err := tx.Signed()
	require.NoError(t, err)
	require.Equal(t, raw.Hash(), signed.Hash())
	require.True(t, priv.PublicKey().VerifyHashable(signed.Scripts[0].InvocationScript[2:], uint32(testNet), signed))

	// The fee covers the size of the signed transaction exactly.
	execFee, _ := fee.Calculate(testExecFactor, verif)
	require.Equal(t, int64(signed.Size())*testFeePerByte+execFee, signed.NetworkFee)

	require.ErrorIs(t, tx.Sign(keyProvider{priv}), ErrAlreadySigned)
	require.ErrorIs(t, tx.AddSignature(priv.GetScriptHash(), priv.PublicKey(), make([]byte, 64)), ErrAlreadySigned)
	require.ErrorIs(t, tx.SetFees(1, 1), ErrAlreadySigned)

	rpc.sendHash = signed.Hash()
	h, err := m.Send(tx)
	require.NoError(t, err)
	require.Equal(t, signed.Hash(), h)
	require.Equal(t, signed.Hash(), rpc.sent.Hash())
}

func TestDraftErrors(t *testing.T) {
	priv := newKeys(t, 1)[0]
	signers := []Signer{{Script: priv.PublicKey().GetVerificationScript()}}

	t.Run("empty script", func(t *testing.T) {
		m := newManager(t, newRPCStub(), Options{})
		_, err := m.Draft(nil, signers)
		require.Error(t, err)
	})
	t.Run("no signers", func(t *testing.T) {
		m := newManager(t, newRPCStub(), Options{})
		_, err := m.Draft([]byte{1}, nil)
		require.ErrorIs(t, err, ErrNoSigners)
	})
	t.Run("non-standard script", func(t *testing.T) {
		m := newManager(t, newRPCStub(), Options{})
		_, err := m.Draft([]byte{1}, []Signer{{Script: []byte{1, 2, 3}}})
		require.ErrorIs(t, err, context.ErrUnsupportedScript)
	})
	t.Run("account mismatch", func(t *testing.T) {
		m := newManager(t, newRPCStub(), Options{})
		_, err := m.Draft([]byte{1}, []Signer{{
			Signer: transaction.Signer{Account: util.Uint160{1, 2, 3}},
			Script: priv.PublicKey().GetVerificationScript(),
		}})
		require.Error(t, err)
	})
	t.Run("duplicate signer", func(t *testing.T) {
		m := newManager(t, newRPCStub(), Options{})
		_, err := m.Draft([]byte{1}, append(signers, signers[0]))
		require.Error(t, err)
	})
	t.Run("fault", func(t *testing.T) {
		rpc := newRPCStub()
		rpc.invoke = &result.Invoke{State: "FAULT", FaultException: "at instruction 0 (ABORT)"}
		m := newManager(t, rpc, Options{})
		_, err := m.Draft([]byte{1}, signers)
		var feeErr *FeeEstimationError
		require.ErrorAs(t, err, &feeErr)
		var fault *unwrap.FaultError
		require.ErrorAs(t, err, &fault)
		require.Equal(t, "at instruction 0 (ABORT)", fault.Exception)
	})
	t.Run("rpc error", func(t *testing.T) {
		rpc := newRPCStub()
		rpc.err = errors.New("connection refused")
		m := newManager(t, rpc, Options{})
		_, err := m.Draft([]byte{1}, signers)
		var feeErr *FeeEstimationError
		require.ErrorAs(t, err, &feeErr)
		require.Equal(t, rpc.err, feeErr.Err)
	})
	t.Run("policy error", func(t *testing.T) {
		rpc := newRPCStub()
		rpc.feesErr = errors.New("connection refused")
		m := newManager(t, rpc, Options{})
		_, err := m.Draft([]byte{1}, signers)
		var feeErr *FeeEstimationError
		require.ErrorAs(t, err, &feeErr)
		require.ErrorIs(t, err, rpc.feesErr)
	})
	t.Run("system fee limit", func(t *testing.T) {
		m := newManager(t, newRPCStub(), Options{MaxSystemFee: testGas - 1})
		_, err := m.Draft([]byte{1}, signers)
		var fundsErr *InsufficientFundsError
		require.ErrorAs(t, err, &fundsErr)
		require.Equal(t, "system", fundsErr.Fee)
		require.Equal(t, int64(testGas), fundsErr.Required)
	})
	t.Run("network fee limit", func(t *testing.T) {
		m := newManager(t, newRPCStub(), Options{MaxNetworkFee: 1})
		_, err := m.Draft([]byte{1}, signers)
		var fundsErr *InsufficientFundsError
		require.ErrorAs(t, err, &fundsErr)
		require.Equal(t, "network", fundsErr.Fee)
	})
}

func TestMultisigThreshold(t *testing.T) {
	privs := newKeys(t, 4)
	verif := multisigScript(t, 3, privs)
	m := newManager(t, newRPCStub(), Options{})

	tx, err := m.Draft([]byte{1}, []Signer{{Script: verif}})
	require.NoError(t, err)
	account := tx.Transaction().Sender()

	t.Run("bad signature", func(t *testing.T) {
		err := tx.AddSignature(account, privs[0].PublicKey(), make([]byte, 64))
		var sigErr *SignatureMismatchError
		require.ErrorAs(t, err, &sigErr)
		require.Equal(t, account, sigErr.Account)
		require.ErrorIs(t, err, context.ErrInvalidSignature)
	})
	t.Run("wrong network", func(t *testing.T) {
		sig := privs[0].SignHashable(uint32(netmode.MainNet), tx.Transaction())
		err := tx.AddSignature(account, privs[0].PublicKey(), sig)
		var sigErr *SignatureMismatchError
		require.ErrorAs(t, err, &sigErr)
	})
	t.Run("unknown key", func(t *testing.T) {
		other := newKeys(t, 1)[0]
		err := tx.AddSignature(account, other.PublicKey(), other.SignHashable(uint32(testNet), tx.Transaction()))
		var sigErr *SignatureMismatchError
		require.ErrorAs(t, err, &sigErr)
		require.ErrorIs(t, err, context.ErrUnknownKey)
		require.ErrorIs(t, tx.Sign(keyProvider{other}), ErrUnknownSigner)
	})
	t.Run("unknown account", func(t *testing.T) {
		err := tx.AddSignature(util.Uint160{1}, privs[0].PublicKey(), nil)
		require.ErrorIs(t, err, ErrUnknownSigner)
	})
	t.Run("nil key", func(t *testing.T) {
		err := tx.AddSignature(account, nil, make([]byte, 64))
		var sigErr *SignatureMismatchError
		require.ErrorAs(t, err, &sigErr)
		require.ErrorIs(t, err, ErrNoPublicKey)
		require.Contains(t, err.Error(), "<nil>")
	})

	// Bad signatures don't count, keys sign in arbitrary order.
	require.NoError(t, tx.Sign(keyProvider{privs[3]}))
	require.Equal(t, AwaitingSignatures, tx.State())
	require.NoError(t, tx.Sign(keyProvider{privs[1]}))
	require.Equal(t, AwaitingSignatures, tx.State())
	_, err = tx.Signed()
	require.ErrorIs(t, err, ErrIncompleteSignatures)

	require.NoError(t, tx.Sign(keyProvider{privs[2]}))
	require.Equal(t, Signed, tx.State())

	signed, err := tx.Signed()
	require.NoError(t, err)
	require.Equal(t, verif, signed.Scripts[0].VerificationScript)
	inv := signed.Scripts[0].InvocationScript
	require.Equal(t, 3*66, len(inv))
	// Signatures follow the order of keys in the script.
	_, scriptKeys, err := smartcontract.ParseMultiSigContract(verif)
	require.NoError(t, err)
	last := -1
	for i := 0; i < 3; i++ {
		idx := keyIndex(scriptKeys, inv[i*66+2:(i+1)*66], signed)
		require.Greater(t, idx, last)
		last = idx
	}

	execFee, _ := fee.Calculate(testExecFactor, verif)
	require.Equal(t, int64(signed.Size())*testFeePerByte+execFee, signed.NetworkFee)
}

func keyIndex(pubs keys.PublicKeys, sig []byte, tx *transaction.Transaction) int {
	for i := range pubs {
		if pubs[i].VerifyHashable(sig, uint32(testNet), tx) {
			return i
		}
	}
	return -1
}

func TestExcessSignatures(t *testing.T) {
	privs := newKeys(t, 3)
	multi := multisigScript(t, 1, privs)
	single := newKeys(t, 1)[0]
	m := newManager(t, newRPCStub(), Options{})

	tx, err := m.Draft([]byte{1}, []Signer{
		{Script: single.PublicKey().GetVerificationScript()},
		{Script: multi},
	})
	require.NoError(t, err)

	// Both multisig keys are accepted while the sender is missing, only one
	// of them makes it into the witness.
	require.NoError(t, tx.Sign(keyProvider{privs[2]}))
	require.NoError(t, tx.Sign(keyProvider{privs[0]}))
	require.Equal(t, AwaitingSignatures, tx.State())
	require.NoError(t, tx.Sign(keyProvider{single}))
	require.Equal(t, Signed, tx.State())

	signed, err := tx.Signed()
	require.NoError(t, err)
	require.Len(t, signed.Scripts, 2)
	require.Equal(t, 66, len(signed.Scripts[1].InvocationScript))
	_, scriptKeys, err := smartcontract.ParseMultiSigContract(multi)
	require.NoError(t, err)
	idx := keyIndex(scriptKeys, signed.Scripts[1].InvocationScript[2:], signed)
	require.Equal(t, 0, idx)
}

func TestConcurrentSignatures(t *testing.T) {
	privs := newKeys(t, 7)
	verif := multisigScript(t, 5, privs)
	m := newManager(t, newRPCStub(), Options{})
	tx, err := m.Draft([]byte{1}, []Signer{{Script: verif}})
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		errs = make([]error, len(privs))
	)
	for i := range privs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = tx.Sign(keyProvider{privs[i]})
		}(i)
	}
	wg.Wait()

	var ok, late int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadySigned):
			late++
		default:
			t.Fatal(err)
		}
	}
	require.Equal(t, 5, ok)
	require.Equal(t, 2, late)
	require.Equal(t, Signed, tx.State())
}

func TestSetFees(t *testing.T) {
	privs := newKeys(t, 2)
	verif := multisigScript(t, 2, privs)
	m := newManager(t, newRPCStub(), Options{MaxNetworkFee: 10_0000_0000})
	tx, err := m.Draft([]byte{1}, []Signer{{Script: verif}})
	require.NoError(t, err)

	require.NoError(t, tx.Sign(keyProvider{privs[0]}))
	oldHash := tx.Hash()

	require.Error(t, tx.SetFees(-1, 0))
	var fundsErr *InsufficientFundsError
	require.ErrorAs(t, tx.SetFees(1, 20_0000_0000), &fundsErr)

	require.NoError(t, tx.SetFees(2*testGas, 5_0000_0000))
	require.NotEqual(t, oldHash, tx.Hash())
	raw := tx.Transaction()
	require.Equal(t, int64(2*testGas), raw.SystemFee)
	require.Equal(t, int64(5_0000_0000), raw.NetworkFee)

	// The old signature was dropped, both keys are needed again.
	require.NoError(t, tx.Sign(keyProvider{privs[1]}))
	require.Equal(t, AwaitingSignatures, tx.State())
	require.NoError(t, tx.Sign(keyProvider{privs[0]}))
	require.Equal(t, Signed, tx.State())
}

func TestMarshalContext(t *testing.T) {
	privs := newKeys(t, 2)
	verif := multisigScript(t, 2, privs)
	m := newManager(t, newRPCStub(), Options{})
	tx, err := m.Draft([]byte{1}, []Signer{{Script: verif}})
	require.NoError(t, err)
	require.NoError(t, tx.Sign(keyProvider{privs[0]}))

	data, err := json.Marshal(tx)
	require.NoError(t, err)

	pc := new(context.ParameterContext)
	require.NoError(t, json.Unmarshal(data, pc))
	require.Equal(t, testNet, pc.Network)
	require.Equal(t, tx.Hash(), pc.Verifiable.Hash())

	// The other party finishes signing offline.
	sender := tx.Transaction().Sender()
	require.NoError(t, pc.AddSignature(sender, verif, privs[1].PublicKey(), privs[1].SignHashable(uint32(testNet), pc.Verifiable)))
	require.True(t, pc.IsComplete(sender))
	w, err := pc.GetWitness(sender)
	require.NoError(t, err)
	require.Equal(t, verif, w.VerificationScript)
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	priv := newKeys(t, 1)[0]
	m := newManager(t, newRPCStub(), Options{Logger: zap.New(core)})
	tx, err := m.Draft([]byte{1}, []Signer{{Script: priv.PublicKey().GetVerificationScript()}})
	require.NoError(t, err)
	require.NoError(t, tx.Sign(keyProvider{priv}))

	var states []string
	for _, e := range logs.FilterMessage("transaction state changed").All() {
		states = append(states, e.ContextMap()["state"].(string))
	}
	require.Equal(t, []string{AwaitingSignatures.String(), Signed.String()}, states)
	require.Equal(t, 1, logs.FilterMessage("signature added").Len())
}

func TestNetworkFee(t *testing.T) {
	priv := newKeys(t, 1)[0]
	tx := transaction.New([]byte{1}, 0)
	tx.Signers = []transaction.Signer{{Account: priv.GetScriptHash()}}

	_, err := NetworkFee(tx, policy.FeeParams{})
	require.ErrorIs(t, err, transaction.ErrInvalidWitnessNum)

	tx.Scripts = []transaction.Witness{{VerificationScript: []byte{1}}}
	_, err = NetworkFee(tx, policy.FeeParams{})
	require.ErrorIs(t, err, context.ErrUnsupportedScript)

	tx.Scripts[0].VerificationScript = priv.PublicKey().GetVerificationScript()
	zero, err := NetworkFee(tx, policy.FeeParams{})
	require.NoError(t, err)
	require.Equal(t, int64(0), zero)

	withSize, err := NetworkFee(tx, policy.FeeParams{FeePerByte: 1})
	require.NoError(t, err)
	withExec, err := NetworkFee(tx, policy.FeeParams{FeePerByte: 1, ExecFeeFactor: 1})
	require.NoError(t, err)
	require.Less(t, withSize, withExec)
}
