package invoker

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type rpcInv struct {
	resInv *result.Invoke
	resTrm bool
	resItm []stackitem.Item
	err    error

	script  []byte
	signers []transaction.Signer
}

func (r *rpcInv) InvokeContractVerify(contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error) {
	r.signers = signers
	return r.resInv, r.err
}
func (r *rpcInv) InvokeScript(script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	r.script, r.signers = script, signers
	return r.resInv, r.err
}

type rpcInvSessions struct {
	rpcInv
}

func (r *rpcInvSessions) TerminateSession(sessionID uuid.UUID) (bool, error) {
	return r.resTrm, r.err
}
func (r *rpcInvSessions) TraverseIterator(sessionID, iteratorID uuid.UUID, maxItemsCount int) ([]stackitem.Item, error) {
	if r.err != nil {
		return nil, r.err
	}
	if maxItemsCount > len(r.resItm) {
		maxItemsCount = len(r.resItm)
	}
	items := r.resItm[:maxItemsCount]
	r.resItm = r.resItm[maxItemsCount:]
	return items, nil
}

func TestInvoker(t *testing.T) {
	resExp := &result.Invoke{State: "HALT"}
	signers := []transaction.Signer{{Account: util.Uint160{1, 2, 3}, Scopes: transaction.CalledByEntry}}
	ri := &rpcInv{resInv: resExp}
	inv := New(ri, signers)

	res, err := inv.Call(util.Uint160{}, "method")
	require.NoError(t, err)
	require.Equal(t, resExp, res)
	require.Equal(t, signers, ri.signers)

	expected, err := smartcontract.CreateCallScript(util.Uint160{}, "method", 42)
	require.NoError(t, err)
	_, err = inv.Call(util.Uint160{}, "method", 42)
	require.NoError(t, err)
	require.Equal(t, expected, ri.script)

	res, err = inv.Verify(util.Uint160{}, nil, "param")
	require.NoError(t, err)
	require.Equal(t, resExp, res)

	res, err = inv.Run([]byte{1})
	require.NoError(t, err)
	require.Equal(t, resExp, res)
	require.Equal(t, []byte{1}, ri.script)

	_, err = inv.Verify(util.Uint160{}, nil, make(chan struct{}))
	require.Error(t, err)

	_, err = inv.Call(util.Uint160{}, "method", make(chan struct{}))
	var be *smartcontract.BuildError
	require.True(t, errors.As(err, &be))
	require.Equal(t, 0, be.Arg)

	_, err = inv.Call(util.Uint160{}, "")
	require.ErrorIs(t, err, smartcontract.ErrEmptyOperation)

	ri.err = errors.New("net")
	_, err = inv.Run([]byte{1})
	require.Error(t, err)
}

func TestInvokerSessions(t *testing.T) {
	t.Run("unsupported", func(t *testing.T) {
		inv := New(&rpcInv{}, nil)
		require.ErrorIs(t, inv.TerminateSession(uuid.UUID{}), ErrNoSessions)
		_, err := inv.TraverseIterator(uuid.UUID{}, &result.Iterator{ID: &uuid.UUID{}}, 1)
		require.ErrorIs(t, err, ErrNoSessions)
	})
	t.Run("terminate session", func(t *testing.T) {
		ri := &rpcInvSessions{}
		inv := New(ri, nil)
		ri.err = errors.New("")
		require.Error(t, inv.TerminateSession(uuid.UUID{}))
		ri.err = nil
		ri.resTrm = false
		require.Error(t, inv.TerminateSession(uuid.UUID{}))
		ri.resTrm = true
		require.NoError(t, inv.TerminateSession(uuid.UUID{}))
	})
	t.Run("traverse iterator", func(t *testing.T) {
		ri := &rpcInvSessions{}
		inv := New(ri, nil)
		for _, n := range []int{0, 1, 2} {
			res, err := inv.TraverseIterator(uuid.UUID{}, &result.Iterator{
				Values: []stackitem.Item{stackitem.Make(42)},
			}, n)
			require.NoError(t, err)
			require.Equal(t, []stackitem.Item{stackitem.Make(42)}, res)
		}

		res, err := inv.TraverseIterator(uuid.UUID{}, &result.Iterator{}, 2)
		require.NoError(t, err)
		require.Empty(t, res)

		ri.err = errors.New("")
		_, err = inv.TraverseIterator(uuid.UUID{}, &result.Iterator{ID: &uuid.UUID{}}, 2)
		require.Error(t, err)
	})
	t.Run("expanded values first", func(t *testing.T) {
		ri := &rpcInvSessions{}
		ri.resItm = []stackitem.Item{stackitem.Make(1), stackitem.Make(2), stackitem.Make(3)}
		inv := New(ri, nil)

		sessionID := uuid.New()
		iteratorID := uuid.New()
		iter := &result.Iterator{
			ID:     &iteratorID,
			Values: []stackitem.Item{stackitem.Make(10), stackitem.Make(20)},
		}
		res, err := inv.TraverseIterator(sessionID, iter, 2)
		require.NoError(t, err)
		require.Equal(t, []stackitem.Item{stackitem.Make(10), stackitem.Make(20)}, res)

		res, err = inv.TraverseIterator(sessionID, iter, 2)
		require.NoError(t, err)
		require.Equal(t, []stackitem.Item{stackitem.Make(1), stackitem.Make(2)}, res)

		res, err = inv.TraverseIterator(sessionID, iter, 2)
		require.NoError(t, err)
		require.Equal(t, []stackitem.Item{stackitem.Make(3)}, res)

		res, err = inv.TraverseIterator(sessionID, iter, 2)
		require.NoError(t, err)
		require.Empty(t, res)
	})
}

func TestInvokerSigners(t *testing.T) {
	ri := &rpcInv{resInv: &result.Invoke{State: "HALT"}}
	inv := New(ri, nil)

	require.Nil(t, inv.Signers())

	s := []transaction.Signer{}
	inv = New(ri, s)
	require.Equal(t, s, inv.Signers())

	s = append(s, transaction.Signer{Account: util.Uint160{1, 2, 3}, Scopes: transaction.CalledByEntry})
	inv = New(ri, s)
	require.Equal(t, s, inv.Signers())
}
