package neorpc

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	_, err := NewRequest(1, "")
	require.Error(t, err)

	r, err := NewRequest(7, "getblockcount")
	require.NoError(t, err)
	data, err := json.Marshal(r)
	require.NoError(t, err)
	require.JSONEq(t, `{"jsonrpc":"2.0","method":"getblockcount","params":[],"id":7}`, string(data))

	r, err = NewRequest(8, "getblock", "0xabcd", 1)
	require.NoError(t, err)
	var actual Request
	data, err = json.Marshal(r)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &actual))
	require.Equal(t, r.ID, actual.ID)
	require.Equal(t, r.Method, actual.Method)
	require.Equal(t, []any{"0xabcd", float64(1)}, actual.Params)
}

func TestResponseUnwrap(t *testing.T) {
	t.Run("result", func(t *testing.T) {
		var r Response
		require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":1,"result":100}`), &r))
		res, err := r.Unwrap()
		require.NoError(t, err)
		require.Equal(t, json.RawMessage(`100`), res)
		require.True(t, r.IDMatches(1))
		require.False(t, r.IDMatches(2))
		require.False(t, r.HasNullID())
	})
	t.Run("null id", func(t *testing.T) {
		var r Response
		require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"Parse error"}}`), &r))
		require.True(t, r.HasNullID())
		_, err := r.Unwrap()
		require.ErrorIs(t, err, NewParseError(""))
	})
	t.Run("error", func(t *testing.T) {
		var r Response
		require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"Invalid params"}}`), &r))
		_, err := r.Unwrap()
		var rpcErr *Error
		require.True(t, errors.As(err, &rpcErr))
		require.Equal(t, int64(-32602), rpcErr.Code)
		require.Equal(t, "Invalid params", rpcErr.Message)
		require.ErrorIs(t, err, ErrInvalidParams)
	})
	t.Run("both", func(t *testing.T) {
		var r Response
		require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":1,"result":1,"error":{"code":-100,"message":"x"}}`), &r))
		_, err := r.Unwrap()
		var decErr *DecodeError
		require.True(t, errors.As(err, &decErr))
		require.Equal(t, "result", decErr.Field)
	})
	t.Run("neither", func(t *testing.T) {
		var r Response
		require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":1}`), &r))
		_, err := r.Unwrap()
		var decErr *DecodeError
		require.True(t, errors.As(err, &decErr))
	})
	t.Run("null result", func(t *testing.T) {
		var r Response
		require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":1,"result":null}`), &r))
		res, err := r.Unwrap()
		require.NoError(t, err)
		require.Equal(t, json.RawMessage(`null`), res)
	})
}

func TestResponseRoundtrip(t *testing.T) {
	r := Response{
		HeaderAndError: HeaderAndError{
			Header: Header{ID: json.RawMessage(`42`), JSONRPC: JSONRPCVersion},
		},
		Result: json.RawMessage(`{"a":1}`),
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	var actual Response
	require.NoError(t, json.Unmarshal(data, &actual))
	require.Equal(t, r, actual)
}

func TestErrorIs(t *testing.T) {
	e := NewError(ErrUnknownBlockCode, "Unknown block", "some data")
	require.ErrorIs(t, e, ErrUnknownBlock)
	require.NotErrorIs(t, e, ErrUnknownContract)
	require.Equal(t, "Unknown block (-101) - some data", e.Error())
	require.Equal(t, "Internal error (-32603)", NewInternalServerError("").Error())

	wrapped := WrapErrorWithData(ErrInvalidParams, "bad index")
	require.Equal(t, "bad index", wrapped.Data)
	require.Empty(t, ErrInvalidParams.Data)
	require.ErrorIs(t, wrapped, ErrInvalidParams)
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	e := &TransportError{Op: "send", Err: cause}
	require.ErrorIs(t, e, cause)
	assert.Equal(t, "transport send: connection refused", e.Error())

	e = &TransportError{Op: "read", StatusCode: 500, Err: cause}
	assert.Equal(t, "transport read: HTTP 500: connection refused", e.Error())

	d := &DecodeError{Field: "hash", Err: cause}
	require.ErrorIs(t, d, cause)
	assert.Contains(t, d.Error(), `"hash"`)
}

func TestSignerWithWitnessJSON(t *testing.T) {
	s := SignerWithWitness{
		Signer: transaction.Signer{
			Account: util.Uint160{1, 2, 3},
			Scopes:  transaction.CalledByEntry,
		},
		Witness: transaction.Witness{
			InvocationScript:   []byte{1, 2},
			VerificationScript: []byte{3, 4},
		},
	}
	data, err := json.Marshal(&s)
	require.NoError(t, err)
	var actual SignerWithWitness
	require.NoError(t, json.Unmarshal(data, &actual))
	require.Equal(t, s, actual)

	require.Error(t, json.Unmarshal([]byte(`{"account":"not an account","scopes":"None"}`), &actual))
}
