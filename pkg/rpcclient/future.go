package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/nspcc-dev/neorpc-go/pkg/neorpc"
)

var errNullResult = errors.New("null result")

// Future is a deferred result of an asynchronous RPC call. Every XxxAsync
// method of Client returns one, the blocking Xxx counterpart waits for the
// same Future, so both forms make exactly one exchange and produce the same
// errors.
type Future[T any] struct {
	done chan struct{}
	res  T
	err  error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(res T, err error) {
	f.res, f.err = res, err
	close(f.done)
}

// Done returns a channel that's closed when the result is ready.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result waits for the call to complete and returns its result.
func (f *Future[T]) Result() (T, error) {
	<-f.done
	return f.res, f.err
}

// Await is like Result, but stops waiting when ctx is done. The call itself
// is not affected by ctx, it still completes in background.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.res, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// await runs f to completion, every blocking Client method is built on it.
func await[T any](f *Future[T]) (T, error) {
	return f.Result()
}

// call issues a single request in a separate goroutine. ctx can cancel the
// call before the request is sent, after that it only prevents the response
// from being decoded.
func call[T any](c *Client, ctx context.Context, method string, params []any, decode func(json.RawMessage) (T, error)) *Future[T] {
	f := newFuture[T]()
	go func() {
		var zero T
		if err := ctx.Err(); err != nil {
			f.resolve(zero, err)
			return
		}
		raw, err := c.performRequest(method, params)
		if err != nil {
			f.resolve(zero, err)
			return
		}
		if err := ctx.Err(); err != nil {
			f.resolve(zero, err)
			return
		}
		f.resolve(decode(raw))
	}()
	return f
}

// failed returns an already resolved Future, it's used for arguments that
// can't be sent.
func failed[T any](err error) *Future[T] {
	var zero T
	f := newFuture[T]()
	f.resolve(zero, err)
	return f
}

// jsonResult decodes the result into a value of type T.
func jsonResult[T any](raw json.RawMessage) (T, error) {
	var res T
	if isNull(raw) {
		return res, &neorpc.DecodeError{Field: "result", Err: errNullResult}
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return res, decodeError(err)
	}
	return res, nil
}

// jsonPtrResult decodes the result into a newly allocated T.
func jsonPtrResult[T any](raw json.RawMessage) (*T, error) {
	if isNull(raw) {
		return nil, &neorpc.DecodeError{Field: "result", Err: errNullResult}
	}
	res := new(T)
	if err := json.Unmarshal(raw, res); err != nil {
		return nil, decodeError(err)
	}
	return res, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeError keeps decoder errors naming the field as is and attributes
// anything else to the result as a whole.
func decodeError(err error) error {
	var de *neorpc.DecodeError
	if errors.As(err, &de) {
		return err
	}
	return &neorpc.DecodeError{Field: "result", Err: err}
}
