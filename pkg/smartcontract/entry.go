package smartcontract

import (
	"fmt"
	"strings"

	"github.com/nspcc-dev/neorpc-go/pkg/core/interop/interopnames"
	"github.com/nspcc-dev/neorpc-go/pkg/core/native/nativehashes"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/emit"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/stackitem"
)

// ParseTarget parses a contract script hash given either as an LE hex string
// (with an optional "0x" prefix) or as an address.
func ParseTarget(s string) (util.Uint160, error) {
	u, err := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err == nil {
		return u, nil
	}
	u, err = address.StringToUint160(s)
	if err != nil {
		return u, newBuildError(-1, fmt.Errorf("%w: %q", ErrInvalidTarget, s))
	}
	return u, nil
}

// CreateCallScript returns a script that calls contract's method with
// the specified parameters. Whatever this method returns remains on the stack.
// Parameters are packed into an array in the same order they're given (so
// they're pushed in reverse). Any value accepted by NewParameterFromValue
// can be passed as well as stack items. The result is deterministic: the same
// input always produces the same script.
func CreateCallScript(contract util.Uint160, method string, params ...any) ([]byte, error) {
	b := NewBuilder()
	b.InvokeMethod(contract, method, params...)
	return b.Script()
}

// CreateCallWithAssertScript returns a script that calls contract's method with
// the specified parameters expecting a Boolean value to be return that then is
// used for ASSERT. See also (*Builder).InvokeWithAssert.
func CreateCallWithAssertScript(contract util.Uint160, method string, params ...any) ([]byte, error) {
	b := NewBuilder()
	b.InvokeWithAssert(contract, method, params...)
	return b.Script()
}

// CreateDeploymentScript returns a script that deploys the given contract via
// the native ContractManagement contract. nefFile and manifest are serialized
// NEF and JSON-encoded manifest, data is passed to the contract's _deploy
// method if non-nil.
func CreateDeploymentScript(nefFile []byte, manifest []byte, data any) ([]byte, error) {
	if len(nefFile) == 0 {
		return nil, newBuildError(0, fmt.Errorf("%w: empty NEF", ErrUnsupportedArgument))
	}
	if len(manifest) == 0 {
		return nil, newBuildError(1, fmt.Errorf("%w: empty manifest", ErrUnsupportedArgument))
	}
	params := []any{nefFile, manifest}
	if data != nil {
		params = append(params, data)
	}
	return CreateCallScript(nativehashes.ContractManagement, "deploy", params...)
}

// toEmitable converts a single call argument into a value emit.Any can handle.
func toEmitable(v any) (any, error) {
	if si, ok := v.(stackitem.Item); ok {
		return si, nil
	}
	p, err := NewParameterFromValue(v)
	if err != nil {
		return nil, err
	}
	return ExpandParameterToEmitable(p)
}

// emitArgs emits the call arguments array checking every argument separately
// so that the failing one can be reported.
func emitArgs(w *io.BinWriter, params []any) error {
	args := make([]any, len(params))
	scratch := io.NewBufBinWriter()
	for i := range params {
		v, err := toEmitable(params[i])
		if err != nil {
			return newBuildError(i, fmt.Errorf("%w: %s", ErrUnsupportedArgument, err))
		}
		scratch.Reset()
		emit.Any(scratch.BinWriter, v)
		if scratch.Err != nil {
			return newBuildError(i, fmt.Errorf("%w: %s", ErrUnsupportedArgument, scratch.Err))
		}
		args[i] = v
	}
	emit.Array(w, args...)
	return nil
}

func emitCall(w *io.BinWriter, contract util.Uint160, method string, f callflag.CallFlag, params []any) error {
	if method == "" {
		return newBuildError(-1, ErrEmptyOperation)
	}
	if err := emitArgs(w, params); err != nil {
		return err
	}
	emit.Int(w, int64(f))
	emit.String(w, method)
	emit.Bytes(w, contract.BytesBE())
	emit.Syscall(w, interopnames.SystemContractCall)
	return w.Err
}
