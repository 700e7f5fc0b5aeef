package neorpc

import (
	"errors"
	"fmt"
)

// Error represents JSON-RPC 2.0 error type returned by the server.
type Error struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// Standard RPC error codes defined by the JSON-RPC 2.0 specification.
const (
	// InternalServerErrorCode is returned for internal RPC server error.
	InternalServerErrorCode = -32603
	// BadRequestCode is returned on parse error.
	BadRequestCode = -32700
	// InvalidRequestCode is returned on invalid request.
	InvalidRequestCode = -32600
	// MethodNotFoundCode is returned on unknown method calling.
	MethodNotFoundCode = -32601
	// InvalidParamsCode is returned on request with invalid params.
	InvalidParamsCode = -32602
)

// RPC error codes defined by the Neo JSON-RPC specification extension.
const (
	// ErrUnknownBlockCode is returned from a call that accepts as a parameter or searches for a header or a block
	// as a part of its job can't find it.
	ErrUnknownBlockCode = -101
	// ErrUnknownContractCode is returned from a call that accepts as a parameter or searches for a contract
	// as a part of its job can't find it.
	ErrUnknownContractCode = -102
	// ErrUnknownTransactionCode is returned from a call that accepts as a parameter or searches for a transaction
	// as a part of its job can't find it.
	ErrUnknownTransactionCode = -103
	// ErrUnknownStorageItemCode is returned from a call that looks for an item in the storage
	// as a part of its job can't find it.
	ErrUnknownStorageItemCode = -104
	// ErrUnknownScriptContainerCode is returned from a call that accepts as a parameter or searches for a script
	// container (a block or transaction) as a part of its job can't find it.
	ErrUnknownScriptContainerCode = -105
	// ErrUnknownStateRootCode is returned from a call that accepts as a parameter or searches for a state root
	// as a part of its job can't find it.
	ErrUnknownStateRootCode = -106
	// ErrUnknownSessionCode is returned from a call that accepts as a parameter or searches for an iterator session
	// as a part of its job can't find it.
	ErrUnknownSessionCode = -107
	// ErrUnknownIteratorCode is returned from a call that accepts as a parameter or searches for a session iterator
	// as a part of its job can't find it.
	ErrUnknownIteratorCode = -108
	// ErrUnknownHeightCode is returned if block or header height passed as parameter or calculated during call
	// execution is not correct (out of the range known to the node).
	ErrUnknownHeightCode = -109

	// ErrInsufficientFundsWalletCode is returned if transaction that sends some assets can't be created
	// because it fails.
	ErrInsufficientFundsWalletCode = -300
	// ErrWalletFeeLimitCode is returned if transaction requires more network fee to be paid
	// than is allowed by settings.
	ErrWalletFeeLimitCode = -301
	// ErrNoOpenedWalletCode is returned if server doesn't have any opened wallet to operate with.
	ErrNoOpenedWalletCode = -302
	// ErrWalletNotFoundCode is returned if specified (or configured) wallet file path is invalid.
	ErrWalletNotFoundCode = -303
	// ErrWalletNotSupportedCode is returned if specified (or configured) file can't be opened as a wallet.
	ErrWalletNotSupportedCode = -304

	// ErrVerificationFailedCode is returned on anything that can't be expressed by other codes.
	ErrVerificationFailedCode = -500
	// ErrAlreadyExistsCode is returned if block or transaction is already accepted and processed on chain.
	ErrAlreadyExistsCode = -501
	// ErrMempoolCapReachedCode is returned if no more transactions can be accepted into the memory pool.
	ErrMempoolCapReachedCode = -502
	// ErrAlreadyInPoolCode is returned if transaction is already pooled, but not yet accepted into a block.
	ErrAlreadyInPoolCode = -503
	// ErrInsufficientNetworkFeeCode is returned if transaction has incorrect (too small per Policy setting)
	// network fee value.
	ErrInsufficientNetworkFeeCode = -504
	// ErrPolicyFailedCode is returned from a call denied by the Policy contract (one of signers is blocked).
	ErrPolicyFailedCode = -505
	// ErrInvalidScriptCode is returned if transaction contains incorrect executable script.
	ErrInvalidScriptCode = -506
	// ErrInvalidAttributeCode is returned if transaction contains an invalid attribute.
	ErrInvalidAttributeCode = -507
	// ErrInvalidSignatureCode is returned if one of the verification scripts failed.
	ErrInvalidSignatureCode = -508
	// ErrInvalidSizeCode is returned if transaction or its script is too big.
	ErrInvalidSizeCode = -509
	// ErrExpiredTransactionCode is returned if transaction's ValidUntilBlock value is already in the past.
	ErrExpiredTransactionCode = -510
	// ErrInsufficientFundsCode is returned if sender doesn't have enough GAS to pay for all currently pooled transactions.
	ErrInsufficientFundsCode = -511
	// ErrInvalidVerificationFunctionCode is returned if contract doesn't have a verify method or
	// this method doesn't return proper value.
	ErrInvalidVerificationFunctionCode = -512

	// ErrSessionsDisabledCode is returned if iterator session support is not enabled on the server.
	ErrSessionsDisabledCode = -601
	// ErrOracleDisabledCode is returned if Oracle service is not enabled in the configuration (service is not running).
	ErrOracleDisabledCode = -602
	// ErrOracleRequestFinishedCode is returned if Oracle request submitted is already completely processed.
	ErrOracleRequestFinishedCode = -603
	// ErrOracleRequestNotFoundCode is returned if Oracle request submitted is not known to this node.
	ErrOracleRequestNotFoundCode = -604
	// ErrOracleNotDesignatedNodeCode is returned if Oracle service is enabled, but this node is not designated
	// to provide this functionality.
	ErrOracleNotDesignatedNodeCode = -605
	// ErrUnsupportedStateCode is returned if this node can't answer requests for old state because it's configured
	// to keep only the latest one.
	ErrUnsupportedStateCode = -606
	// ErrInvalidProofCode is returned if state proof verification failed.
	ErrInvalidProofCode = -607
	// ErrExecutionFailedCode is returned from a call made a VM execution, but it has failed.
	ErrExecutionFailedCode = -608
)

var (
	// ErrCompatGeneric is an error returned by nodes not compliant with the error
	// code specification.
	ErrCompatGeneric = NewError(-100, "RPC error")
	// ErrCompatNoOpenedWallet is an error code returned by nodes not compliant
	// with the error code specification.
	ErrCompatNoOpenedWallet = NewError(-400, "No opened wallet")
)

var (
	// ErrInvalidParams represents a generic "Invalid params" error.
	ErrInvalidParams = NewInvalidParamsError("Invalid params")
	// ErrMethodNotFound represents a generic "Method not found" error.
	ErrMethodNotFound = NewError(MethodNotFoundCode, "Method not found")

	// ErrUnknownBlock represents an error with code ErrUnknownBlockCode.
	ErrUnknownBlock = NewError(ErrUnknownBlockCode, "Unknown block")
	// ErrUnknownContract represents an error with code ErrUnknownContractCode.
	ErrUnknownContract = NewError(ErrUnknownContractCode, "Unknown contract")
	// ErrUnknownTransaction represents an error with code ErrUnknownTransactionCode.
	ErrUnknownTransaction = NewError(ErrUnknownTransactionCode, "Unknown transaction")
	// ErrUnknownStorageItem represents an error with code ErrUnknownStorageItemCode.
	ErrUnknownStorageItem = NewError(ErrUnknownStorageItemCode, "Unknown storage item")
	// ErrUnknownScriptContainer represents an error with code ErrUnknownScriptContainerCode.
	ErrUnknownScriptContainer = NewError(ErrUnknownScriptContainerCode, "Unknown script container")
	// ErrUnknownSession represents an error with code ErrUnknownSessionCode.
	ErrUnknownSession = NewError(ErrUnknownSessionCode, "Unknown session")
	// ErrUnknownIterator represents an error with code ErrUnknownIteratorCode.
	ErrUnknownIterator = NewError(ErrUnknownIteratorCode, "Unknown iterator")
	// ErrUnknownHeight represents an error with code ErrUnknownHeightCode.
	ErrUnknownHeight = NewError(ErrUnknownHeightCode, "Unknown height")

	// ErrInsufficientFundsWallet represents an error with code ErrInsufficientFundsWalletCode.
	ErrInsufficientFundsWallet = NewError(ErrInsufficientFundsWalletCode, "Insufficient funds")
	// ErrWalletFeeLimit represents an error with code ErrWalletFeeLimitCode.
	ErrWalletFeeLimit = NewError(ErrWalletFeeLimitCode, "Fee limit exceeded")
	// ErrNoOpenedWallet represents an error with code ErrNoOpenedWalletCode.
	ErrNoOpenedWallet = NewError(ErrNoOpenedWalletCode, "No opened wallet")
	// ErrWalletNotFound represents an error with code ErrWalletNotFoundCode.
	ErrWalletNotFound = NewError(ErrWalletNotFoundCode, "Wallet not found")
	// ErrWalletNotSupported represents an error with code ErrWalletNotSupportedCode.
	ErrWalletNotSupported = NewError(ErrWalletNotSupportedCode, "Wallet not supported")

	// ErrVerificationFailed represents an error with code ErrVerificationFailedCode.
	ErrVerificationFailed = NewError(ErrVerificationFailedCode, "Unclassified verification error")
	// ErrAlreadyExists represents an error with code ErrAlreadyExistsCode.
	ErrAlreadyExists = NewError(ErrAlreadyExistsCode, "Inventory already exists on chain")
	// ErrMempoolCapReached represents an error with code ErrMempoolCapReachedCode.
	ErrMempoolCapReached = NewError(ErrMempoolCapReachedCode, "The memory pool is full and no more transactions can be sent")
	// ErrAlreadyInPool represents an error with code ErrAlreadyInPoolCode.
	ErrAlreadyInPool = NewError(ErrAlreadyInPoolCode, "Transaction already exists in the memory pool")
	// ErrInsufficientNetworkFee represents an error with code ErrInsufficientNetworkFeeCode.
	ErrInsufficientNetworkFee = NewError(ErrInsufficientNetworkFeeCode, "Insufficient network fee")
	// ErrPolicyFailed represents an error with code ErrPolicyFailedCode.
	ErrPolicyFailed = NewError(ErrPolicyFailedCode, "One of the Policy filters failed")
	// ErrInvalidScript represents an error with code ErrInvalidScriptCode.
	ErrInvalidScript = NewError(ErrInvalidScriptCode, "Invalid script")
	// ErrInvalidAttribute represents an error with code ErrInvalidAttributeCode.
	ErrInvalidAttribute = NewError(ErrInvalidAttributeCode, "Invalid transaction attribute")
	// ErrInvalidSignature represents an error with code ErrInvalidSignatureCode.
	ErrInvalidSignature = NewError(ErrInvalidSignatureCode, "Invalid signature")
	// ErrInvalidSize represents an error with code ErrInvalidSizeCode.
	ErrInvalidSize = NewError(ErrInvalidSizeCode, "Invalid inventory size")
	// ErrExpiredTransaction represents an error with code ErrExpiredTransactionCode.
	ErrExpiredTransaction = NewError(ErrExpiredTransactionCode, "Expired transaction")
	// ErrInsufficientFunds represents an error with code ErrInsufficientFundsCode.
	ErrInsufficientFunds = NewError(ErrInsufficientFundsCode, "Insufficient funds")
	// ErrInvalidVerificationFunction represents an error with code ErrInvalidVerificationFunctionCode.
	ErrInvalidVerificationFunction = NewError(ErrInvalidVerificationFunctionCode, "Invalid verification function")

	// ErrSessionsDisabled represents an error with code ErrSessionsDisabledCode.
	ErrSessionsDisabled = NewError(ErrSessionsDisabledCode, "Sessions disabled")
	// ErrExecutionFailed represents an error with code ErrExecutionFailedCode.
	ErrExecutionFailed = NewError(ErrExecutionFailedCode, "Execution failed")
)

// NewError is an Error constructor that takes Error contents from its parameters.
func NewError(code int64, message string, data ...string) *Error {
	var d string
	if len(data) != 0 {
		d = data[0]
	}
	return &Error{
		Code:    code,
		Message: message,
		Data:    d,
	}
}

// NewParseError is a constructor for parse error.
func NewParseError(data string) *Error {
	return NewError(BadRequestCode, "Parse error", data)
}

// NewInvalidRequestError is a constructor for invalid request error.
func NewInvalidRequestError(data string) *Error {
	return NewError(InvalidRequestCode, "Invalid request", data)
}

// NewMethodNotFoundError is a constructor for method not found error.
func NewMethodNotFoundError(data string) *Error {
	return NewError(MethodNotFoundCode, "Method not found", data)
}

// NewInvalidParamsError is a constructor for invalid params error.
func NewInvalidParamsError(data string) *Error {
	return NewError(InvalidParamsCode, "Invalid params", data)
}

// NewInternalServerError creates a new error with
// code -32603.
func NewInternalServerError(data string) *Error {
	return NewError(InternalServerErrorCode, "Internal error", data)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Data) == 0 {
		return fmt.Sprintf("%s (%d)", e.Message, e.Code)
	}
	return fmt.Sprintf("%s (%d) - %s", e.Message, e.Code, e.Data)
}

// Is denotes whether the error matches the target one. Errors with the same
// code match.
func (e *Error) Is(target error) bool {
	var clTarget *Error
	if errors.As(target, &clTarget) {
		return e.Code == clTarget.Code
	}
	return false
}

// WrapErrorWithData returns copy of the given error with the specified data and cause.
// It does not modify the source error.
func WrapErrorWithData(e *Error, data string) *Error {
	return NewError(e.Code, e.Message, data)
}

// TransportError is returned when the request can't be delivered to the node
// or the response can't be read from it: connection failures, unexpected
// HTTP status codes, malformed (non-JSON) bodies.
type TransportError struct {
	// Op is the failed operation, like "send" or "read".
	Op string
	// StatusCode is the HTTP status code if the failure is an HTTP-level one.
	StatusCode int
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport %s: HTTP %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is returned when a well-formed response doesn't have the shape
// expected for the method result.
type DecodeError struct {
	// Field names the missing or malformed field.
	Field string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %q: %v", e.Field, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error { return e.Err }
