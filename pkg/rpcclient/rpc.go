package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neorpc-go/pkg/core/block"
	"github.com/nspcc-dev/neorpc-go/pkg/core/state"
	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/io"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/stackitem"
)

// DefaultMaxIteratorResultItems is the number of iterator items requested by
// TraverseIterator when no limit is given.
const DefaultMaxIteratorResultItems = 100

// ErrBadTransfersParams is returned for an inconsistent set of optional
// GetNEP17Transfers parameters.
var ErrBadTransfersParams = errors.New("bad parameters")

// CalculateNetworkFee calculates network fee for the transaction. The transaction may
// have empty witnesses for contract signers and may have only verification scripts
// filled for standard sig/multisig signers.
func (c *Client) CalculateNetworkFee(tx *transaction.Transaction) (int64, error) {
	return await(c.CalculateNetworkFeeAsync(c.ctx, tx))
}

// CalculateNetworkFeeAsync is an asynchronous version of CalculateNetworkFee.
func (c *Client) CalculateNetworkFeeAsync(ctx context.Context, tx *transaction.Transaction) *Future[int64] {
	return call(c, ctx, "calculatenetworkfee", []any{tx.Bytes()}, func(raw json.RawMessage) (int64, error) {
		fee, err := jsonPtrResult[result.NetworkFee](raw)
		if err != nil {
			return 0, err
		}
		return fee.Value, nil
	})
}

// GetApplicationLog returns a contract log based on the specified txid or
// block hash. trig is optional.
func (c *Client) GetApplicationLog(hash util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error) {
	return await(c.GetApplicationLogAsync(c.ctx, hash, trig))
}

// GetApplicationLogAsync is an asynchronous version of GetApplicationLog.
func (c *Client) GetApplicationLogAsync(ctx context.Context, hash util.Uint256, trig *trigger.Type) *Future[*result.ApplicationLog] {
	var params = []any{hash.StringLE()}
	if trig != nil {
		params = append(params, trig.String())
	}
	return call(c, ctx, "getapplicationlog", params, jsonPtrResult[result.ApplicationLog])
}

// GetBestBlockHash returns the hash of the tallest block in the blockchain.
func (c *Client) GetBestBlockHash() (util.Uint256, error) {
	return await(c.GetBestBlockHashAsync(c.ctx))
}

// GetBestBlockHashAsync is an asynchronous version of GetBestBlockHash.
func (c *Client) GetBestBlockHashAsync(ctx context.Context) *Future[util.Uint256] {
	return call(c, ctx, "getbestblockhash", nil, jsonResult[util.Uint256])
}

// GetBlockCount returns the number of blocks in the blockchain.
func (c *Client) GetBlockCount() (uint32, error) {
	return await(c.GetBlockCountAsync(c.ctx))
}

// GetBlockCountAsync is an asynchronous version of GetBlockCount.
func (c *Client) GetBlockCountAsync(ctx context.Context) *Future[uint32] {
	return call(c, ctx, "getblockcount", nil, jsonResult[uint32])
}

// GetBlockByIndex returns a block by its height.
func (c *Client) GetBlockByIndex(index uint32) (*block.Block, error) {
	return await(c.GetBlockByIndexAsync(c.ctx, index))
}

// GetBlockByIndexAsync is an asynchronous version of GetBlockByIndex.
func (c *Client) GetBlockByIndexAsync(ctx context.Context, index uint32) *Future[*block.Block] {
	return call(c, ctx, "getblock", []any{index}, blockResult)
}

// GetBlockByHash returns a block by its hash.
func (c *Client) GetBlockByHash(hash util.Uint256) (*block.Block, error) {
	return await(c.GetBlockByHashAsync(c.ctx, hash))
}

// GetBlockByHashAsync is an asynchronous version of GetBlockByHash.
func (c *Client) GetBlockByHashAsync(ctx context.Context, hash util.Uint256) *Future[*block.Block] {
	return call(c, ctx, "getblock", []any{hash.StringLE()}, blockResult)
}

func blockResult(raw json.RawMessage) (*block.Block, error) {
	data, err := jsonResult[[]byte](raw)
	if err != nil {
		return nil, err
	}
	b, err := block.NewBlockFromBytes(data)
	if err != nil {
		return nil, &neorpc.DecodeError{Field: "result", Err: err}
	}
	return b, nil
}

// GetBlockByIndexVerbose returns a block wrapper with additional metadata by
// its height.
// NOTE: to get transaction.ID and transaction.Size, use t.Hash() and io.GetVarSize(t) respectively.
func (c *Client) GetBlockByIndexVerbose(index uint32) (*result.Block, error) {
	return await(c.GetBlockByIndexVerboseAsync(c.ctx, index))
}

// GetBlockByIndexVerboseAsync is an asynchronous version of GetBlockByIndexVerbose.
func (c *Client) GetBlockByIndexVerboseAsync(ctx context.Context, index uint32) *Future[*result.Block] {
	return call(c, ctx, "getblock", []any{index, 1}, jsonPtrResult[result.Block])
}

// GetBlockByHashVerbose returns a block wrapper with additional metadata by
// its hash.
func (c *Client) GetBlockByHashVerbose(hash util.Uint256) (*result.Block, error) {
	return await(c.GetBlockByHashVerboseAsync(c.ctx, hash))
}

// GetBlockByHashVerboseAsync is an asynchronous version of GetBlockByHashVerbose.
func (c *Client) GetBlockByHashVerboseAsync(ctx context.Context, hash util.Uint256) *Future[*result.Block] {
	return call(c, ctx, "getblock", []any{hash.StringLE(), 1}, jsonPtrResult[result.Block])
}

// GetBlockHash returns the hash value of the corresponding block based on the specified index.
func (c *Client) GetBlockHash(index uint32) (util.Uint256, error) {
	return await(c.GetBlockHashAsync(c.ctx, index))
}

// GetBlockHashAsync is an asynchronous version of GetBlockHash.
func (c *Client) GetBlockHashAsync(ctx context.Context, index uint32) *Future[util.Uint256] {
	return call(c, ctx, "getblockhash", []any{index}, jsonResult[util.Uint256])
}

// GetBlockHeader returns the corresponding block header information from a serialized hex string
// according to the specified script hash.
func (c *Client) GetBlockHeader(hash util.Uint256) (*block.Header, error) {
	return await(c.GetBlockHeaderAsync(c.ctx, hash))
}

// GetBlockHeaderAsync is an asynchronous version of GetBlockHeader.
func (c *Client) GetBlockHeaderAsync(ctx context.Context, hash util.Uint256) *Future[*block.Header] {
	return call(c, ctx, "getblockheader", []any{hash.StringLE()}, func(raw json.RawMessage) (*block.Header, error) {
		data, err := jsonResult[[]byte](raw)
		if err != nil {
			return nil, err
		}
		h := new(block.Header)
		if err := io.DecodeFull(data, h); err != nil {
			return nil, &neorpc.DecodeError{Field: "result", Err: err}
		}
		return h, nil
	})
}

// GetBlockHeaderCount returns the number of headers in the main chain.
func (c *Client) GetBlockHeaderCount() (uint32, error) {
	return await(c.GetBlockHeaderCountAsync(c.ctx))
}

// GetBlockHeaderCountAsync is an asynchronous version of GetBlockHeaderCount.
func (c *Client) GetBlockHeaderCountAsync(ctx context.Context) *Future[uint32] {
	return call(c, ctx, "getblockheadercount", nil, jsonResult[uint32])
}

// GetBlockHeaderVerbose returns the corresponding block header information from a Json format string
// according to the specified script hash.
func (c *Client) GetBlockHeaderVerbose(hash util.Uint256) (*result.Header, error) {
	return await(c.GetBlockHeaderVerboseAsync(c.ctx, hash))
}

// GetBlockHeaderVerboseAsync is an asynchronous version of GetBlockHeaderVerbose.
func (c *Client) GetBlockHeaderVerboseAsync(ctx context.Context, hash util.Uint256) *Future[*result.Header] {
	return call(c, ctx, "getblockheader", []any{hash.StringLE(), 1}, jsonPtrResult[result.Header])
}

// GetConnectionCount returns the current number of the connections for the node.
func (c *Client) GetConnectionCount() (int, error) {
	return await(c.GetConnectionCountAsync(c.ctx))
}

// GetConnectionCountAsync is an asynchronous version of GetConnectionCount.
func (c *Client) GetConnectionCountAsync(ctx context.Context) *Future[int] {
	return call(c, ctx, "getconnectioncount", nil, jsonResult[int])
}

// GetCommittee returns the current public keys of NEO nodes in the committee.
func (c *Client) GetCommittee() (keys.PublicKeys, error) {
	return await(c.GetCommitteeAsync(c.ctx))
}

// GetCommitteeAsync is an asynchronous version of GetCommittee.
func (c *Client) GetCommitteeAsync(ctx context.Context) *Future[keys.PublicKeys] {
	return call(c, ctx, "getcommittee", nil, jsonResult[keys.PublicKeys])
}

// GetContractStateByHash queries contract information according to the contract script hash.
func (c *Client) GetContractStateByHash(hash util.Uint160) (*state.Contract, error) {
	return await(c.GetContractStateByHashAsync(c.ctx, hash))
}

// GetContractStateByHashAsync is an asynchronous version of GetContractStateByHash.
func (c *Client) GetContractStateByHashAsync(ctx context.Context, hash util.Uint160) *Future[*state.Contract] {
	return c.getContractState(ctx, hash.StringLE())
}

// GetContractStateByAddressOrName queries contract information using the contract
// address or name. Notice that name-based queries work only for native contracts,
// non-native ones can't be requested this way.
func (c *Client) GetContractStateByAddressOrName(addressOrName string) (*state.Contract, error) {
	return await(c.GetContractStateByAddressOrNameAsync(c.ctx, addressOrName))
}

// GetContractStateByAddressOrNameAsync is an asynchronous version of
// GetContractStateByAddressOrName.
func (c *Client) GetContractStateByAddressOrNameAsync(ctx context.Context, addressOrName string) *Future[*state.Contract] {
	return c.getContractState(ctx, addressOrName)
}

// GetContractStateByID queries contract information according to the contract ID.
// Notice that this is supported by all servers only for native contracts,
// non-native ones can be requested only from NeoGo servers.
func (c *Client) GetContractStateByID(id int32) (*state.Contract, error) {
	return await(c.GetContractStateByIDAsync(c.ctx, id))
}

// GetContractStateByIDAsync is an asynchronous version of GetContractStateByID.
func (c *Client) GetContractStateByIDAsync(ctx context.Context, id int32) *Future[*state.Contract] {
	return c.getContractState(ctx, id)
}

func (c *Client) getContractState(ctx context.Context, param any) *Future[*state.Contract] {
	return call(c, ctx, "getcontractstate", []any{param}, jsonPtrResult[state.Contract])
}

// GetNativeContracts queries information about native contracts.
func (c *Client) GetNativeContracts() ([]state.NativeContract, error) {
	return await(c.GetNativeContractsAsync(c.ctx))
}

// GetNativeContractsAsync is an asynchronous version of GetNativeContracts.
func (c *Client) GetNativeContractsAsync(ctx context.Context) *Future[[]state.NativeContract] {
	return call(c, ctx, "getnativecontracts", nil, jsonResult[[]state.NativeContract])
}

// GetNEP17Balances is a wrapper for getnep17balances RPC.
func (c *Client) GetNEP17Balances(address util.Uint160) (*result.NEP17Balances, error) {
	return await(c.GetNEP17BalancesAsync(c.ctx, address))
}

// GetNEP17BalancesAsync is an asynchronous version of GetNEP17Balances.
func (c *Client) GetNEP17BalancesAsync(ctx context.Context, address util.Uint160) *Future[*result.NEP17Balances] {
	return call(c, ctx, "getnep17balances", []any{address.StringLE()}, jsonPtrResult[result.NEP17Balances])
}

// GetNEP17Transfers is a wrapper for getnep17transfers RPC. Address parameter
// is mandatory, while all the others are optional. Start and stop parameters
// are supported since neo-go 0.77.0 and limit and page since neo-go 0.78.0.
// These parameters are positional in the JSON-RPC call, you can't specify limit
// and not specify start/stop for example.
func (c *Client) GetNEP17Transfers(address util.Uint160, start, stop *uint64, limit, page *int) (*result.NEP17Transfers, error) {
	return await(c.GetNEP17TransfersAsync(c.ctx, address, start, stop, limit, page))
}

// GetNEP17TransfersAsync is an asynchronous version of GetNEP17Transfers.
func (c *Client) GetNEP17TransfersAsync(ctx context.Context, address util.Uint160, start, stop *uint64, limit, page *int) *Future[*result.NEP17Transfers] {
	params, err := packTransfersParams(address, start, stop, limit, page)
	if err != nil {
		return failed[*result.NEP17Transfers](err)
	}
	return call(c, ctx, "getnep17transfers", params, jsonPtrResult[result.NEP17Transfers])
}

func packTransfersParams(address util.Uint160, start, stop *uint64, limit, page *int) ([]any, error) {
	params := []any{address.StringLE()}
	if start != nil {
		params = append(params, *start)
		if stop != nil {
			params = append(params, *stop)
			if limit != nil {
				params = append(params, *limit)
				if page != nil {
					params = append(params, *page)
				}
			} else if page != nil {
				return nil, ErrBadTransfersParams
			}
		} else if limit != nil || page != nil {
			return nil, ErrBadTransfersParams
		}
	} else if stop != nil || limit != nil || page != nil {
		return nil, ErrBadTransfersParams
	}
	return params, nil
}

// GetPeers returns a list of the nodes that the node is currently connected to/disconnected from.
func (c *Client) GetPeers() (*result.GetPeers, error) {
	return await(c.GetPeersAsync(c.ctx))
}

// GetPeersAsync is an asynchronous version of GetPeers.
func (c *Client) GetPeersAsync(ctx context.Context) *Future[*result.GetPeers] {
	return call(c, ctx, "getpeers", nil, jsonPtrResult[result.GetPeers])
}

// GetRawMemPool returns a list of unconfirmed transactions in the memory.
func (c *Client) GetRawMemPool() ([]util.Uint256, error) {
	return await(c.GetRawMemPoolAsync(c.ctx))
}

// GetRawMemPoolAsync is an asynchronous version of GetRawMemPool.
func (c *Client) GetRawMemPoolAsync(ctx context.Context) *Future[[]util.Uint256] {
	return call(c, ctx, "getrawmempool", nil, jsonResult[[]util.Uint256])
}

// GetRawMemPoolWithUnverified returns verified and unverified transactions
// of the memory pool along with the current height.
func (c *Client) GetRawMemPoolWithUnverified() (*result.RawMemPool, error) {
	return await(c.GetRawMemPoolWithUnverifiedAsync(c.ctx))
}

// GetRawMemPoolWithUnverifiedAsync is an asynchronous version of
// GetRawMemPoolWithUnverified.
func (c *Client) GetRawMemPoolWithUnverifiedAsync(ctx context.Context) *Future[*result.RawMemPool] {
	return call(c, ctx, "getrawmempool", []any{true}, jsonPtrResult[result.RawMemPool])
}

// GetRawTransaction returns a transaction by hash.
func (c *Client) GetRawTransaction(hash util.Uint256) (*transaction.Transaction, error) {
	return await(c.GetRawTransactionAsync(c.ctx, hash))
}

// GetRawTransactionAsync is an asynchronous version of GetRawTransaction.
func (c *Client) GetRawTransactionAsync(ctx context.Context, hash util.Uint256) *Future[*transaction.Transaction] {
	return call(c, ctx, "getrawtransaction", []any{hash.StringLE()}, func(raw json.RawMessage) (*transaction.Transaction, error) {
		data, err := jsonResult[[]byte](raw)
		if err != nil {
			return nil, err
		}
		tx, err := transaction.NewTransactionFromBytes(data)
		if err != nil {
			return nil, &neorpc.DecodeError{Field: "result", Err: err}
		}
		return tx, nil
	})
}

// GetRawTransactionVerbose returns a transaction wrapper with additional
// metadata by transaction's hash.
// NOTE: to get transaction.ID and transaction.Size, use t.Hash() and io.GetVarSize(t) respectively.
func (c *Client) GetRawTransactionVerbose(hash util.Uint256) (*result.TransactionOutputRaw, error) {
	return await(c.GetRawTransactionVerboseAsync(c.ctx, hash))
}

// GetRawTransactionVerboseAsync is an asynchronous version of GetRawTransactionVerbose.
func (c *Client) GetRawTransactionVerboseAsync(ctx context.Context, hash util.Uint256) *Future[*result.TransactionOutputRaw] {
	return call(c, ctx, "getrawtransaction", []any{hash.StringLE(), 1}, jsonPtrResult[result.TransactionOutputRaw])
}

// GetStorageByID returns the stored value according to the contract ID and the stored key.
func (c *Client) GetStorageByID(id int32, key []byte) ([]byte, error) {
	return await(c.GetStorageByIDAsync(c.ctx, id, key))
}

// GetStorageByIDAsync is an asynchronous version of GetStorageByID.
func (c *Client) GetStorageByIDAsync(ctx context.Context, id int32, key []byte) *Future[[]byte] {
	return call(c, ctx, "getstorage", []any{id, key}, jsonResult[[]byte])
}

// GetStorageByHash returns the stored value according to the contract script hash and the stored key.
func (c *Client) GetStorageByHash(hash util.Uint160, key []byte) ([]byte, error) {
	return await(c.GetStorageByHashAsync(c.ctx, hash, key))
}

// GetStorageByHashAsync is an asynchronous version of GetStorageByHash.
func (c *Client) GetStorageByHashAsync(ctx context.Context, hash util.Uint160, key []byte) *Future[[]byte] {
	return call(c, ctx, "getstorage", []any{hash.StringLE(), key}, jsonResult[[]byte])
}

// GetTransactionHeight returns the block index where the transaction is found.
func (c *Client) GetTransactionHeight(hash util.Uint256) (uint32, error) {
	return await(c.GetTransactionHeightAsync(c.ctx, hash))
}

// GetTransactionHeightAsync is an asynchronous version of GetTransactionHeight.
func (c *Client) GetTransactionHeightAsync(ctx context.Context, hash util.Uint256) *Future[uint32] {
	return call(c, ctx, "gettransactionheight", []any{hash.StringLE()}, jsonResult[uint32])
}

// GetUnclaimedGas returns the unclaimed GAS amount for the specified address.
func (c *Client) GetUnclaimedGas(address string) (result.UnclaimedGas, error) {
	return await(c.GetUnclaimedGasAsync(c.ctx, address))
}

// GetUnclaimedGasAsync is an asynchronous version of GetUnclaimedGas.
func (c *Client) GetUnclaimedGasAsync(ctx context.Context, address string) *Future[result.UnclaimedGas] {
	return call(c, ctx, "getunclaimedgas", []any{address}, jsonResult[result.UnclaimedGas])
}

// GetCandidates returns the current list of NEO candidate node with voting data and
// validator status.
func (c *Client) GetCandidates() ([]result.Candidate, error) {
	return await(c.GetCandidatesAsync(c.ctx))
}

// GetCandidatesAsync is an asynchronous version of GetCandidates.
func (c *Client) GetCandidatesAsync(ctx context.Context) *Future[[]result.Candidate] {
	return call(c, ctx, "getcandidates", nil, jsonResult[[]result.Candidate])
}

// GetNextBlockValidators returns the current NEO consensus nodes information and voting data.
func (c *Client) GetNextBlockValidators() ([]result.Validator, error) {
	return await(c.GetNextBlockValidatorsAsync(c.ctx))
}

// GetNextBlockValidatorsAsync is an asynchronous version of GetNextBlockValidators.
func (c *Client) GetNextBlockValidatorsAsync(ctx context.Context) *Future[[]result.Validator] {
	return call(c, ctx, "getnextblockvalidators", nil, jsonResult[[]result.Validator])
}

// GetVersion returns the version information about the queried node.
func (c *Client) GetVersion() (*result.Version, error) {
	return await(c.GetVersionAsync(c.ctx))
}

// GetVersionAsync is an asynchronous version of GetVersion.
func (c *Client) GetVersionAsync(ctx context.Context) *Future[*result.Version] {
	return call(c, ctx, "getversion", nil, jsonPtrResult[result.Version])
}

// InvokeScript returns the result of the given script after running it true the VM.
// NOTE: This is a test invoke and will not affect the blockchain.
func (c *Client) InvokeScript(script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	return await(c.InvokeScriptAsync(c.ctx, script, signers))
}

// InvokeScriptAsync is an asynchronous version of InvokeScript.
func (c *Client) InvokeScriptAsync(ctx context.Context, script []byte, signers []transaction.Signer) *Future[*result.Invoke] {
	return c.invokeSomething(ctx, "invokescript", []any{script}, signers)
}

// InvokeFunction returns the results after calling the smart contract scripthash
// with the given operation and parameters.
// NOTE: this is test invoke and will not affect the blockchain.
func (c *Client) InvokeFunction(contract util.Uint160, operation string, params []smartcontract.Parameter, signers []transaction.Signer) (*result.Invoke, error) {
	return await(c.InvokeFunctionAsync(c.ctx, contract, operation, params, signers))
}

// InvokeFunctionAsync is an asynchronous version of InvokeFunction.
func (c *Client) InvokeFunctionAsync(ctx context.Context, contract util.Uint160, operation string, params []smartcontract.Parameter, signers []transaction.Signer) *Future[*result.Invoke] {
	if params == nil {
		params = []smartcontract.Parameter{}
	}
	return c.invokeSomething(ctx, "invokefunction", []any{contract.StringLE(), operation, params}, signers)
}

// InvokeContractVerify returns the results after calling `verify` method of the smart contract
// with the given parameters under verification trigger type.
// NOTE: this is test invoke and will not affect the blockchain.
func (c *Client) InvokeContractVerify(contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error) {
	return await(c.InvokeContractVerifyAsync(c.ctx, contract, params, signers, witnesses...))
}

// InvokeContractVerifyAsync is an asynchronous version of InvokeContractVerify.
func (c *Client) InvokeContractVerifyAsync(ctx context.Context, contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) *Future[*result.Invoke] {
	if params == nil {
		params = []smartcontract.Parameter{}
	}
	return c.invokeSomething(ctx, "invokecontractverify", []any{contract.StringLE(), params}, signers, witnesses...)
}

// invokeSomething is a generic invoke helper, signers are attached with
// witnesses if they're given.
func (c *Client) invokeSomething(ctx context.Context, method string, p []any, signers []transaction.Signer, witnesses ...transaction.Witness) *Future[*result.Invoke] {
	if signers != nil {
		if witnesses == nil {
			p = append(p, signers)
		} else {
			if len(witnesses) != len(signers) {
				return failed[*result.Invoke](fmt.Errorf("number of witnesses should match number of signers, got %d vs %d", len(witnesses), len(signers)))
			}
			signersWithWitnesses := make([]neorpc.SignerWithWitness, len(signers))
			for i := range signersWithWitnesses {
				signersWithWitnesses[i] = neorpc.SignerWithWitness{
					Signer:  signers[i],
					Witness: witnesses[i],
				}
			}
			p = append(p, signersWithWitnesses)
		}
	}
	return call(c, ctx, method, p, jsonPtrResult[result.Invoke])
}

// ListPlugins returns the list of plugins enabled on the node.
func (c *Client) ListPlugins() ([]result.Plugin, error) {
	return await(c.ListPluginsAsync(c.ctx))
}

// ListPluginsAsync is an asynchronous version of ListPlugins.
func (c *Client) ListPluginsAsync(ctx context.Context) *Future[[]result.Plugin] {
	return call(c, ctx, "listplugins", nil, jsonResult[[]result.Plugin])
}

// SendRawTransaction broadcasts the given transaction to the Neo network.
// If the node accepts it but returns a malformed result, the locally
// calculated hash is returned along with the error.
func (c *Client) SendRawTransaction(rawTX *transaction.Transaction) (util.Uint256, error) {
	return await(c.SendRawTransactionAsync(c.ctx, rawTX))
}

// SendRawTransactionAsync is an asynchronous version of SendRawTransaction.
func (c *Client) SendRawTransactionAsync(ctx context.Context, rawTX *transaction.Transaction) *Future[util.Uint256] {
	h := rawTX.Hash()
	return call(c, ctx, "sendrawtransaction", []any{rawTX.Bytes()}, func(raw json.RawMessage) (util.Uint256, error) {
		res, err := jsonPtrResult[result.RelayResult](raw)
		if err != nil {
			return h, err
		}
		return res.Hash, nil
	})
}

// SubmitBlock broadcasts a raw block over the NEO network.
func (c *Client) SubmitBlock(b block.Block) (util.Uint256, error) {
	return await(c.SubmitBlockAsync(c.ctx, b))
}

// SubmitBlockAsync is an asynchronous version of SubmitBlock.
func (c *Client) SubmitBlockAsync(ctx context.Context, b block.Block) *Future[util.Uint256] {
	buf := io.NewBufBinWriter()
	b.EncodeBinary(buf.BinWriter)
	if err := buf.Err; err != nil {
		return failed[util.Uint256](err)
	}
	return call(c, ctx, "submitblock", []any{buf.Bytes()}, func(raw json.RawMessage) (util.Uint256, error) {
		res, err := jsonPtrResult[result.RelayResult](raw)
		if err != nil {
			return util.Uint256{}, err
		}
		return res.Hash, nil
	})
}

// ValidateAddress verifies that the address is a correct NEO address.
func (c *Client) ValidateAddress(address string) (*result.ValidateAddress, error) {
	return await(c.ValidateAddressAsync(c.ctx, address))
}

// ValidateAddressAsync is an asynchronous version of ValidateAddress.
func (c *Client) ValidateAddressAsync(ctx context.Context, address string) *Future[*result.ValidateAddress] {
	return call(c, ctx, "validateaddress", []any{address}, jsonPtrResult[result.ValidateAddress])
}

// TraverseIterator returns a set of iterator values (maxItemsCount at max) for
// the specified iterator and session. If result contains no elements, then either
// Iterator has no elements or session was expired and terminated by the server.
// If maxItemsCount is non-positive, then DefaultMaxIteratorResultItems
// iterator values will be returned using single `traverseiterator` call.
func (c *Client) TraverseIterator(sessionID, iteratorID uuid.UUID, maxItemsCount int) ([]stackitem.Item, error) {
	return await(c.TraverseIteratorAsync(c.ctx, sessionID, iteratorID, maxItemsCount))
}

// TraverseIteratorAsync is an asynchronous version of TraverseIterator.
func (c *Client) TraverseIteratorAsync(ctx context.Context, sessionID, iteratorID uuid.UUID, maxItemsCount int) *Future[[]stackitem.Item] {
	if maxItemsCount <= 0 {
		maxItemsCount = DefaultMaxIteratorResultItems
	}
	params := []any{sessionID.String(), iteratorID.String(), maxItemsCount}
	return call(c, ctx, "traverseiterator", params, func(raw json.RawMessage) ([]stackitem.Item, error) {
		resp, err := jsonResult[[]json.RawMessage](raw)
		if err != nil {
			return nil, err
		}
		items := make([]stackitem.Item, len(resp))
		for i, iBytes := range resp {
			itm, err := stackitem.FromJSONWithTypes(iBytes)
			if err != nil {
				return nil, &neorpc.DecodeError{
					Field: "result",
					Err:   fmt.Errorf("failed to unmarshal %d-th iterator value: %w", i, err),
				}
			}
			items[i] = itm
		}
		return items, nil
	})
}

// TerminateSession tries to terminate the specified session and returns `true` iff
// the specified session was found on server.
func (c *Client) TerminateSession(sessionID uuid.UUID) (bool, error) {
	return await(c.TerminateSessionAsync(c.ctx, sessionID))
}

// TerminateSessionAsync is an asynchronous version of TerminateSession.
func (c *Client) TerminateSessionAsync(ctx context.Context, sessionID uuid.UUID) *Future[bool] {
	return call(c, ctx, "terminatesession", []any{sessionID.String()}, jsonResult[bool])
}
