package rpcclient

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"

	"github.com/nspcc-dev/neorpc-go/pkg/neorpc"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
)

// Methods in this file use the wallet opened on the node itself, they only
// work if the node allows it (and most public nodes don't). Transactions are
// built and signed on the server, see txmanager for the client-side way.

// OpenWallet opens the wallet file located on the node with the password
// given.
func (c *Client) OpenWallet(path string, password string) (bool, error) {
	return await(c.OpenWalletAsync(c.ctx, path, password))
}

// OpenWalletAsync is an asynchronous version of OpenWallet.
func (c *Client) OpenWalletAsync(ctx context.Context, path string, password string) *Future[bool] {
	return call(c, ctx, "openwallet", []any{path, password}, jsonResult[bool])
}

// CloseWallet closes the wallet opened by OpenWallet.
func (c *Client) CloseWallet() (bool, error) {
	return await(c.CloseWalletAsync(c.ctx))
}

// CloseWalletAsync is an asynchronous version of CloseWallet.
func (c *Client) CloseWalletAsync(ctx context.Context) *Future[bool] {
	return call(c, ctx, "closewallet", nil, jsonResult[bool])
}

// DumpPrivKey exports the private key of the specified address in WIF
// format.
func (c *Client) DumpPrivKey(address string) (string, error) {
	return await(c.DumpPrivKeyAsync(c.ctx, address))
}

// DumpPrivKeyAsync is an asynchronous version of DumpPrivKey.
func (c *Client) DumpPrivKeyAsync(ctx context.Context, address string) *Future[string] {
	return call(c, ctx, "dumpprivkey", []any{address}, jsonResult[string])
}

// GetNewAddress creates a new account in the node wallet and returns its
// address.
func (c *Client) GetNewAddress() (string, error) {
	return await(c.GetNewAddressAsync(c.ctx))
}

// GetNewAddressAsync is an asynchronous version of GetNewAddress.
func (c *Client) GetNewAddressAsync(ctx context.Context) *Future[string] {
	return call(c, ctx, "getnewaddress", nil, jsonResult[string])
}

// GetWalletBalance returns the raw (no decimals applied) balance of the
// given token for all accounts of the node wallet. Use nep17.Reader to get
// the decimals.
func (c *Client) GetWalletBalance(asset util.Uint160) (*big.Int, error) {
	return await(c.GetWalletBalanceAsync(c.ctx, asset))
}

// GetWalletBalanceAsync is an asynchronous version of GetWalletBalance.
func (c *Client) GetWalletBalanceAsync(ctx context.Context, asset util.Uint160) *Future[*big.Int] {
	return call(c, ctx, "getwalletbalance", []any{asset.StringLE()}, func(raw json.RawMessage) (*big.Int, error) {
		b, err := jsonPtrResult[result.WalletBalance](raw)
		if err != nil {
			return nil, err
		}
		return b.Balance, nil
	})
}

// GetWalletUnclaimedGas returns the amount of GAS (in fractions) that
// can be claimed by accounts of the node wallet.
func (c *Client) GetWalletUnclaimedGas() (*big.Int, error) {
	return await(c.GetWalletUnclaimedGasAsync(c.ctx))
}

// GetWalletUnclaimedGasAsync is an asynchronous version of GetWalletUnclaimedGas.
func (c *Client) GetWalletUnclaimedGasAsync(ctx context.Context) *Future[*big.Int] {
	return call(c, ctx, "getwalletunclaimedgas", nil, func(raw json.RawMessage) (*big.Int, error) {
		s, err := jsonResult[string](raw)
		if err != nil {
			return nil, err
		}
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, &neorpc.DecodeError{Field: "result", Err: errors.New("not an integer")}
		}
		return v, nil
	})
}

// ImportPrivKey imports the WIF-encoded private key into the node wallet.
func (c *Client) ImportPrivKey(wif string) (*result.Account, error) {
	return await(c.ImportPrivKeyAsync(c.ctx, wif))
}

// ImportPrivKeyAsync is an asynchronous version of ImportPrivKey.
func (c *Client) ImportPrivKeyAsync(ctx context.Context, wif string) *Future[*result.Account] {
	return call(c, ctx, "importprivkey", []any{wif}, jsonPtrResult[result.Account])
}

// ListAddress lists all the accounts of the node wallet.
func (c *Client) ListAddress() ([]result.Account, error) {
	return await(c.ListAddressAsync(c.ctx))
}

// ListAddressAsync is an asynchronous version of ListAddress.
func (c *Client) ListAddressAsync(ctx context.Context) *Future[[]result.Account] {
	return call(c, ctx, "listaddress", nil, jsonResult[[]result.Account])
}

// SendFrom transfers amount (a decimal string) of the asset from one
// address of the node wallet to another address.
func (c *Client) SendFrom(asset util.Uint160, from string, to string, amount string) (*result.WalletTransfer, error) {
	return await(c.SendFromAsync(c.ctx, asset, from, to, amount))
}

// SendFromAsync is an asynchronous version of SendFrom.
func (c *Client) SendFromAsync(ctx context.Context, asset util.Uint160, from string, to string, amount string) *Future[*result.WalletTransfer] {
	return call(c, ctx, "sendfrom", []any{asset.StringLE(), from, to, amount}, jsonPtrResult[result.WalletTransfer])
}

// SendMany makes a number of transfers in a single transaction. from is
// optional, the node picks the accounts to pay from if it's empty.
func (c *Client) SendMany(from string, outputs []result.TransferOutput) (*result.WalletTransfer, error) {
	return await(c.SendManyAsync(c.ctx, from, outputs))
}

// SendManyAsync is an asynchronous version of SendMany.
func (c *Client) SendManyAsync(ctx context.Context, from string, outputs []result.TransferOutput) *Future[*result.WalletTransfer] {
	var params []any
	if from != "" {
		params = append(params, from)
	}
	if outputs == nil {
		outputs = []result.TransferOutput{}
	}
	params = append(params, outputs)
	return call(c, ctx, "sendmany", params, jsonPtrResult[result.WalletTransfer])
}

// SendToAddress transfers amount (a decimal string) of the asset from the
// node wallet to the address.
func (c *Client) SendToAddress(asset util.Uint160, address string, amount string) (*result.WalletTransfer, error) {
	return await(c.SendToAddressAsync(c.ctx, asset, address, amount))
}

// SendToAddressAsync is an asynchronous version of SendToAddress.
func (c *Client) SendToAddressAsync(ctx context.Context, asset util.Uint160, address string, amount string) *Future[*result.WalletTransfer] {
	return call(c, ctx, "sendtoaddress", []any{asset.StringLE(), address, amount}, jsonPtrResult[result.WalletTransfer])
}
