/*
Package wallet contains commands working with the wallet opened on the RPC
node. Keys never leave the node here, it signs transactions itself.
*/
package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/nspcc-dev/neorpc-go/cli/input"
	"github.com/nspcc-dev/neorpc-go/cli/options"
	"github.com/nspcc-dev/neorpc-go/pkg/core/native/nativehashes"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/urfave/cli"
)

var (
	errNoPath        = errors.New("wallet path is missing")
	errNoAddress     = errors.New("address is missing")
	errNoAsset       = errors.New("asset is missing")
	errNoWIF         = errors.New("WIF is missing")
	errNoOutputs     = errors.New("no transfers given")
	errBadOutputSpec = errors.New("invalid transfer, expected 'asset:address:amount'")
)

// NewCommands returns 'wallet' command.
func NewCommands() []cli.Command {
	openFlags := append([]cli.Flag{
		cli.StringFlag{
			Name:  "password, p",
			Usage: "Wallet password (requested if not set)",
		},
	}, options.RPC...)
	sendManyFlags := append([]cli.Flag{
		cli.StringFlag{
			Name:  "from",
			Usage: "Address to send from (the node picks accounts if not set)",
		},
	}, options.RPC...)
	return []cli.Command{{
		Name:  "wallet",
		Usage: "Manage the wallet opened on the RPC node",
		Subcommands: []cli.Command{
			{
				Name:      "openwallet",
				Usage:     "Open the wallet file on the node",
				UsageText: "neorpc wallet openwallet -r endpoint [-p password] <path>",
				Action:    openWallet,
				Flags:     openFlags,
			},
			{
				Name:   "closewallet",
				Usage:  "Close the wallet opened on the node",
				Action: closeWallet,
				Flags:  options.RPC,
			},
			{
				Name:      "dumpprivkey",
				Usage:     "Print WIF of the node wallet account",
				UsageText: "neorpc wallet dumpprivkey -r endpoint <address>",
				Action:    dumpPrivKey,
				Flags:     options.RPC,
			},
			{
				Name:   "getnewaddress",
				Usage:  "Create a new account in the node wallet",
				Action: getNewAddress,
				Flags:  options.RPC,
			},
			{
				Name:      "getbalance",
				Usage:     "Print the raw balance of the token for all node wallet accounts",
				UsageText: "neorpc wallet getbalance -r endpoint <neo|gas|hash>",
				Action:    getBalance,
				Flags:     options.RPC,
			},
			{
				Name:   "getunclaimedgas",
				Usage:  "Print the amount of GAS node wallet accounts can claim",
				Action: getUnclaimedGas,
				Flags:  options.RPC,
			},
			{
				Name:      "importprivkey",
				Usage:     "Import WIF-encoded key into the node wallet",
				UsageText: "neorpc wallet importprivkey -r endpoint <wif>",
				Action:    importPrivKey,
				Flags:     options.RPC,
			},
			{
				Name:   "listaddress",
				Usage:  "List the node wallet accounts",
				Action: listAddress,
				Flags:  options.RPC,
			},
			{
				Name:      "sendfrom",
				Usage:     "Transfer tokens from the node wallet account",
				UsageText: "neorpc wallet sendfrom -r endpoint <neo|gas|hash> <from> <to> <amount>",
				Action:    sendFrom,
				Flags:     options.RPC,
			},
			{
				Name:      "sendtoaddress",
				Usage:     "Transfer tokens from the node wallet",
				UsageText: "neorpc wallet sendtoaddress -r endpoint <neo|gas|hash> <to> <amount>",
				Action:    sendToAddress,
				Flags:     options.RPC,
			},
			{
				Name:      "sendmany",
				Usage:     "Make several transfers in a single transaction",
				UsageText: "neorpc wallet sendmany -r endpoint [--from address] <asset:address:amount>...",
				Description: `Transfers tokens from the node wallet. Asset is 'neo', 'gas' or a token
   hash, amount is a decimal number:
     neorpc wallet sendmany -r http://localhost:20332 gas:NbTiM6h8r99kpRtb428XcsUk1TzKed2gTc:1.5
`,
				Action: sendMany,
				Flags:  sendManyFlags,
			},
		},
	}}
}

// withClient runs f with a connected client and converts its error.
func withClient(ctx *cli.Context, f func(c *rpcclient.Client) error) error {
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, _, _, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	if err := f(c); err != nil {
		return cli.NewExitError(err, 1)
	}
	return nil
}

func openWallet(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError(errNoPath, 1)
	}
	path := ctx.Args().First()
	pass := ctx.String("password")
	if !ctx.IsSet("password") {
		var err error
		pass, err = input.ReadPassword("Enter wallet password > ")
		if err != nil {
			return cli.NewExitError(fmt.Errorf("error reading password: %w", err), 1)
		}
	}
	return withClient(ctx, func(c *rpcclient.Client) error {
		ok, err := c.OpenWallet(path, pass)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("node failed to open the wallet")
		}
		fmt.Fprintln(ctx.App.Writer, "Wallet opened")
		return nil
	})
}

func closeWallet(ctx *cli.Context) error {
	return withClient(ctx, func(c *rpcclient.Client) error {
		ok, err := c.CloseWallet()
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("node failed to close the wallet")
		}
		fmt.Fprintln(ctx.App.Writer, "Wallet closed")
		return nil
	})
}

func dumpPrivKey(ctx *cli.Context) error {
	addr, err := addressArg(ctx, 0)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return withClient(ctx, func(c *rpcclient.Client) error {
		wif, err := c.DumpPrivKey(addr)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, wif)
		return nil
	})
}

func getNewAddress(ctx *cli.Context) error {
	return withClient(ctx, func(c *rpcclient.Client) error {
		addr, err := c.GetNewAddress()
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, addr)
		return nil
	})
}

func getBalance(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError(errNoAsset, 1)
	}
	asset, err := parseAsset(ctx.Args().First())
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return withClient(ctx, func(c *rpcclient.Client) error {
		b, err := c.GetWalletBalance(asset)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, b.String())
		return nil
	})
}

func getUnclaimedGas(ctx *cli.Context) error {
	return withClient(ctx, func(c *rpcclient.Client) error {
		g, err := c.GetWalletUnclaimedGas()
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, g.String())
		return nil
	})
}

func importPrivKey(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError(errNoWIF, 1)
	}
	wif := ctx.Args().First()
	return withClient(ctx, func(c *rpcclient.Client) error {
		acc, err := c.ImportPrivKey(wif)
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, acc.Address)
		return nil
	})
}

func listAddress(ctx *cli.Context) error {
	return withClient(ctx, func(c *rpcclient.Client) error {
		accs, err := c.ListAddress()
		if err != nil {
			return err
		}
		for _, a := range accs {
			line := a.Address
			if a.Label != nil && *a.Label != "" {
				line += " (" + *a.Label + ")"
			}
			switch {
			case a.WatchOnly:
				line += " [watch-only]"
			case !a.HasKey:
				line += " [no key]"
			}
			fmt.Fprintln(ctx.App.Writer, line)
		}
		return nil
	})
}

func sendFrom(ctx *cli.Context) error {
	if ctx.NArg() != 4 {
		return cli.NewExitError("asset, sender, recipient and amount are required", 1)
	}
	asset, err := parseAsset(ctx.Args()[0])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	from, err := addressArg(ctx, 1)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	to, err := addressArg(ctx, 2)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	amount, err := parseAmount(ctx.Args()[3])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return withClient(ctx, func(c *rpcclient.Client) error {
		res, err := c.SendFrom(asset, from, to, amount)
		if err != nil {
			return err
		}
		return dumpTransfer(ctx, res)
	})
}

func sendToAddress(ctx *cli.Context) error {
	if ctx.NArg() != 3 {
		return cli.NewExitError("asset, recipient and amount are required", 1)
	}
	asset, err := parseAsset(ctx.Args()[0])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	to, err := addressArg(ctx, 1)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	amount, err := parseAmount(ctx.Args()[2])
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	return withClient(ctx, func(c *rpcclient.Client) error {
		res, err := c.SendToAddress(asset, to, amount)
		if err != nil {
			return err
		}
		return dumpTransfer(ctx, res)
	})
}

func sendMany(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return cli.NewExitError(errNoOutputs, 1)
	}
	from := ctx.String("from")
	if from != "" {
		if _, err := address.StringToUint160(from); err != nil {
			return cli.NewExitError(fmt.Errorf("invalid sender address: %w", err), 1)
		}
	}
	outputs := make([]result.TransferOutput, 0, ctx.NArg())
	for _, spec := range ctx.Args() {
		out, err := parseOutput(spec)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		outputs = append(outputs, out)
	}
	return withClient(ctx, func(c *rpcclient.Client) error {
		res, err := c.SendMany(from, outputs)
		if err != nil {
			return err
		}
		return dumpTransfer(ctx, res)
	})
}

func parseOutput(spec string) (result.TransferOutput, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return result.TransferOutput{}, fmt.Errorf("%w: %s", errBadOutputSpec, spec)
	}
	asset, err := parseAsset(parts[0])
	if err != nil {
		return result.TransferOutput{}, fmt.Errorf("%w: %s: %v", errBadOutputSpec, spec, err)
	}
	if _, err := address.StringToUint160(parts[1]); err != nil {
		return result.TransferOutput{}, fmt.Errorf("%w: %s: %v", errBadOutputSpec, spec, err)
	}
	amount, err := parseAmount(parts[2])
	if err != nil {
		return result.TransferOutput{}, fmt.Errorf("%w: %s: %v", errBadOutputSpec, spec, err)
	}
	return result.TransferOutput{
		Asset:   asset.StringLE(),
		Value:   amount,
		Address: parts[1],
	}, nil
}

func parseAsset(s string) (util.Uint160, error) {
	switch strings.ToLower(s) {
	case "neo":
		return nativehashes.NeoToken, nil
	case "gas":
		return nativehashes.GasToken, nil
	}
	h, err := smartcontract.ParseTarget(s)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid asset %s: %w", s, err)
	}
	return h, nil
}

// parseAmount checks the amount is a positive decimal number, the node
// applies token decimals to it.
func parseAmount(s string) (string, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok || strings.ContainsAny(s, "/eE") {
		return "", fmt.Errorf("invalid amount: %s", s)
	}
	if r.Sign() <= 0 {
		return "", fmt.Errorf("amount must be positive: %s", s)
	}
	return s, nil
}

func addressArg(ctx *cli.Context, i int) (string, error) {
	if ctx.NArg() <= i {
		return "", errNoAddress
	}
	s := ctx.Args()[i]
	if _, err := address.StringToUint160(s); err != nil {
		return "", fmt.Errorf("invalid address %s: %w", s, err)
	}
	return s, nil
}

func dumpTransfer(ctx *cli.Context, res *result.WalletTransfer) error {
	if res.IsSigned() {
		h, _ := res.Hash()
		fmt.Fprintf(ctx.App.Writer, "Transaction: %s\n", h.StringLE())
		return nil
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, "Not enough signatures in the node wallet, parameter context:")
	fmt.Fprintln(ctx.App.Writer, string(b))
	return nil
}
