package smartcontract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nspcc-dev/neorpc-go/cli/flags"
	"github.com/nspcc-dev/neorpc-go/cli/options"
	"github.com/nspcc-dev/neorpc-go/pkg/core/transaction"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neorpc-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/urfave/cli"
)

var (
	errNoInput           = errors.New("no input file was found, specify an input file with the '--in or -i' flag")
	errNoManifestFile    = errors.New("no manifest file was found, specify manifest file with '--manifest' or '-m' flag")
	errNoScriptHash      = errors.New("no smart contract hash was provided, specify one as the first argument")
	errNoMethod          = errors.New("no method was provided, specify one as the second argument")
	errFileExist         = errors.New("A file with given smart-contract name already exists")
	errInvalidSignerSpec = errors.New("invalid signer, expected 'address[:scope]'")
)

// NewCommands returns 'contract' command.
func NewCommands() []cli.Command {
	testInvokeFlags := append([]cli.Flag{
		cli.StringSliceFlag{
			Name:  "signer",
			Usage: "Signer of the invocation in the 'address[:scope]' format (CalledByEntry scope is used by default), can be repeated",
		},
	}, options.RPC...)
	deployFlags := append([]cli.Flag{
		cli.StringFlag{
			Name:  "in, i",
			Usage: "Input file for the smart contract (*.nef)",
		},
		cli.StringFlag{
			Name:  "manifest, m",
			Usage: "Manifest input file (*.manifest.json)",
		},
		cli.StringFlag{
			Name:  "data",
			Usage: "Parameter passed to the _deploy method of the contract in the 'type:value' format",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "File to write the signed transaction to (JSON) instead of sending it",
		},
		flags.Fixed8Flag{
			Name:  "max-sysfee",
			Usage: "Maximum system fee in GAS (overrides configuration)",
		},
		flags.Fixed8Flag{
			Name:  "max-netfee",
			Usage: "Maximum network fee in GAS (overrides configuration)",
		},
	}, options.RPC...)
	deployFlags = append(deployFlags, options.Key...)
	return []cli.Command{{
		Name:  "contract",
		Usage: "Invoke and deploy smart contracts",
		Subcommands: []cli.Command{
			{
				Name:      "testinvoke",
				Usage:     "Invoke a contract method without creating a transaction",
				UsageText: "neorpc contract testinvoke -r endpoint [--signer address[:scope]] <scripthash> <method> [<param>...]",
				Description: `Runs the method of the contract on the node and prints the result. No
   transaction is created and nothing is changed on chain.

   Parameters are given in the 'type:value' format, the type can be omitted
   and is inferred from the value then:
     int:42 string:hello bool:true hash160:<LE hex> bytes:<hex>
     filebytes:<path> signature:<hex> key:<hex>
`,
				Action: testInvoke,
				Flags:  testInvokeFlags,
			},
			{
				Name:      "deploy",
				Usage:     "Deploy a smart contract (.nef with manifest)",
				UsageText: "neorpc contract deploy -r endpoint -i contract.nef -m contract.manifest.json [--data type:value] [--out file] <key flags>",
				Description: `Creates and signs a deployment transaction for the contract with the key
   given and sends it to the node (or saves it to the file with --out). The
   key's account is the sender and the only signer of the transaction. The
   hash the contract gets after deployment is printed.
`,
				Action: contractDeploy,
				Flags:  deployFlags,
			},
		},
	}}
}

func testInvoke(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError(errNoScriptHash, 1)
	}
	target, err := smartcontract.ParseTarget(args[0])
	if err != nil {
		return cli.NewExitError(fmt.Errorf("incorrect script hash: %w", err), 1)
	}
	if len(args) < 2 {
		return cli.NewExitError(errNoMethod, 1)
	}
	method := args[1]
	params := make([]any, 0, len(args)-2)
	for i, s := range args[2:] {
		p, err := smartcontract.NewParameterFromString(s)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("failed to parse parameter #%d: %w", i, err), 1)
		}
		params = append(params, *p)
	}
	signers, err := parseSigners(ctx.StringSlice("signer"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, _, _, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	res, err := management.New(invoker.New(c, signers), nil).TestInvoke(target, method, params...)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
	return nil
}

func parseSigners(specs []string) ([]transaction.Signer, error) {
	signers := make([]transaction.Signer, 0, len(specs))
	for _, spec := range specs {
		var (
			acc   util.Uint160
			scope = transaction.CalledByEntry
			err   error
		)
		parts := strings.SplitN(spec, ":", 2)
		acc, err = smartcontract.ParseTarget(parts[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %s", errInvalidSignerSpec, spec)
		}
		if len(parts) == 2 {
			scope, err = transaction.ScopesFromString(parts[1])
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", errInvalidSignerSpec, spec, err)
			}
		}
		signers = append(signers, transaction.Signer{Account: acc, Scopes: scope})
	}
	return signers, nil
}

func contractDeploy(ctx *cli.Context) error {
	nefFile, m, err := readNEFAndManifest(ctx.String("in"), ctx.String("manifest"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	var data any
	if s := ctx.String("data"); s != "" {
		p, err := smartcontract.NewParameterFromString(s)
		if err != nil {
			return cli.NewExitError(fmt.Errorf("failed to parse data: %w", err), 1)
		}
		data = *p
	}
	out := ctx.String("out")
	if out != "" {
		if _, err := os.Stat(out); err == nil {
			return cli.NewExitError(errFileExist, 1)
		}
	}

	acc, err := options.GetKeyFromContext(ctx)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer acc.Close()

	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, cfg, log, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	if ctx.IsSet("max-sysfee") {
		cfg.Transaction.MaxSystemFee = flags.Fixed8FromContext(ctx, "max-sysfee")
	}
	if ctx.IsSet("max-netfee") {
		cfg.Transaction.MaxNetworkFee = flags.Fixed8FromContext(ctx, "max-netfee")
	}
	mgr, exitErr := options.GetTxManager(c, cfg, log)
	if exitErr != nil {
		return exitErr
	}

	d, err := management.New(invoker.New(c, nil), mgr).Deploy(nefFile, m, data, acc)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to create deployment transaction: %w", err), 1)
	}

	fmt.Fprintf(ctx.App.Writer, "Contract: %s\n", d.Contract.StringLE())
	if out != "" {
		b, err := json.MarshalIndent(d.Tx, "", "  ")
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if err := os.WriteFile(out, b, 0644); err != nil {
			return cli.NewExitError(fmt.Errorf("can't write transaction file: %w", err), 1)
		}
		fmt.Fprintf(ctx.App.Writer, "Transaction: %s (saved to %s)\n", d.Tx.Hash().StringLE(), out)
		return nil
	}
	h, err := c.SendRawTransaction(d.Tx)
	if err != nil {
		return cli.NewExitError(fmt.Errorf("failed to send transaction: %w", err), 1)
	}
	fmt.Fprintf(ctx.App.Writer, "Transaction: %s\n", h.StringLE())
	return nil
}

func readNEFAndManifest(nefPath, manifestPath string) (*nef.File, *manifest.Manifest, error) {
	if len(nefPath) == 0 {
		return nil, nil, errNoInput
	}
	if len(manifestPath) == 0 {
		return nil, nil, errNoManifestFile
	}
	nefBytes, err := os.ReadFile(nefPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read NEF file: %w", err)
	}
	nefFile, err := nef.FileFromBytes(nefBytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore NEF file: %w", err)
	}
	manifBytes, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	m := new(manifest.Manifest)
	if err := json.Unmarshal(manifBytes, m); err != nil {
		return nil, nil, fmt.Errorf("failed to restore manifest file: %w", err)
	}
	return &nefFile, m, nil
}
