package query

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/nspcc-dev/neorpc-go/cli/options"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neorpc-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/vm/vmstate"
	"github.com/urfave/cli"
)

// NewCommands returns 'query' command.
func NewCommands() []cli.Command {
	verboseFlags := append([]cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "Output full info",
		},
	}, options.RPC...)
	return []cli.Command{{
		Name:  "query",
		Usage: "Query data from RPC node",
		Subcommands: []cli.Command{
			{
				Name:   "height",
				Usage:  "Get node height",
				Action: queryHeight,
				Flags:  options.RPC,
			},
			{
				Name:      "block",
				Usage:     "Get block by index or hash",
				UsageText: "neorpc query block -r endpoint [-v] <index|hash>",
				Action:    queryBlock,
				Flags:     verboseFlags,
			},
			{
				Name:      "tx",
				Usage:     "Query transaction status",
				UsageText: "neorpc query tx -r endpoint [-v] <hash>",
				Action:    queryTx,
				Flags:     verboseFlags,
			},
			{
				Name:   "version",
				Usage:  "Get node version and protocol settings",
				Action: queryVersion,
				Flags:  options.RPC,
			},
			{
				Name:   "peers",
				Usage:  "Get the list of node peers",
				Action: queryPeers,
				Flags:  options.RPC,
			},
		},
	}}
}

func queryHeight(ctx *cli.Context) error {
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, _, _, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	count, err := c.GetBlockCount()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	headers, err := c.GetBlockHeaderCount()
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "Latest block: %d\n", count-1)
	if headers > count {
		fmt.Fprintf(ctx.App.Writer, "Headers: %d\n", headers-1)
	}
	return nil
}

func queryBlock(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("block index or hash is missing", 1)
	}
	if len(args) > 1 {
		return cli.NewExitError("only one block can be requested", 1)
	}

	var (
		hash    util.Uint256
		index   uint64
		byIndex bool
		err     error
	)
	index, err = strconv.ParseUint(args[0], 10, 32)
	if err == nil {
		byIndex = true
	} else {
		hash, err = util.Uint256DecodeStringLE(strings.TrimPrefix(args[0], "0x"))
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("invalid block index or hash: %s", args[0]), 1)
		}
	}

	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, _, _, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	var b *result.Block
	if byIndex {
		b, err = c.GetBlockByIndexVerbose(uint32(index))
	} else {
		b, err = c.GetBlockByHashVerbose(hash)
	}
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if ctx.Bool("verbose") {
		return dumpJSON(ctx, b)
	}

	buf := bytes.NewBuffer(nil)
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	_, _ = tw.Write([]byte("Hash:\t" + b.Hash().StringLE() + "\n"))
	_, _ = tw.Write([]byte("Index:\t" + strconv.FormatUint(uint64(b.Index), 10) + "\n"))
	_, _ = tw.Write([]byte("Timestamp:\t" + strconv.FormatUint(b.Timestamp, 10) + "\n"))
	_, _ = tw.Write([]byte("PrevHash:\t" + b.PrevHash.StringLE() + "\n"))
	if b.NextBlockHash != nil {
		_, _ = tw.Write([]byte("NextHash:\t" + b.NextBlockHash.StringLE() + "\n"))
	}
	_, _ = tw.Write([]byte("Confirmations:\t" + strconv.FormatUint(uint64(b.Confirmations), 10) + "\n"))
	_, _ = tw.Write([]byte("NextConsensus:\t" + address.Uint160ToString(b.NextConsensus) + "\n"))
	_, _ = tw.Write([]byte("Transactions:\t" + strconv.Itoa(len(b.Transactions)) + "\n"))
	for _, tx := range b.Transactions {
		_, _ = tw.Write([]byte("\t" + tx.Hash().StringLE() + "\n"))
	}
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func queryTx(ctx *cli.Context) error {
	args := ctx.Args()
	if len(args) == 0 {
		return cli.NewExitError("transaction hash is missing", 1)
	}

	txHash, err := util.Uint256DecodeStringLE(strings.TrimPrefix(args[0], "0x"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("invalid tx hash: %s", args[0]), 1)
	}

	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, _, _, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	txOut, err := c.GetRawTransactionVerbose(txHash)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	var res *result.ApplicationLog
	if txOut.Blockhash != (util.Uint256{}) {
		res, err = c.GetApplicationLog(txHash, nil)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
	}

	dumpApplicationLog(ctx, res, txOut)
	return nil
}

func dumpApplicationLog(ctx *cli.Context, res *result.ApplicationLog, tx *result.TransactionOutputRaw) {
	verbose := ctx.Bool("verbose")
	buf := bytes.NewBuffer(nil)

	// Ignore the errors below because `Write` to buffer doesn't return error.
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	_, _ = tw.Write([]byte("Hash:\t" + tx.Hash().StringLE() + "\n"))
	_, _ = tw.Write([]byte(fmt.Sprintf("OnChain:\t%t\n", res != nil)))
	if res == nil {
		_, _ = tw.Write([]byte("ValidUntil:\t" + strconv.FormatUint(uint64(tx.ValidUntilBlock), 10) + "\n"))
	} else {
		_, _ = tw.Write([]byte("BlockHash:\t" + tx.Blockhash.StringLE() + "\n"))
		_, _ = tw.Write([]byte(fmt.Sprintf("Success:\t%t\n", tx.VMState == vmstate.Halt.String())))
	}
	if verbose {
		for _, sig := range tx.Signers {
			_, _ = tw.Write([]byte(fmt.Sprintf("Signer:\t%s (%s)",
				address.Uint160ToString(sig.Account),
				sig.Scopes) + "\n"))
		}
		_, _ = tw.Write([]byte("SystemFee:\t" + fixedn.Fixed8(tx.SystemFee).String() + " GAS\n"))
		_, _ = tw.Write([]byte("NetworkFee:\t" + fixedn.Fixed8(tx.NetworkFee).String() + " GAS\n"))
		_, _ = tw.Write([]byte("Script:\t" + base64.StdEncoding.EncodeToString(tx.Script) + "\n"))
		if res != nil {
			for _, e := range res.Executions {
				if e.VMState != vmstate.Halt {
					_, _ = tw.Write([]byte("Exception:\t" + e.FaultException + "\n"))
				}
			}
		}
	}
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
}

func queryVersion(ctx *cli.Context) error {
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, _, _, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	v, err := c.GetVersion()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	buf := bytes.NewBuffer(nil)
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	_, _ = tw.Write([]byte("UserAgent:\t" + v.UserAgent + "\n"))
	_, _ = tw.Write([]byte(fmt.Sprintf("Network:\t%s (%d)\n", v.Protocol.Network, uint32(v.Protocol.Network))))
	_, _ = tw.Write([]byte(fmt.Sprintf("TCPPort:\t%d\n", v.TCPPort)))
	if v.WSPort != 0 {
		_, _ = tw.Write([]byte(fmt.Sprintf("WSPort:\t%d\n", v.WSPort)))
	}
	_, _ = tw.Write([]byte(fmt.Sprintf("MillisecondsPerBlock:\t%d\n", v.Protocol.MillisecondsPerBlock)))
	_, _ = tw.Write([]byte(fmt.Sprintf("MaxValidUntilBlockIncrement:\t%d\n", v.Protocol.MaxValidUntilBlockIncrement)))
	_, _ = tw.Write([]byte(fmt.Sprintf("ValidatorsCount:\t%d\n", v.Protocol.ValidatorsCount)))
	_, _ = tw.Write([]byte(fmt.Sprintf("SessionEnabled:\t%t\n", v.RPC.SessionEnabled)))
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func queryPeers(ctx *cli.Context) error {
	gctx, cancel := options.GetTimeoutContext(ctx)
	defer cancel()

	c, _, _, exitErr := options.GetRPCClient(gctx, ctx)
	if exitErr != nil {
		return exitErr
	}
	defer c.Close()

	p, err := c.GetPeers()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	buf := bytes.NewBuffer(nil)
	tw := tabwriter.NewWriter(buf, 0, 4, 4, '\t', 0)
	for _, set := range []struct {
		name  string
		peers result.Peers
	}{
		{"Connected", p.Connected},
		{"Unconnected", p.Unconnected},
		{"Bad", p.Bad},
	} {
		_, _ = tw.Write([]byte(fmt.Sprintf("%s:\t%d\n", set.name, len(set.peers))))
		for _, peer := range set.peers {
			line := fmt.Sprintf("\t%s:%d", peer.Address, peer.Port)
			if peer.UserAgent != "" {
				line += fmt.Sprintf("\t%s\t%d", peer.UserAgent, peer.LastKnownHeight)
			}
			_, _ = tw.Write([]byte(line + "\n"))
		}
	}
	_ = tw.Flush()
	fmt.Fprint(ctx.App.Writer, buf.String())
	return nil
}

func dumpJSON(ctx *cli.Context, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return cli.NewExitError(errors.New("failed to marshal result"), 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(b))
	return nil
}
