/*
Package options contains a set of common CLI options and helper functions to use them.
*/
package options

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nspcc-dev/neorpc-go/cli/flags"
	"github.com/nspcc-dev/neorpc-go/cli/input"
	"github.com/nspcc-dev/neorpc-go/pkg/config"
	"github.com/nspcc-dev/neorpc-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neorpc-go/pkg/encoding/address"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient"
	"github.com/nspcc-dev/neorpc-go/pkg/rpcclient/txmanager"
	"github.com/nspcc-dev/neorpc-go/pkg/util"
	"github.com/nspcc-dev/neorpc-go/pkg/wallet"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

// DefaultTimeout is the default timeout used for RPC requests.
const DefaultTimeout = 10 * time.Second

// RPCEndpointFlag is a long flag name for an RPC endpoint. It can be used to
// check for flag presence in the context.
const RPCEndpointFlag = "rpc-endpoint"

// RPC is a set of flags used for RPC connections (endpoint, timeout and
// the client configuration).
var RPC = []cli.Flag{
	cli.StringFlag{
		Name:  RPCEndpointFlag + ", r",
		Usage: "RPC node address (overrides the configuration file)",
	},
	cli.DurationFlag{
		Name:  "timeout, s",
		Value: DefaultTimeout,
		Usage: "Timeout for the operation",
	},
	cli.StringFlag{
		Name:  "config, c",
		Usage: "Path to the client configuration file",
	},
	cli.BoolFlag{
		Name:  "debug, d",
		Usage: "Enable debug logging (overrides configuration)",
	},
}

// Key is a set of flags used to get the signing key: plain WIF, NEP-2
// encrypted key or a wallet account.
var Key = []cli.Flag{
	cli.StringFlag{
		Name:  "wif",
		Usage: "WIF of the key to sign with",
	},
	cli.StringFlag{
		Name:  "nep2",
		Usage: "NEP-2 encrypted key to sign with (password is requested)",
	},
	cli.StringFlag{
		Name:  "wallet, w",
		Usage: "Wallet to get the key from; conflicts with --wallet-config flag",
	},
	cli.StringFlag{
		Name:  "wallet-config",
		Usage: "Path to wallet config to get the key from; conflicts with --wallet flag",
	},
	flags.AddressFlag{
		Name:  "address, a",
		Usage: "Wallet account to sign with (default account is used if not set)",
	},
}

var (
	errNoEndpoint             = errors.New("no RPC endpoint specified, use option '--" + RPCEndpointFlag + "' or '-r' or set it in the configuration file")
	errNoKey                  = errors.New("no key specified, use '--wif', '--nep2', '--wallet' or '--wallet-config'")
	errConflictingKeyFlags    = errors.New("only one of '--wif', '--nep2', '--wallet' or '--wallet-config' can be used")
	errNetworkMismatch        = errors.New("node network doesn't match the configuration")
	errConflictingWalletFlags = errors.New("--wallet flag conflicts with --wallet-config flag, please, provide one of them to specify wallet location")
)

// GetTimeoutContext returns a context.Context with the default or a user-set timeout.
func GetTimeoutContext(ctx *cli.Context) (context.Context, func()) {
	dur := ctx.Duration("timeout")
	if dur == 0 {
		dur = DefaultTimeout
	}
	return context.WithTimeout(context.Background(), dur)
}

// GetConfigFromContext loads the configuration file if it's given and
// applies command line overrides to it.
func GetConfigFromContext(ctx *cli.Context) (config.Config, error) {
	var (
		cfg = config.Default()
		err error
	)
	if path := ctx.String("config"); path != "" {
		cfg, err = config.LoadFile(path)
		if err != nil {
			return config.Config{}, err
		}
	}
	if endpoint := ctx.String(RPCEndpointFlag); endpoint != "" {
		cfg.RPC.Endpoint = endpoint
	}
	if cfg.RPC.Endpoint == "" {
		return config.Config{}, errNoEndpoint
	}
	return cfg, nil
}

// HandleLoggingParams creates a logger with the configured level and
// encoding. If a user selected debug level, it's enabled.
func HandleLoggingParams(debug bool, cfg config.Logger) (*zap.Logger, error) {
	return cfg.Build(debug)
}

// GetRPCClient returns an RPC client instance for the given Context along
// with the configuration used and the logger. The client is checked to be
// connected to the configured network.
func GetRPCClient(gctx context.Context, ctx *cli.Context) (*rpcclient.Client, config.Config, *zap.Logger, cli.ExitCoder) {
	cfg, err := GetConfigFromContext(ctx)
	if err != nil {
		return nil, config.Config{}, nil, cli.NewExitError(err, 1)
	}
	log, err := HandleLoggingParams(ctx.Bool("debug"), cfg.Logger)
	if err != nil {
		return nil, config.Config{}, nil, cli.NewExitError(err, 1)
	}
	endpoint, err := cfg.RPC.URL()
	if err != nil {
		return nil, config.Config{}, nil, cli.NewExitError(err, 1)
	}
	c, err := rpcclient.New(gctx, endpoint, cfg.RPC.ClientOptions(log))
	if err != nil {
		return nil, config.Config{}, nil, cli.NewExitError(err, 1)
	}
	v, err := c.Init()
	if err != nil {
		_ = c.Close()
		return nil, config.Config{}, nil, cli.NewExitError(err, 1)
	}
	if cfg.Network != 0 && v.Protocol.Network != cfg.Network {
		_ = c.Close()
		return nil, config.Config{}, nil, cli.NewExitError(fmt.Errorf("%w: %s vs %s",
			errNetworkMismatch, v.Protocol.Network, cfg.Network), 1)
	}
	return c, cfg, log, nil
}

// GetTxManager returns a transaction manager using the client.
func GetTxManager(c *rpcclient.Client, cfg config.Config, log *zap.Logger) (*txmanager.Manager, cli.ExitCoder) {
	m, err := txmanager.New(c, cfg.Transaction.ManagerOptions(log))
	if err != nil {
		return nil, cli.NewExitError(fmt.Errorf("failed to create transaction manager: %w", err), 1)
	}
	return m, nil
}

// GetKeyFromContext returns the signing account from the key flags. The
// password for encrypted keys is requested from the user unless the wallet
// config provides it.
func GetKeyFromContext(ctx *cli.Context) (*wallet.Account, error) {
	var (
		wif     = ctx.String("wif")
		nep2    = ctx.String("nep2")
		wPath   = ctx.String("wallet")
		wConfig = ctx.String("wallet-config")
		set     int
	)
	for _, s := range []string{wif, nep2, wPath, wConfig} {
		if s != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return nil, errNoKey
	case wPath != "" && wConfig != "":
		return nil, errConflictingWalletFlags
	case set > 1:
		return nil, errConflictingKeyFlags
	}

	switch {
	case wif != "":
		return wallet.NewAccountFromWIF(wif)
	case nep2 != "":
		pass, err := input.ReadPassword("Enter key password > ")
		if err != nil {
			return nil, fmt.Errorf("error reading password: %w", err)
		}
		return wallet.NewAccountFromEncryptedWIF(nep2, pass, keys.NEP2ScryptParams())
	}

	var pass *string
	if wConfig != "" {
		wcfg, err := config.ReadWalletConfig(wConfig)
		if err != nil {
			return nil, err
		}
		wPath = wcfg.Path
		pass = &wcfg.Password
	}
	wall, err := wallet.NewWalletFromFile(wPath)
	if err != nil {
		return nil, err
	}
	addr, ok := flags.AddressFromContext(ctx, "address")
	if !ok {
		addr, err = wall.GetChangeAddress()
		if err != nil {
			return nil, errors.New("can't get default address")
		}
	}
	return GetUnlockedAccount(wall, addr, pass)
}

// GetUnlockedAccount returns account from wallet, address and uses pass to unlock specified account if given.
// If the password is not given, then it is requested from user.
func GetUnlockedAccount(wall *wallet.Wallet, addr util.Uint160, pass *string) (*wallet.Account, error) {
	acc := wall.GetAccount(addr)
	if acc == nil {
		return nil, fmt.Errorf("wallet contains no account for '%s'", address.Uint160ToString(addr))
	}

	if acc.CanSign() {
		return acc, nil
	}
	if acc.EncryptedWIF == "" {
		return nil, fmt.Errorf("account %s has no key", acc.Address)
	}

	if pass == nil {
		rawPass, err := input.ReadPassword(
			fmt.Sprintf("Enter account %s password > ", address.Uint160ToString(addr)))
		if err != nil {
			return nil, fmt.Errorf("error reading password: %w", err)
		}
		pass = &rawPass
	}
	err := acc.Decrypt(*pass, wall.Scrypt)
	if err != nil {
		return nil, err
	}
	return acc, nil
}
