package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/nspcc-dev/neorpc-go/cli/query"
	"github.com/nspcc-dev/neorpc-go/cli/smartcontract"
	"github.com/nspcc-dev/neorpc-go/cli/wallet"
	"github.com/nspcc-dev/neorpc-go/pkg/config"
	"github.com/urfave/cli"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "neorpc\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a neorpc instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "neorpc"
	ctl.Version = config.Version
	ctl.Usage = "Neo JSON-RPC client"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, query.NewCommands()...)
	ctl.Commands = append(ctl.Commands, smartcontract.NewCommands()...)
	ctl.Commands = append(ctl.Commands, wallet.NewCommands()...)
	return ctl
}
