package flags

import (
	"errors"
	"flag"
	"strings"

	"github.com/nspcc-dev/neorpc-go/pkg/encoding/fixedn"
	"github.com/urfave/cli"
)

// errNegativeAmount is returned for amounts below zero, fees and limits
// can't be negative.
var errNegativeAmount = errors.New("negative GAS amount")

// Fixed8 is a non-negative GAS amount implementing flag.Value.
type Fixed8 struct {
	Value fixedn.Fixed8
}

// Fixed8Flag is a flag holding a GAS amount in the decimal form ("0.5").
type Fixed8Flag struct {
	Name  string
	Usage string
	Value Fixed8
}

var (
	_ flag.Value = (*Fixed8)(nil)
	_ cli.Flag   = Fixed8Flag{}
)

// String implements the fmt.Stringer interface.
func (a Fixed8) String() string {
	return a.Value.String()
}

// Set implements the flag.Value interface.
func (a *Fixed8) Set(s string) error {
	f, err := fixedn.Fixed8FromString(s)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	if f < 0 {
		return cli.NewExitError(errNegativeAmount, 1)
	}
	a.Value = f
	return nil
}

// Fixed8 returns the amount.
func (a *Fixed8) Fixed8() fixedn.Fixed8 {
	return a.Value
}

// String returns a readable representation of this value
// (for usage defaults).
func (f Fixed8Flag) String() string {
	var names []string
	eachName(f.Name, func(name string) {
		names = append(names, getNameHelp(name))
	})
	usage := f.Usage
	if f.Value.Value != 0 {
		usage += " (default: " + f.Value.String() + ")"
	}
	return strings.Join(names, ", ") + "\t" + usage
}

// GetName returns the name of the flag.
func (f Fixed8Flag) GetName() string {
	return f.Name
}

// Apply populates the flag given the flag set and environment.
func (f Fixed8Flag) Apply(set *flag.FlagSet) {
	eachName(f.Name, func(name string) {
		set.Var(&f.Value, name, f.Usage)
	})
}

// Fixed8FromContext returns the GAS amount of the flag, it's the default
// one if the flag is not set.
func Fixed8FromContext(ctx *cli.Context, name string) fixedn.Fixed8 {
	return ctx.Generic(name).(*Fixed8).Value
}
