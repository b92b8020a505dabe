package main

import (
	"flag"
	"fmt"

	"github.com/pkg/errors"

	"github.com/lowerlang/resolvegraph/graph/cstore"
)

const seedShortHelp = `Install a crate descriptor fixture into a crate-store directory`
const seedLongHelp = `
Copies a crate descriptor TOML file into a scratch crate-store directory so
a subsequent "build" run has something for -extern-dir to resolve
extern-crate statements against.
`

type seedCommand struct {
	dest *string
}

func (cmd *seedCommand) Name() string      { return "seed" }
func (cmd *seedCommand) Args() string      { return "<descriptor.toml>" }
func (cmd *seedCommand) ShortHelp() string { return seedShortHelp }
func (cmd *seedCommand) LongHelp() string  { return seedLongHelp }

func (cmd *seedCommand) Register(fs *flag.FlagSet) {
	cmd.dest = fs.String("dest", "./.resolvegraph-crates", "crate-store directory to install into")
}

func (cmd *seedCommand) Run(ctx *Ctx, args []string) error {
	if len(args) != 1 {
		return errors.New("seed: expected exactly one descriptor path")
	}
	if err := cstore.Install(args[0], *cmd.dest); err != nil {
		return err
	}
	ctx.Out.Logln(fmt.Sprintf("installed %s into %s", args[0], *cmd.dest))
	return nil
}
