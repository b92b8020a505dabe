package main

import (
	"context"
	"flag"
	"sort"

	"github.com/pkg/errors"

	"github.com/lowerlang/resolvegraph/graph"
	"github.com/lowerlang/resolvegraph/graph/ast"
	"github.com/lowerlang/resolvegraph/graph/astmap"
	"github.com/lowerlang/resolvegraph/graph/cstore"
	"github.com/lowerlang/resolvegraph/graph/fixture"
	"github.com/lowerlang/resolvegraph/graph/session"
)

const buildShortHelp = `Build the reduced graph for a toy crate fixture`
const buildLongHelp = `
Loads a TOML crate fixture, builds the reduced name-resolution graph against
a file-backed crate store, and prints the resulting module tree and any
diagnostics. Extern crate items at the fixture's top level are loaded from
-extern-dir; extern crate items nested inside modules are not.
`

type buildCommand struct {
	externDir string
	cacheFile string
}

func (cmd *buildCommand) Name() string      { return "build" }
func (cmd *buildCommand) Args() string      { return "<fixture.toml>" }
func (cmd *buildCommand) ShortHelp() string { return buildShortHelp }
func (cmd *buildCommand) LongHelp() string  { return buildLongHelp }

func (cmd *buildCommand) Register(fs *flag.FlagSet) {
	fs.StringVar(&cmd.externDir, "extern-dir", "", "directory of extern-crate descriptor fixtures")
	fs.StringVar(&cmd.cacheFile, "cache", "", "bolt cache file for descriptor lookups (disabled if empty)")
}

func (cmd *buildCommand) Run(ctx *Ctx, args []string) error {
	if len(args) != 1 {
		return errors.New("build: expected exactly one fixture path")
	}

	krate, err := fixture.Load(args[0])
	if err != nil {
		return err
	}

	store, err := cstore.NewFileCrateStore(cmd.externDir, cmd.cacheFile)
	if err != nil {
		return errors.Wrap(err, "build: opening crate store")
	}
	defer store.Close()

	for _, it := range krate.Items {
		if it.Kind != ast.ItemExternCrate {
			continue
		}
		if _, err := store.RegisterExternCrate(context.Background(), graph.NodeId(it.ID), it.Name); err != nil {
			return errors.Wrapf(err, "build: loading extern crate %q", it.Name)
		}
	}

	names := graph.NewInterner()
	sess := session.New(nil)
	am := astmap.New()
	rootDefID := graph.CrateRootDefId(graph.LocalCrate)
	root := graph.NewModule(graph.RootParentLink(), &rootDefID, graph.NormalModuleKind, false, true)
	r := graph.NewResolver(names, sess, am, store, root)

	if err := graph.BuildReducedGraph(r, krate); err != nil {
		return errors.Wrap(err, "build: building reduced graph")
	}

	printModule(ctx, names, "", root)

	if recs := sess.Records(); len(recs) > 0 {
		ctx.Out.Logln()
		ctx.Out.Logln("diagnostics:")
		for _, rec := range recs {
			ctx.Out.Logf("  %s: %s\n", rec.Level, rec.Msg)
		}
	}
	if sess.ErrorCount() > 0 {
		return errors.Errorf("build: %d error(s) reported", sess.ErrorCount())
	}
	return nil
}

func printModule(ctx *Ctx, names *graph.Interner, prefix string, m *graph.Module) {
	children := m.Children()
	keys := make([]graph.Name, 0, len(children))
	for name := range children {
		keys = append(keys, name)
	}
	sort.Slice(keys, func(i, j int) bool { return names.String(keys[i]) < names.String(keys[j]) })

	for _, name := range keys {
		nb := children[name]
		label := names.String(name)
		if def, ok := nb.DefForNamespace(graph.TypeNS); ok {
			ctx.Out.Logf("%s%s (type: %s)\n", prefix, label, def)
		}
		if def, ok := nb.DefForNamespace(graph.ValueNS); ok {
			ctx.Out.Logf("%s%s (value: %s)\n", prefix, label, def)
		}
		if sub := nb.GetModuleIfAvailable(); sub != nil {
			printModule(ctx, names, prefix+"  ", sub)
		}
	}

	for name, ext := range m.ExternalModuleChildren() {
		ctx.Out.Logf("%s%s (extern crate)\n", prefix, names.String(name))
		printModule(ctx, names, prefix+"  ", ext)
	}

	if len(m.Imports()) > 0 {
		ctx.Out.Logf("%simports: %d, unresolved per module glob=%d pub_glob=%d pub=%d\n",
			prefix, len(m.Imports()), m.GlobCount(), m.PubGlobCount(), m.PubCount())
	}
}
