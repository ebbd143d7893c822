package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/beevik/etree"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"dsq/config"
	"dsq/dom"
	"dsq/rules"
)

// run loads the document named by the first argument and evaluates every
// remaining argument as a selector against it, printing matched elements.
func run(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 2 {
		return fmt.Errorf("need a document file and at least one selector")
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		cfg.Logging.Level = "debug"
	}
	log, err := cfg.Logging.Prepare()
	if err != nil {
		return fmt.Errorf("unable to prepare logs: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	args := cmd.Args().Slice()
	tree := etree.NewDocument()
	if err := tree.ReadFromFile(args[0]); err != nil {
		return fmt.Errorf("unable to read document %q: %w", args[0], err)
	}
	doc := dom.NewTreeDocument(tree)
	reg := rules.New(log)

	var errs error
	for _, text := range args[1:] {
		found, err := reg.Query(doc, text)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		log.Debug("Selector evaluated", zap.String("selector", text), zap.Int("matches", len(found)))
		fmt.Printf("%s: %d match(es)\n", text, len(found))
		for _, ele := range found {
			if id, ok := ele.Attr("id"); ok {
				fmt.Printf("  <%s id=%q>\n", ele.TagName(), id)
			} else {
				fmt.Printf("  <%s>\n", ele.TagName())
			}
		}
	}
	return errs
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:            "dsq",
		Usage:           "evaluate CSS selectors against an XML document",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "verbose engine logging"},
		},
		ArgsUsage: "DOCUMENT SELECTOR [SELECTOR...]",
		Action:    run,
	}
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "dsq: %v\n", err)
		os.Exit(1)
	}
}
