// swapcli drives a local escrow ledger. It maintains token accounts in a
// leveldb backed store and submits initialize, exchange and cancel
// operations through the same dispatcher a node would use.
package main

import (
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
)

type options struct {
	DB      string `short:"d" long:"db" default:"swap.db" description:"Path to the database directory"`
	Program string `long:"program" default:"main" description:"Escrow program deployment label"`
	Verbose bool   `short:"v" long:"verbose" description:"Enable debug logging"`
}

var (
	opts options
	log  zerolog.Logger
)

func main() {
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		level := zerolog.InfoLevel
		if opts.Verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
		return cmd.Execute(args)
	}

	registerKeyCommands(parser)
	registerBankCommands(parser)
	registerSwapCommands(parser)

	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			os.Stdout.WriteString(fe.Message + "\n")
			os.Exit(0)
		}
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func addCommand(parser *flags.Parser, name, short, long string, cmd flags.Commander) {
	if _, err := parser.AddCommand(name, short, long, cmd); err != nil {
		panic(err)
	}
}
