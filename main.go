package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"nodewalk/internal/config"
	"nodewalk/internal/eventbus"
	"nodewalk/internal/logging"
)

var version = "dev"

var log = commonlog.GetLogger("nodewalk")

// rootOptions holds the flags every subcommand shares
type rootOptions struct {
	configPath string
	logFile    string
	verbose    int
	lang       string

	bus eventbus.EventBus
	cfg *config.Config
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "nodewalk:", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the nodewalk command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "nodewalk [file]",
		Short:         "Walk the syntax tree of a file node by node",
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd == cmd.Root())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runEditor(cmd.Context(), opts, path)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.StringVar(&opts.logFile, "log-file", "", "write log messages to this file")
	flags.CountVarP(&opts.verbose, "verbose", "v", "log more (repeat for debug)")
	flags.StringVar(&opts.lang, "lang", "", "language of the file, overriding detection")

	root.AddCommand(newWalkCmd(opts), newCommandsCmd(opts))
	return root
}

// load reads the config and sets up logging. The editor owns the terminal,
// so it only logs when a log file is named.
func (o *rootOptions) load(fullscreen bool) error {
	o.bus = eventbus.New()

	cfg, err := config.NewConfigServiceWithBus(o.configPath, o.bus).Load()
	if err != nil {
		return err
	}
	o.cfg = cfg

	logFile := cfg.Log.File
	if o.logFile != "" {
		logFile = o.logFile
	}
	verbosity := cfg.Log.Verbosity
	if o.verbose > 0 {
		verbosity = o.verbose
	}
	if err := logging.Configure(verbosity, logFile, fullscreen); err != nil {
		return err
	}
	log.Debugf("nodewalk %s", version)
	return nil
}
