package terminal

import (
	"io"
	"os"

	"github.com/de-tools/rampa-irr/pkg/models/api"
	"github.com/de-tools/rampa-irr/pkg/runtime/terminal/commands"
	"github.com/de-tools/rampa-irr/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	configPath string
	printers   map[string]commands.Printer
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	exporter := export.NewReporter(opts.Output)
	cli := &CLI{
		printers: map[string]commands.Printer{
			commands.FormatTable:   exporter,
			commands.FormatSummary: NewReporter(opts.Output),
			commands.FormatJSON:    jsonPrinter{exporter},
		},
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rampa",
		Short:         "RAMPA IRR daily target projection",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a config file (yaml, json or toml)")

	cmd.AddCommand(commands.NewReportCmd(&cli.configPath, cli.printers))
	cmd.AddCommand(commands.NewSettingsCmd(&cli.configPath))

	return cmd
}

type jsonPrinter struct {
	reporter *export.Reporter
}

func (p jsonPrinter) Handle(report api.RampaReport) error {
	return p.reporter.HandleJSON(report)
}
