package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/de-tools/rampa-irr/pkg/adapters"
	"github.com/de-tools/rampa-irr/pkg/models/api"
	"github.com/de-tools/rampa-irr/pkg/services/config"
	"github.com/de-tools/rampa-irr/pkg/services/ingest"
	"github.com/de-tools/rampa-irr/pkg/services/rampa"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	FormatTable   = "table"
	FormatSummary = "summary"
	FormatJSON    = "json"
)

// Printer renders a report in one output format.
type Printer interface {
	Handle(report api.RampaReport) error
}

type ReportCmd struct {
	configPath *string
	filePath   string
	date       string
	format     string
	printers   map[string]Printer
	now        func() time.Time
}

func NewReportCmd(configPath *string, printers map[string]Printer) *cobra.Command {
	rc := &ReportCmd{configPath: configPath, printers: printers, now: time.Now}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute the RAMPA IRR daily targets of a spreadsheet",
		RunE:  rc.run,
	}

	cmd.Flags().StringVarP(&rc.filePath, "file", "f", "", "Path to the .xlsx or .csv repair spreadsheet")
	cmd.Flags().StringVar(&rc.date, "date", "", "Reference date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&rc.format, "format", FormatTable, "Output format: table, summary or json")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	printer, ok := rc.printers[rc.format]
	if !ok {
		return fmt.Errorf("unsupported format %q", rc.format)
	}

	cfg, err := config.LoadConfig(*rc.configPath)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).
		Level(cfg.LogLevel()).
		With().Timestamp().Logger()
	ctx = logger.WithContext(ctx)

	reference := rc.now().In(loc)
	if rc.date != "" {
		reference, err = time.ParseInLocation("2006-01-02", rc.date, loc)
		if err != nil {
			return fmt.Errorf("invalid --date %q. Expected format: YYYY-MM-DD", rc.date)
		}
	}

	data, err := os.ReadFile(rc.filePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", rc.filePath, err)
	}

	records, err := ingest.NewDecoder(cfg.Columns(), loc).Decode(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", rc.filePath, err)
	}

	engine, err := rampa.NewEngine(settings)
	if err != nil {
		return err
	}
	report, err := engine.Build(ctx, records, reference)
	if err != nil {
		return fmt.Errorf("failed to compute report: %w", err)
	}

	return printer.Handle(adapters.MapReportDomainToApi(*report))
}
