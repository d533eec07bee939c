package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/rampa-irr/pkg/models/api"
	"github.com/de-tools/rampa-irr/pkg/server"
	"github.com/de-tools/rampa-irr/pkg/services/config"
	"github.com/de-tools/rampa-irr/pkg/services/ingest"
	"github.com/de-tools/rampa-irr/pkg/services/rampa"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	handlers "github.com/de-tools/rampa-irr/pkg/handlers/rampa"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the RAMPA IRR web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a config file (settings can also be set with RAMPA_* environment variables)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := zerolog.New(os.Stdout).Level(cfg.LogLevel()).With().Timestamp().Logger()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}

	engine, err := rampa.NewEngine(settings)
	if err != nil {
		return fmt.Errorf("failed to create projection engine: %w", err)
	}

	cols := cfg.Columns()
	logger.Info().
		Float64("repeat_cap", settings.RepeatCap).
		Str("qualifying_outcome", settings.QualifyingOutcome).
		Str("locale", settings.Locale.String()).
		Str("timezone", loc.String()).
		Stringer("columns", cols).
		Msg("configuration loaded")

	webAPI := server.NewWebAPI(server.Config{
		Addr:            net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Decoder: ingest.NewDecoder(cols, loc),
			Builder: engine,
			Rampa: handlers.Options{
				MaxUploadBytes: cfg.Upload.MaxBytes,
				Location:       loc,
				Settings: api.RampaSettings{
					RepeatCap:         settings.RepeatCap,
					QualifyingOutcome: settings.QualifyingOutcome,
					Locale:            settings.Locale.String(),
					Timezone:          loc.String(),
					Columns: api.Columns{
						OpeningDate: cols.OpeningDate,
						Location:    cols.Location,
						Outcome:     cols.Outcome,
					},
				},
			},
			Logger: logger,
		},
	})

	return webAPI.Start()
}
