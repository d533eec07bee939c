package commands

import (
	"fmt"

	"github.com/de-tools/rampa-irr/pkg/services/config"
	"github.com/spf13/cobra"
)

type SettingsCmd struct {
	configPath *string
}

func NewSettingsCmd(configPath *string) *cobra.Command {
	sc := &SettingsCmd{configPath: configPath}
	return &cobra.Command{
		Use:   "settings",
		Short: "Show the effective projection settings",
		RunE:  sc.run,
	}
}

func (sc *SettingsCmd) run(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(*sc.configPath)
	if err != nil {
		return err
	}

	cols := cfg.Columns()
	fmt.Fprintf(cmd.OutOrStdout(), "repeat cap:          %.2f\n", cfg.Rampa.RepeatCap)
	fmt.Fprintf(cmd.OutOrStdout(), "qualifying outcome:  %s\n", cfg.Rampa.QualifyingOutcome)
	fmt.Fprintf(cmd.OutOrStdout(), "locale:              %s\n", cfg.Rampa.Locale)
	fmt.Fprintf(cmd.OutOrStdout(), "timezone:            %s\n", cfg.Rampa.Timezone)
	fmt.Fprintf(cmd.OutOrStdout(), "columns:             %s, %s, %s\n", cols.OpeningDate, cols.Location, cols.Outcome)
	return nil
}
