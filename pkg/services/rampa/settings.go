package rampa

import (
	"fmt"
	"math"

	"github.com/de-tools/rampa-irr/pkg/models/domain"
	"golang.org/x/text/language"
)

const (
	DefaultRepeatCap         = 0.32
	DefaultQualifyingOutcome = "R30"
)

// Settings holds the business constants of the projection.
type Settings struct {
	// RepeatCap is the share of projected repairs that may recur within 30 days.
	RepeatCap float64
	// QualifyingOutcome is the exact treatment value marking a 30-day repeat.
	QualifyingOutcome string
	Locale            language.Tag
}

func DefaultSettings() Settings {
	return Settings{
		RepeatCap:         DefaultRepeatCap,
		QualifyingOutcome: DefaultQualifyingOutcome,
		Locale:            language.BrazilianPortuguese,
	}
}

func (s Settings) validate() error {
	if math.IsNaN(s.RepeatCap) || s.RepeatCap <= 0 || s.RepeatCap > 1 {
		return domain.NewStageError("settings",
			fmt.Errorf("%w: repeat cap must be in (0, 1], got %v", domain.ErrComputationFailure, s.RepeatCap))
	}
	if s.QualifyingOutcome == "" {
		return domain.NewStageError("settings",
			fmt.Errorf("%w: qualifying outcome must not be empty", domain.ErrComputationFailure))
	}
	return nil
}
