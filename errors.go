package forecaster

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-macroforecaster/series"
)

var (
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrUninitialized       = errors.New("forecaster is not initialized")
)

// InsufficientHistoryError reports a series without enough aligned months to fill the
// requested window. It aborts the whole forecast.
type InsufficientHistoryError struct {
	Series    series.ID
	Available int
	Required  int
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("not enough data for %s, have %d months, need %d", e.Series, e.Available, e.Required)
}

func (e *InsufficientHistoryError) Is(target error) bool {
	return target == ErrInsufficientHistory
}
