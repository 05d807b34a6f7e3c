package montecarlo

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/aouyang1/go-macroforecaster/decompose"
	"github.com/aouyang1/go-macroforecaster/rng"
)

const (
	DefaultPaths         = 400
	DefaultSmoothing     = 0.25
	DefaultLowerQuantile = 0.1
	DefaultUpperQuantile = 0.9
)

var (
	ErrNonPositivePaths = errors.New("number of paths must be positive")
	ErrInvalidSmoothing = errors.New("smoothing factor must be in (0, 1]")
	ErrInvalidQuantiles = errors.New("quantiles must satisfy 0 <= lower <= upper <= 1")
)

// Options configures the ensemble size, its reduction and how it is spread across goroutines
type Options struct {
	Paths int `json:"paths"`

	// Smoothing is the exponential smoothing factor applied to the mean path only
	Smoothing float64 `json:"smoothing"`

	LowerQuantile float64 `json:"lower_quantile"`
	UpperQuantile float64 `json:"upper_quantile"`

	// Parallelization bounds the number of paths simulated concurrently. Defaults to the
	// number of CPUs. Results do not depend on it.
	Parallelization int `json:"parallelization"`

	DecomposeOptions *decompose.Options `json:"decompose_options"`

	// NewGenerator builds the generator for each path. Defaults to Mulberry32.
	NewGenerator rng.Factory `json:"-"`
}

// NewDefaultOptions returns the default simulation options
func NewDefaultOptions() *Options {
	return &Options{
		Paths:            DefaultPaths,
		Smoothing:        DefaultSmoothing,
		LowerQuantile:    DefaultLowerQuantile,
		UpperQuantile:    DefaultUpperQuantile,
		DecomposeOptions: decompose.NewDefaultOptions(),
		NewGenerator:     rng.MulberryFactory,
	}
}

// Validate runs basic validation on the simulation options and returns a copy with defaults
// filled in for unset parallelization, decomposition and generator. The receiver is never
// modified so one set of options can be shared across concurrent runs.
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	res := *o
	o = &res

	if o.Paths <= 0 {
		return nil, fmt.Errorf("got %d, %w", o.Paths, ErrNonPositivePaths)
	}
	if math.IsNaN(o.Smoothing) || o.Smoothing <= 0 || o.Smoothing > 1 {
		return nil, fmt.Errorf("got %.3f, %w", o.Smoothing, ErrInvalidSmoothing)
	}
	if math.IsNaN(o.LowerQuantile) || math.IsNaN(o.UpperQuantile) ||
		o.LowerQuantile < 0 || o.UpperQuantile > 1 || o.LowerQuantile > o.UpperQuantile {
		return nil, fmt.Errorf("got lower %.3f and upper %.3f, %w", o.LowerQuantile, o.UpperQuantile, ErrInvalidQuantiles)
	}
	if o.Parallelization <= 0 {
		o.Parallelization = runtime.NumCPU()
	}
	if o.Parallelization > o.Paths {
		o.Parallelization = o.Paths
	}

	dopt, err := o.DecomposeOptions.Validate()
	if err != nil {
		return nil, err
	}
	o.DecomposeOptions = dopt

	if o.NewGenerator == nil {
		o.NewGenerator = rng.MulberryFactory
	}
	return o, nil
}
