package forecaster

import (
	"github.com/aouyang1/go-macroforecaster/montecarlo"
	"github.com/aouyang1/go-macroforecaster/scenario"
	"github.com/aouyang1/go-macroforecaster/series"
)

// Options configures the forecaster independently of any single request
type Options struct {
	SimulationOptions *montecarlo.Options  `json:"simulation_options"`
	Tables            *scenario.Tables     `json:"scenario_tables"`
	Recipes           map[series.ID]Recipe `json:"recipes"`
}

// NewDefaultOptions returns the default simulation options, scenario tables and recipes
func NewDefaultOptions() *Options {
	return &Options{
		SimulationOptions: montecarlo.NewDefaultOptions(),
		Tables:            scenario.NewDefaultTables(),
		Recipes:           DefaultRecipes(),
	}
}

// Validate fills in defaults for anything left unset, including the recipe of any series
// missing one, and validates the simulation options
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	simOpt, err := o.SimulationOptions.Validate()
	if err != nil {
		return nil, err
	}
	o.SimulationOptions = simOpt

	if o.Tables == nil {
		o.Tables = scenario.NewDefaultTables()
	}

	defaults := DefaultRecipes()
	if o.Recipes == nil {
		o.Recipes = defaults
	}
	for _, id := range series.All() {
		if _, exists := o.Recipes[id]; !exists {
			o.Recipes[id] = defaults[id]
		}
	}
	return o, nil
}
