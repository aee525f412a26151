package policies

import (
	"github.com/firesafe/estimator/internal/estimation"
)

var defaultEngine = Default()

// Default creates an Engine with the residential (also used for offices) and warehouse policies registered.
func Default() *estimation.Engine {
	engine := estimation.NewEngine()
	engine.Register(NewResidential())
	engine.Register(NewWarehouse())
	return engine
}

// Estimate runs the built-in engine. It is a pure function and safe for concurrent use.
func Estimate(input estimation.UserInput, pkg estimation.PackageType, cfg estimation.Configuration) estimation.Result {
	return defaultEngine.Estimate(input, pkg, cfg)
}
