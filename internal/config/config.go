// Package config holds process-wide toggles read once at startup.
package config

// StrictRecursionGuard keeps the evaluator's guarded-unfolding rule active.
// Always true outside of benchmarking builds; there is no supported way to
// turn it off short of editing this default, since relaxing it reintroduces
// the non-termination the guard exists to prevent.
var StrictRecursionGuard = true

// NormalizeIDsInOutput is not read anywhere in this module: core.ToString
// prints identifiers as allocated whatever its value.
var NormalizeIDsInOutput = false

// IsTestMode is not set or read by any package in this module.
var IsTestMode = false
