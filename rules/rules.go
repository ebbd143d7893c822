// Package rules provides the built-in selector rules: universal, id,
// class, attribute, pseudo-class and tag-name matching. Install wires them
// into a selector registry; Default hands out a lazily built process-wide
// registry guarded against concurrent first use.
package rules

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"dsq/selector"
)

// Rule priorities: when several rules match the same selector prefix the
// highest wins; registration order breaks ties.
const (
	priorityID     = 10000
	priorityClass  = 1000
	priorityAttr   = 1000
	priorityPseudo = 1000
	priorityName   = 100
	priorityAll    = 0
)

// Install registers every built-in rule into reg. All registration errors
// are combined and returned; a non-nil error means the registry is
// half-built and must not be used.
func Install(reg *selector.Registry) error {
	var errs error
	for _, install := range []func(*selector.Registry) error{
		installClass,
		installID,
		installAttr,
		installPseudo,
		installName,
		installAll,
	} {
		errs = multierr.Append(errs, install(reg))
	}
	return errs
}

// MustInstall aborts on any registration error, for init paths where a
// failure is a defect in the built-in definitions themselves.
func MustInstall(reg *selector.Registry) {
	if err := Install(reg); err != nil {
		panic(err)
	}
}

var (
	defaultOnce sync.Once
	defaultReg  *selector.Registry
)

// Default returns the shared registry with all built-in rules installed.
// The first call builds it; concurrent first calls are safe and the
// registration runs exactly once.
func Default() *selector.Registry {
	defaultOnce.Do(func() {
		defaultReg = New(nil)
	})
	return defaultReg
}

// New builds a fresh registry with the built-in rules installed.
func New(log *zap.Logger) *selector.Registry {
	reg := selector.NewRegistry(log)
	MustInstall(reg)
	return reg
}
