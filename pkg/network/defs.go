package network

import (
	merrors "github.com/matzehuels/mnrl/pkg/errors"
)

// EnableMode governs when a node's logic is considered active.
type EnableMode int

const (
	// EnableAlways keeps the node active on every symbol.
	EnableAlways EnableMode = iota
	// EnableOnActivateIn activates the node only after an incoming activation.
	EnableOnActivateIn
	// EnableOnStartAndActivateIn activates the node at the start of input
	// and after an incoming activation.
	EnableOnStartAndActivateIn
	// EnableOnLast activates the node on the last symbol of input.
	EnableOnLast
)

var enableToString = map[EnableMode]string{
	EnableAlways:               "always",
	EnableOnActivateIn:         "onActivateIn",
	EnableOnStartAndActivateIn: "onStartAndActivateIn",
	EnableOnLast:               "onLast",
}

var enableFromString = invert(enableToString)

// String returns the canonical MNRL spelling, or "" for an unknown value.
func (m EnableMode) String() string { return enableToString[m] }

func (m EnableMode) valid() bool {
	_, ok := enableToString[m]
	return ok
}

// ParseEnableMode maps an MNRL enable string to its EnableMode.
// Unknown strings fail with INVALID_ENUM_VALUE.
func ParseEnableMode(s string) (EnableMode, error) {
	return parseEnum(enableFromString, "enable", s)
}

// ReportEnable overrides when a reporting node may emit reports.
type ReportEnable int

const (
	// ReportAlways reports on every matching symbol.
	ReportAlways ReportEnable = iota
	// ReportOnLast reports only on the last symbol of input.
	ReportOnLast
)

var reportEnableToString = map[ReportEnable]string{
	ReportAlways: "always",
	ReportOnLast: "onLast",
}

var reportEnableFromString = invert(reportEnableToString)

// String returns the canonical MNRL spelling, or "" for an unknown value.
func (r ReportEnable) String() string { return reportEnableToString[r] }

func (r ReportEnable) valid() bool {
	_, ok := reportEnableToString[r]
	return ok
}

// ParseReportEnable maps an MNRL reportEnable string to its ReportEnable.
func ParseReportEnable(s string) (ReportEnable, error) {
	return parseEnum(reportEnableFromString, "reportEnable", s)
}

// CounterMode selects what an up-counter does once it reaches its threshold.
type CounterMode int

const (
	// CounterTrigger pulses the output once when the threshold is reached.
	CounterTrigger CounterMode = iota
	// CounterHigh holds the output high from the threshold on.
	CounterHigh
	// CounterRollover pulses the output and restarts counting from zero.
	CounterRollover
)

var counterModeToString = map[CounterMode]string{
	CounterTrigger:  "trigger",
	CounterHigh:     "high",
	CounterRollover: "rollover",
}

var counterModeFromString = invert(counterModeToString)

// String returns the canonical MNRL spelling, or "" for an unknown value.
func (m CounterMode) String() string { return counterModeToString[m] }

func (m CounterMode) valid() bool {
	_, ok := counterModeToString[m]
	return ok
}

// ParseCounterMode maps an MNRL counter mode string to its CounterMode.
func ParseCounterMode(s string) (CounterMode, error) {
	return parseEnum(counterModeFromString, "mode", s)
}

// BooleanMode is the logic function of a boolean gate.
type BooleanMode int

const (
	BooleanAnd BooleanMode = iota
	BooleanOr
	BooleanNor
	BooleanNot
	BooleanNand
)

var booleanModeToString = map[BooleanMode]string{
	BooleanAnd:  "and",
	BooleanOr:   "or",
	BooleanNor:  "nor",
	BooleanNot:  "not",
	BooleanNand: "nand",
}

var booleanModeFromString = invert(booleanModeToString)

// String returns the canonical MNRL spelling, or "" for an unknown value.
func (m BooleanMode) String() string { return booleanModeToString[m] }

func (m BooleanMode) valid() bool {
	_, ok := booleanModeToString[m]
	return ok
}

// Arity returns the number of input ports a gate of this mode has:
// 1 for not, 2 for every other mode, 0 for an unknown mode.
func (m BooleanMode) Arity() int {
	switch m {
	case BooleanNot:
		return 1
	case BooleanAnd, BooleanOr, BooleanNor, BooleanNand:
		return 2
	default:
		return 0
	}
}

// ParseBooleanMode maps an MNRL gateType string to its BooleanMode.
func ParseBooleanMode(s string) (BooleanMode, error) {
	return parseEnum(booleanModeFromString, "gateType", s)
}

func invert[K comparable, V comparable](m map[K]V) map[V]K {
	out := make(map[V]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func parseEnum[T any](table map[string]T, field, s string) (T, error) {
	v, ok := table[s]
	if !ok {
		var zero T
		return zero, merrors.New(merrors.ErrCodeInvalidEnumValue, "invalid %s value %q", field, s).WithSubject(field)
	}
	return v, nil
}
