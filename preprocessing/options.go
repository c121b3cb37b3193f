package preprocessing

import (
	"fmt"

	"github.com/YuminosukeSato/featurizer/pkg/errors"
	"github.com/YuminosukeSato/featurizer/pkg/log"
)

// UnresolvedTailPolicy decides what Flush does with nulls that no later
// value ever resolved.
type UnresolvedTailPolicy int

const (
	// DropUnresolved emits nothing for the unresolved run and logs a warning.
	DropUnresolved UnresolvedTailPolicy = iota
	// FillWithLastKnown emits one copy of the last known value per
	// unresolved null. With no last known value the run is dropped.
	FillWithLastKnown
	// ErrorOnUnresolved makes Flush fail with an InvalidState error.
	ErrorOnUnresolved
)

// String returns the policy name as accepted by ParseUnresolvedTailPolicy.
func (p UnresolvedTailPolicy) String() string {
	switch p {
	case DropUnresolved:
		return "drop"
	case FillWithLastKnown:
		return "last-known"
	case ErrorOnUnresolved:
		return "error"
	default:
		return "unknown"
	}
}

// ParseUnresolvedTailPolicy parses "drop", "last-known" or "error".
func ParseUnresolvedTailPolicy(s string) (UnresolvedTailPolicy, error) {
	switch s {
	case "drop", "":
		return DropUnresolved, nil
	case "last-known":
		return FillWithLastKnown, nil
	case "error":
		return ErrorOnUnresolved, nil
	default:
		return DropUnresolved, errors.NewInvalidArgumentError("ParseUnresolvedTailPolicy", "policy",
			fmt.Sprintf("unknown policy %q (want drop, last-known or error)", s))
	}
}

type config struct {
	tailPolicy UnresolvedTailPolicy
	logger     log.Logger
}

func newConfig(opts []Option) config {
	cfg := config{
		tailPolicy: DropUnresolved,
		logger:     log.GetLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures an imputer estimator or transformer.
type Option func(*config)

// WithUnresolvedTailPolicy sets the Flush behavior for unresolved nulls.
func WithUnresolvedTailPolicy(p UnresolvedTailPolicy) Option {
	return func(c *config) {
		c.tailPolicy = p
	}
}

// WithLogger sets the logger. A nil logger keeps the default.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
