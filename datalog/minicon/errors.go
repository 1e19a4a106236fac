package minicon

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrMissingRank is returned when a view taking part in a ranked run has
	// no preference rank. The run produces no output.
	ErrMissingRank = errors.New("no preference rank for view")

	// ErrNoRankSource is returned when the ranked strategy runs without ranks
	ErrNoRankSource = errors.New("ranked search requires a rank source")

	// ErrSearchSpaceTooLarge is returned when the exhaustive search would
	// have to enumerate more subsets than a uint64 counter can address.
	ErrSearchSpaceTooLarge = errors.New("too many MCDs for exhaustive search")

	// ErrInvalidBudget is returned for a budget below zero other than Unbounded
	ErrInvalidBudget = errors.New("invalid budget")

	// ErrUnknownStrategy is returned for an unrecognised Options.Strategy
	ErrUnknownStrategy = errors.New("unknown combination strategy")
)

// IsConfigurationError reports whether err stems from the run's
// configuration rather than from the query or views.
func IsConfigurationError(err error) bool {
	return errors.IsAny(err, ErrMissingRank, ErrNoRankSource, ErrUnknownStrategy, ErrInvalidBudget)
}
