package constants

import "time"

// Analysis defaults
const (
	// DefaultCacheTTL is how long a cached analysis stays valid.
	DefaultCacheTTL = 30 * time.Minute

	// DefaultCacheSize bounds the number of cached analyses.
	DefaultCacheSize = 1000

	// DefaultAnomalyMultiplier is the base k in |x - median| > k * MAD.
	DefaultAnomalyMultiplier = 3.0

	// DefaultCorrelationThreshold gates emitted window correlations.
	DefaultCorrelationThreshold = 0.7

	// DefaultAnnualizationFactor converts daily return variance to annual
	// volatility (trading-day convention).
	DefaultAnnualizationFactor = 252.0

	// DefaultMomentumWindow is the trailing window for momentum.
	DefaultMomentumWindow = 10

	// MinCycleLength is the shortest series that periodicity detection
	// attempts; shorter series yield an empty cycle list.
	MinCycleLength = 6

	// MADConsistency scales median absolute deviation to the standard
	// deviation of a normal distribution.
	MADConsistency = 1.4826
)
