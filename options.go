package strata

// config collects the options a Table is constructed with. Strata is
// append-only and never shrinks, so there is no shrink-related option to
// configure.
type config struct {
	initialCapacity int
	growthCallback  func(global uint64) (threshold uint64)
}

// Option configures a new Table.
type Option func(*config)

// WithInitialCapacity pre-grows a new table so its total slot count is at
// least n before any key is written. NewWithCapacity is sugar for
// New(hash, WithInitialCapacity(n)).
func WithInitialCapacity(n int) Option {
	return func(c *config) {
		c.initialCapacity = n
	}
}

// WithGrowthCallback replaces the table's automatic growth policy (append a
// stratum whenever the exact size exceeds the current last stratum's
// boundary) with a caller-supplied one. The callback receives the
// manager's exact global size and must return the threshold the manager
// should aim the next recompute at. Since it fully replaces the built-in
// policy, a table configured this way never grows past its initial
// capacity on its own, which suits a fixed-capacity table that wants
// tight, unchanging thresholds instead of ever-growing strata.
func WithGrowthCallback(cb func(global uint64) (threshold uint64)) Option {
	return func(c *config) {
		c.growthCallback = cb
	}
}
