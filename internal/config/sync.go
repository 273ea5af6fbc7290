package config

// SyncConfig drives the reservation reconciliation engine. Everything the
// engine needs is carried here explicitly so tests can supply fixed fixtures
// instead of reading ambient state.
type SyncConfig struct {
	// Timezone is the business timezone booking timestamps are converted
	// into, e.g. "Pacific/Auckland".
	Timezone string `yaml:"timezone" validate:"required"`

	// DefaultCurrency is applied when a feed row carries no currency code.
	DefaultCurrency string `yaml:"default_currency" validate:"required,len=3"`

	// BookingColumns is the allowlist of booking columns the engine may
	// write. Attributes outside this set are dropped rather than risking a
	// write against a column an environment's schema does not have yet.
	// Empty means "all columns the model knows about".
	BookingColumns []string `yaml:"booking_columns"`

	// MaxReportedErrors caps how many per-row errors a sync response
	// carries back to interactive callers. All errors are still logged.
	MaxReportedErrors int `yaml:"max_reported_errors"`

	Feeds FeedsConfig `yaml:"feeds"`
}

type FeedsConfig struct {
	VEVS        FeedConfig `yaml:"vevs"`
	DreamDrives FeedConfig `yaml:"dreamdrives"`
}

// FeedConfig configures one external reservation feed.
type FeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`

	// ReferencePrefix is prepended to a row's source id when the row has no
	// reference of its own, e.g. "DD-" for Dream Drives.
	ReferencePrefix string `yaml:"reference_prefix"`

	// StatusPolicy is "pass_through" or "default_pending". The two feeds
	// intentionally differ; see internal/domain/feed.
	StatusPolicy string `yaml:"status_policy"`

	// NestedPayments marks feeds whose reservation rows embed payment
	// sub-records.
	NestedPayments bool `yaml:"nested_payments"`
}
