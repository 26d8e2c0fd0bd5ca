// Package config resolves the audit configuration once at startup.
//
// Resolution order is explicit flag, then LOGSEQUENCE_* environment
// variable, then hard default. The result is an immutable Config value
// passed into the core; nothing reads configuration ad hoc mid-computation.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrConfig marks a configuration error. These are fatal and reported
// before any processing starts; callers map them to their own exit code.
var ErrConfig = errors.New("configuration error")

// Log input formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config holds all configuration for one audit run.
type Config struct {
	// Logs holds the log file paths or glob patterns to inspect.
	Logs []string `mapstructure:"logs" validate:"required,min=1"`

	// Format selects the input adapter: "json" for JSON-lines, "text" for
	// regex extraction from plain text.
	Format string `mapstructure:"format" validate:"oneof=json text"`

	// JSON field names (capability descriptor for the JSON adapter).
	IDField        string `mapstructure:"id_field" validate:"required"`
	StateField     string `mapstructure:"state_field" validate:"required"`
	TimestampField string `mapstructure:"timestamp_field"`

	// Regex extraction patterns for text format. ID and state are required
	// for text format (cross-checked in Validate); timestamp is optional.
	RegexID        string `mapstructure:"regex_id"`
	RegexState     string `mapstructure:"regex_state"`
	RegexTimestamp string `mapstructure:"regex_timestamp"`

	// AllowedOrder is the "A>B>C" progression; OrderFile points to a YAML
	// definition instead. Exactly one of the two must be set.
	AllowedOrder string `mapstructure:"allowed_order"`
	OrderFile    string `mapstructure:"order_file"`

	IgnoreDuplicates bool `mapstructure:"ignore_duplicates"`
	JSONOutput       bool `mapstructure:"json_output"`

	// Ingestion caps; zero means unlimited.
	MaxIDs         int `mapstructure:"max_ids" validate:"min=0"`
	MaxEventsPerID int `mapstructure:"max_events_per_id" validate:"min=0"`

	TimestampFormat string `mapstructure:"timestamp_format" validate:"oneof=auto iso8601 iso8601_z"`

	// Workers bounds the per-ID audit parallelism.
	Workers int `mapstructure:"workers" validate:"min=1"`

	Store struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"store"`
}

// setDefaults sets the hard defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("format", FormatJSON)
	v.SetDefault("id_field", "id")
	v.SetDefault("state_field", "state")
	v.SetDefault("timestamp_field", "timestamp")
	v.SetDefault("timestamp_format", "auto")
	v.SetDefault("max_ids", 0)
	v.SetDefault("max_events_per_id", 0)
	v.SetDefault("workers", 4)
	v.SetDefault("store.enabled", false)
	v.SetDefault("store.path", "./data/logsequence.db")
}

// NewViper creates the viper instance with defaults and environment
// bindings applied. Cobra binds its flags over this instance, which gives
// the flag > env > default resolution order.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("LOGSEQUENCE")
	v.AutomaticEnv()

	_ = v.BindEnv("id_field", "LOGSEQUENCE_ID_FIELD")
	_ = v.BindEnv("state_field", "LOGSEQUENCE_STATE_FIELD")
	_ = v.BindEnv("timestamp_field", "LOGSEQUENCE_TIMESTAMP_FIELD")
	_ = v.BindEnv("timestamp_format", "LOGSEQUENCE_TIMESTAMP_FORMAT")
	_ = v.BindEnv("allowed_order", "LOGSEQUENCE_ALLOWED_ORDER")
	_ = v.BindEnv("order_file", "LOGSEQUENCE_ORDER_FILE")
	_ = v.BindEnv("store.path", "LOGSEQUENCE_STORE_PATH")

	return v
}

// Resolve unmarshals the final configuration. Callers validate with
// Validate or ValidateIngestion depending on how much of it they use.
func Resolve(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: unable to decode config: %v", ErrConfig, err)
	}
	return &cfg, nil
}

// Validate applies struct validation plus the cross-field rules the tags
// cannot express.
func (c *Config) Validate() error {
	if err := c.ValidateIngestion(); err != nil {
		return err
	}

	if c.AllowedOrder == "" && c.OrderFile == "" {
		return fmt.Errorf("%w: an allowed-order definition is required (--allowed-order or --order-file)", ErrConfig)
	}
	if c.AllowedOrder != "" && c.OrderFile != "" {
		return fmt.Errorf("%w: --allowed-order and --order-file are mutually exclusive", ErrConfig)
	}

	if c.Store.Enabled && c.Store.Path == "" {
		return fmt.Errorf("%w: store path cannot be empty when the store is enabled", ErrConfig)
	}

	return nil
}

// ValidateIngestion checks only what the ingestion side needs. The ids
// subcommand discovers correlation IDs without auditing, so it skips the
// allowed-order requirement.
func (c *Config) ValidateIngestion() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if c.Format == FormatText && (c.RegexID == "" || c.RegexState == "") {
		return fmt.Errorf("%w: --regex-id and --regex-state are required for format=text", ErrConfig)
	}
	return nil
}
