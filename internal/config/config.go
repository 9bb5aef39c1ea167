// Package config handles verification run configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfiguration marks invalid configuration. Configuration errors
// are fatal at startup and never silently clamped.
var ErrConfiguration = errors.New("configuration error")

// Weights are the aggregate-score weights. Title dominates; author
// and year are secondary.
type Weights struct {
	Title   float64 `yaml:"title" json:"title"`
	Authors float64 `yaml:"authors" json:"authors"`
	Year    float64 `yaml:"year" json:"year"`
}

// Config holds the recognized verification options, stored in YAML.
type Config struct {
	// Classification thresholds on the [0,1] confidence score.
	VerifiedThreshold float64 `yaml:"verified_threshold" json:"verified_threshold"`
	PartialThreshold  float64 `yaml:"partial_threshold" json:"partial_threshold"`

	Weights Weights `yaml:"weights" json:"weights"`

	// SkipBookVerification bypasses book lookups entirely; book
	// references are marked for manual review unconditionally.
	SkipBookVerification bool `yaml:"skip_book_verification" json:"skip_book_verification"`
	// SkipWebsiteVerification marks website references as skipped
	// instead of flagging them for manual review.
	SkipWebsiteVerification bool `yaml:"skip_website_verification" json:"skip_website_verification"`
	// SkipCitationMatching disables the citation-reference cross pass.
	SkipCitationMatching bool `yaml:"skip_citation_matching" json:"skip_citation_matching"`

	// Per-adapter network behavior.
	AdapterTimeout time.Duration `yaml:"adapter_timeout" json:"adapter_timeout"`
	RetryCount     int           `yaml:"retry_count" json:"retry_count"`

	// Concurrency ceilings.
	MaxConcurrentRequests  int `yaml:"max_concurrent_requests" json:"max_concurrent_requests"`
	MaxConcurrentDocuments int `yaml:"max_concurrent_documents" json:"max_concurrent_documents"`

	// ContactEmail joins the polite pools of the public APIs.
	ContactEmail string `yaml:"contact_email,omitempty" json:"contact_email,omitempty"`
	// PubMedAPIKey raises the NCBI rate allowance when set.
	PubMedAPIKey string `yaml:"pubmed_api_key,omitempty" json:"pubmed_api_key,omitempty"`
	// CachePath enables the SQLite lookup cache when non-empty.
	CachePath string `yaml:"cache_path,omitempty" json:"cache_path,omitempty"`
}

// Default returns the default configuration. Thresholds and weights
// follow the original tool's tuning.
func Default() Config {
	return Config{
		VerifiedThreshold:      0.95,
		PartialThreshold:       0.70,
		Weights:                Weights{Title: 0.6, Authors: 0.25, Year: 0.15},
		AdapterTimeout:         10 * time.Second,
		RetryCount:             3,
		MaxConcurrentRequests:  8,
		MaxConcurrentDocuments: 2,
	}
}

// Load reads configuration from a YAML file, overlaying the defaults.
// A missing file yields the defaults, not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate rejects invalid option combinations.
func (c Config) Validate() error {
	if c.VerifiedThreshold <= c.PartialThreshold {
		return fmt.Errorf("%w: verified_threshold (%.2f) must exceed partial_threshold (%.2f)",
			ErrConfiguration, c.VerifiedThreshold, c.PartialThreshold)
	}
	if c.PartialThreshold < 0 {
		return fmt.Errorf("%w: partial_threshold must be non-negative, got %.2f",
			ErrConfiguration, c.PartialThreshold)
	}
	if c.VerifiedThreshold > 1 {
		return fmt.Errorf("%w: verified_threshold must not exceed 1, got %.2f",
			ErrConfiguration, c.VerifiedThreshold)
	}
	if c.Weights.Title < 0 || c.Weights.Authors < 0 || c.Weights.Year < 0 {
		return fmt.Errorf("%w: weights must be non-negative, got %+v", ErrConfiguration, c.Weights)
	}
	if c.Weights.Title+c.Weights.Authors+c.Weights.Year == 0 {
		return fmt.Errorf("%w: at least one weight must be positive", ErrConfiguration)
	}
	if c.MaxConcurrentRequests <= 0 {
		return fmt.Errorf("%w: max_concurrent_requests must be positive, got %d",
			ErrConfiguration, c.MaxConcurrentRequests)
	}
	if c.MaxConcurrentDocuments <= 0 {
		return fmt.Errorf("%w: max_concurrent_documents must be positive, got %d",
			ErrConfiguration, c.MaxConcurrentDocuments)
	}
	if c.RetryCount < 0 {
		return fmt.Errorf("%w: retry_count must be non-negative, got %d", ErrConfiguration, c.RetryCount)
	}
	if c.AdapterTimeout <= 0 {
		return fmt.Errorf("%w: adapter_timeout must be positive, got %s", ErrConfiguration, c.AdapterTimeout)
	}
	return nil
}
