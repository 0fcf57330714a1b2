package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
)

// OutputModes lists the accepted values of the output setting.
var OutputModes = []string{"auto", "text", "markdown", "json", "csv", "html"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.RowsPerPage <= 0 {
		errs = append(errs, fmt.Errorf("rows_per_page must be positive, got %d", c.RowsPerPage))
	}
	if c.Profile == "" {
		errs = append(errs, errors.New("profile is required"))
	}
	if c.Output != "" && !slices.Contains(OutputModes, c.Output) {
		errs = append(errs, fmt.Errorf("unknown output %q (want one of %v)", c.Output, OutputModes))
	}

	if c.Source != nil {
		switch c.Source.Type {
		case SourceFile, "":
		case SourceHTTP:
			if c.Source.BaseURL == "" {
				errs = append(errs, errors.New("source.base_url is required for http sources"))
			} else if u, err := url.Parse(c.Source.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				errs = append(errs, fmt.Errorf("source.base_url %q must be an http(s) URL", c.Source.BaseURL))
			}
		default:
			errs = append(errs, fmt.Errorf("unknown source type %q (want file or http)", c.Source.Type))
		}
		if c.Source.Timeout < 0 {
			errs = append(errs, errors.New("source.timeout must not be negative"))
		}
	}

	if c.Server != nil && (c.Server.Port < 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	return errors.Join(errs...)
}

// ValidateDataFile checks that the dataset file exists when rows are read
// from it.
func (c *Config) ValidateDataFile() error {
	if c.SourceType() != SourceFile {
		return nil
	}
	if _, err := os.Stat(c.DataPath); os.IsNotExist(err) {
		return fmt.Errorf("dataset file does not exist: %s\nHint: Create the file or use --data to specify a different path", c.DataPath)
	}
	return nil
}

// SourceType returns the configured source type, file when unset.
func (c *Config) SourceType() string {
	if c.Source == nil || c.Source.Type == "" {
		return SourceFile
	}
	return c.Source.Type
}
