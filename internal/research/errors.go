// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"errors"

	"github.com/pdiddy/research-tools/pkg/types"
)

// ConfigurationError reports that a required setting, usually the search
// provider credential, is missing.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Err.Error() }
func (e *ConfigurationError) Unwrap() error { return e.Err }

// UpstreamError reports a search provider failure: transport error,
// non-success status or an unparsable response.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return "search provider error: " + e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

// FetchError reports a content fetch failure.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return "fetching " + e.URL + ": " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// ToErrorResult converts err into the structured value returned to the
// calling model. summary is the short user-facing message.
func ToErrorResult(summary string, err error) types.ErrorResult {
	details := "Unknown error"
	if err != nil {
		details = err.Error()
	}
	return types.ErrorResult{
		Error:   summary,
		Status:  types.StatusError,
		Details: details,
	}
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
