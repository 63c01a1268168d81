package descriptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Supported descriptor formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned by Load for a format tag it does not support.
var ErrUnknownFormat = errors.New("unknown descriptor format")

// ParseError reports a malformed descriptor stream. It wraps the underlying
// decoder or validation error.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s descriptor: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load parses a descriptor from the given stream. The format tag selects the
// decoder ("yaml" or "json"). The stream is read to completion but not
// closed; closing is the caller's responsibility.
//
// Malformed input and descriptors failing validation return a *ParseError.
func Load(format string, r io.Reader) (*Descriptor, error) {
	var d Descriptor

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return nil, &ParseError{Format: format, Err: err}
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, &ParseError{Format: format, Err: err}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err := d.Validate(); err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}

	return &d, nil
}
