// Package descriptor defines the declarative gateway descriptor: a named set
// of resource patterns, each carrying an ordered filter chain, from which the
// active delegate handler is constructed.
package descriptor

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Descriptor describes how to assemble the gateway's delegate handler.
//
// A descriptor is loaded from an external resource (YAML or JSON) and handed
// to a delegate factory. It carries no behavior of its own.
type Descriptor struct {
	// Name identifies the delegate built from this descriptor. Used in
	// logs and the status API.
	Name string `json:"name" yaml:"name" validate:"required"`

	// Resources maps request patterns to filter chains. At least one
	// resource must be declared.
	Resources []Resource `json:"resources" yaml:"resources" validate:"required,min=1,dive"`
}

// Resource binds a request pattern to an ordered chain of filters.
type Resource struct {
	// Pattern is the request path pattern. A trailing "/*" matches any
	// suffix; otherwise the pattern matches exactly.
	Pattern string `json:"pattern" yaml:"pattern" validate:"required"`

	// Filters is the ordered chain applied to requests matching Pattern.
	Filters []Filter `json:"filters" yaml:"filters" validate:"dive"`
}

// Filter names one element of a resource's chain together with its
// configuration parameters.
type Filter struct {
	// Name selects the filter implementation from the filter registry.
	Name string `json:"name" yaml:"name" validate:"required"`

	// Role is an optional label describing the filter's purpose
	// (e.g. "authentication", "authorization"). Informational only.
	Role string `json:"role,omitempty" yaml:"role,omitempty"`

	// Params holds filter-specific configuration.
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
}

var validate = validator.New()

// Validate checks structural constraints on the descriptor.
func (d *Descriptor) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid descriptor: %w", err)
	}
	return nil
}
