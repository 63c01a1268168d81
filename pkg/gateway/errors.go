package gateway

import (
	"errors"
	"fmt"
)

// ErrTornDown is returned when an operation is attempted after the gateway
// (or its delegate registry) has been destroyed. Teardown is permanent;
// a destroyed instance never resurrects.
var ErrTornDown = errors.New("gateway has been destroyed")

// ErrNilDelegate is returned when a replacement operation is handed a nil
// delegate.
var ErrNilDelegate = errors.New("delegate must not be nil")

// ErrNotInitialized is returned by operations that need a captured
// configuration before the gateway has been initialized.
var ErrNotInitialized = errors.New("gateway not initialized")

// Bootstrap stages reported by BootstrapError.
const (
	StageResolve = "resolve"
	StageParse   = "parse"
	StageBuild   = "build"
	StageInit    = "init"
)

// BootstrapError reports a failed delegate bootstrap. It is fatal to the
// initialization attempt it occurred in and is propagated to the hosting
// container unchanged.
type BootstrapError struct {
	// Stage is the bootstrap step that failed: resolve, parse, build or init.
	Stage string

	// Location is the descriptor resource involved, if known.
	Location string

	Err error
}

func (e *BootstrapError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("gateway bootstrap: %s failed for %q: %v", e.Stage, e.Location, e.Err)
	}
	return fmt.Sprintf("gateway bootstrap: %s failed: %v", e.Stage, e.Err)
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}
