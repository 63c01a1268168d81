package gateway

import (
	"errors"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/marmos91/ingressd/internal/logger"
	"github.com/marmos91/ingressd/pkg/descriptor"
	"github.com/marmos91/ingressd/pkg/services"
)

const (
	// DescriptorLocationParam names the init parameter carrying the
	// descriptor resource location.
	DescriptorLocationParam = "descriptorLocation"

	// DefaultDescriptorLocation is the descriptor resource used when the
	// configuration names none and no fallback resolves.
	DefaultDescriptorLocation = "gateway.yaml"

	// internalResourcePrefix is the reserved subpath tried between the
	// explicit location and the default.
	internalResourcePrefix = "conf.d/"
)

// Loader parses a descriptor byte stream in the named format.
type Loader interface {
	Load(format string, r io.Reader) (*descriptor.Descriptor, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(format string, r io.Reader) (*descriptor.Descriptor, error)

func (f LoaderFunc) Load(format string, r io.Reader) (*descriptor.Descriptor, error) {
	return f(format, r)
}

// Factory builds a delegate from a parsed descriptor.
type Factory interface {
	Build(d *descriptor.Descriptor) (Delegate, error)
}

// Bootstrapper resolves, parses, and builds the gateway delegate, and wraps
// it with instrumentation when the container asks for it and supplies an
// Instrumenter in its services registry.
type Bootstrapper struct {
	loader  Loader
	factory Factory
}

// NewBootstrapper creates a bootstrapper over the given loader and factory.
func NewBootstrapper(loader Loader, factory Factory) *Bootstrapper {
	return &Bootstrapper{loader: loader, factory: factory}
}

// ResolveAndBuild resolves the descriptor named by location against the
// container's resources, parses it, and builds the delegate. Absence of a
// descriptor at every fallback location is not an error: the gateway then
// runs with no active delegate, and both return values are nil.
func (b *Bootstrapper) ResolveAndBuild(location string, ctn *Container) (Delegate, error) {
	stream, resolved, err := resolveDescriptor(location, ctn)
	if err != nil {
		return nil, &BootstrapError{Stage: StageResolve, Location: location, Err: err}
	}
	if stream == nil {
		logger.Warn("no gateway descriptor found, running without a delegate",
			logger.Descriptor(location))
		return nil, nil
	}
	defer stream.Close()

	desc, err := b.loader.Load(formatFor(resolved), stream)
	if err != nil {
		return nil, &BootstrapError{Stage: StageParse, Location: resolved, Err: err}
	}

	d, err := b.factory.Build(desc)
	if err != nil {
		return nil, &BootstrapError{Stage: StageBuild, Location: resolved, Err: err}
	}

	logger.Info("gateway delegate built",
		logger.Descriptor(resolved),
		logger.Delegate(desc.Name))

	return b.wrap(d, ctn), nil
}

// resolveDescriptor tries, in order: the explicit location, the same name
// under the internal resource prefix, and the fixed default. A nil stream
// with a nil error means no descriptor exists anywhere on the search path.
func resolveDescriptor(location string, ctn *Container) (io.ReadCloser, string, error) {
	var candidates []string
	if location != "" {
		candidates = append(candidates,
			location,
			internalResourcePrefix+strings.TrimPrefix(location, "/"))
	}
	candidates = append(candidates, DefaultDescriptorLocation)

	for _, name := range candidates {
		stream, err := ctn.OpenResource(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, name, err
		}
		return stream, name, nil
	}
	return nil, "", nil
}

// formatFor maps a resource name to a loader format tag by extension.
func formatFor(name string) string {
	if path.Ext(name) == ".json" {
		return descriptor.FormatJSON
	}
	return descriptor.FormatYAML
}

// wrap applies the container's instrumentation capability when metrics are
// enabled. A missing, mistyped, or declining instrumenter never fails the
// bootstrap; the raw delegate is used instead.
func (b *Bootstrapper) wrap(d Delegate, ctn *Container) Delegate {
	if d == nil || !ctn.MetricsEnabled() {
		return d
	}

	svcs := ctn.Services()
	if svcs == nil {
		return d
	}

	svc := svcs.Get(services.MetricsKey)
	if svc == nil {
		logger.Warn("metrics enabled but no metrics service registered")
		return d
	}

	inst, ok := svc.(Instrumenter)
	if !ok {
		logger.Warn("registered metrics service does not instrument delegates")
		return d
	}

	if wrapped := inst.Wrap(d); wrapped != nil {
		return wrapped
	}
	return d
}
