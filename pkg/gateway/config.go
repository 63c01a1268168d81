package gateway

// ComponentConfig is the configuration surface the standalone-component
// lifecycle contract hands to the gateway, and the shape delegates are
// initialized with.
type ComponentConfig interface {
	// ComponentName returns the name the container registered the
	// component under.
	ComponentName() string

	// InitParam returns the named initialization parameter, or "" if the
	// parameter is not set.
	InitParam(name string) string

	// InitParamNames returns the names of all set parameters.
	// The returned slice is a copy and safe to modify.
	InitParamNames() []string

	// Container returns the enclosing container context.
	Container() *Container
}

// ChainConfig is the configuration surface the chain-participant lifecycle
// contract hands to the gateway. It carries the same capability set as
// ComponentConfig under the chain contract's naming.
type ChainConfig interface {
	LinkName() string
	InitParam(name string) string
	InitParamNames() []string
	Container() *Container
}

// BridgeChainConfig adapts a chain-participant configuration to the
// standalone-component surface, so a single delegate initialization routine
// works under either lifecycle contract. The bridge holds no state beyond
// the wrapped reference and forwards every call unchanged.
func BridgeChainConfig(cc ChainConfig) ComponentConfig {
	if cc == nil {
		return nil
	}
	return &chainConfigBridge{cc: cc}
}

type chainConfigBridge struct {
	cc ChainConfig
}

func (b *chainConfigBridge) ComponentName() string        { return b.cc.LinkName() }
func (b *chainConfigBridge) InitParam(name string) string { return b.cc.InitParam(name) }
func (b *chainConfigBridge) InitParamNames() []string     { return b.cc.InitParamNames() }
func (b *chainConfigBridge) Container() *Container        { return b.cc.Container() }

// StaticConfig is a map-backed configuration satisfying both lifecycle
// config surfaces. The daemon uses it to drive the gateway outside a
// hosting container; tests use it as a stand-in for container-provided
// configuration.
type StaticConfig struct {
	Name   string
	Params map[string]string
	Ctn    *Container
}

// NewStaticConfig creates a StaticConfig. Params may be nil.
func NewStaticConfig(name string, params map[string]string, ctn *Container) *StaticConfig {
	return &StaticConfig{Name: name, Params: params, Ctn: ctn}
}

func (c *StaticConfig) ComponentName() string { return c.Name }
func (c *StaticConfig) LinkName() string      { return c.Name }

func (c *StaticConfig) InitParam(name string) string {
	return c.Params[name]
}

func (c *StaticConfig) InitParamNames() []string {
	names := make([]string, 0, len(c.Params))
	for name := range c.Params {
		names = append(names, name)
	}
	return names
}

func (c *StaticConfig) Container() *Container { return c.Ctn }
