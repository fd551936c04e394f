package types

// DefaultVersion is used when no version was stamped at build time
const DefaultVersion = "dev"

// AppContext is bound into every command's Run method
type AppContext struct {
	Version string
	// ConfigPaths lists the configuration files consulted, in order
	ConfigPaths []string
}
