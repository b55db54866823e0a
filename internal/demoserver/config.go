package demoserver

// Config holds configuration for the demo portfolio.
type Config struct {
	// Port is the port the demo portfolio listens on.
	Port int

	// InitialVersion is the version every page starts at: VersionDefective
	// or VersionRemediated.
	InitialVersion int
}

// DefaultConfig serves the defective pages on port 9999.
func DefaultConfig() Config {
	return Config{
		Port:           9999,
		InitialVersion: VersionDefective,
	}
}
