package app

import (
	"fmt"

	"splitpay/internal/config"
)

// Context carries the per-invocation application context: which partner
// environment the commands target and the binary identity.
type Context struct {
	Environment string
	BinaryName  string
}

// NewContext builds the application context for the given environment
// ("sandbox" or "production") and loads its env file.
func NewContext(binaryName, env string) (*Context, error) {
	if env != "sandbox" && env != "production" {
		return nil, fmt.Errorf("unknown environment %q", env)
	}

	if err := config.LoadConfig(env); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &Context{
		Environment: env,
		BinaryName:  binaryName,
	}, nil
}

// GetPrefix returns the display prefix for CLI output lines.
func (c *Context) GetPrefix() string {
	if c.IsSandbox() {
		return "[SBX] "
	}
	return "[PRD] "
}

// IsSandbox reports whether commands target the partner sandbox.
func (c *Context) IsSandbox() bool {
	return c.Environment == "sandbox"
}
