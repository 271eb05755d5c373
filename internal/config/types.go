// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// ContainerEngineDocker emits "docker run" for container steps.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEnginePodman emits "podman run" for container steps.
	ContainerEnginePodman ContainerEngine = "podman"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
)

type (
	// ContainerEngine selects the binary emitted for container steps.
	ContainerEngine string

	// ColorScheme selects the terminal color scheme for styled output.
	ColorScheme string

	// Config is the application configuration.
	Config struct {
		// StoreDir overrides the saved-context directory.
		StoreDir string `mapstructure:"store_dir"`
		// Shell overrides the shell used to execute composed plans.
		Shell string `mapstructure:"shell"`
		// ContainerEngine is the binary emitted for container steps.
		ContainerEngine ContainerEngine `mapstructure:"container_engine"`
		// UI holds presentation settings.
		UI UIConfig `mapstructure:"ui"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		Verbose     bool        `mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ContainerEngine: ContainerEngineDocker,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// Validate checks enum-valued fields. CUE validates files against the schema,
// but programmatic mutation (config set) goes through here as well.
func (c *Config) Validate() error {
	switch c.ContainerEngine {
	case ContainerEngineDocker, ContainerEnginePodman:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidContainerEngine, c.ContainerEngine)
	}
	switch c.UI.ColorScheme {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidColorScheme, c.UI.ColorScheme)
	}
	return nil
}
