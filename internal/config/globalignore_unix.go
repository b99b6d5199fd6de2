//go:build unix

package config

import (
	"os"
	"path/filepath"
)

// GlobalIgnoreFilePath returns the conventional location of fdx's global
// ignore file: $XDG_CONFIG_HOME/fdx/ignore, falling back to ~/.config/fdx/ignore.
func GlobalIgnoreFilePath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fdx", "ignore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fdx", "ignore")
}
