//go:build windows

package config

import (
	"os"
	"path/filepath"
)

// GlobalIgnoreFilePath returns fdx's global ignore file location on
// Windows: %APPDATA%\fdx\ignore.
func GlobalIgnoreFilePath() string {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		return ""
	}
	return filepath.Join(appData, "fdx", "ignore")
}
