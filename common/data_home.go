package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetStudioDataHome returns a directory path for storing user-specific studio
// data (the sqlite database, among others). If needed, it also creates the
// necessary directories according to the XDG spec. Can be overridden by
// setting the STUDIO_DATA_HOME environment variable.
func GetStudioDataHome() (string, error) {
	studioDataDir := os.Getenv("STUDIO_DATA_HOME")
	if studioDataDir != "" {
		return studioDataDir, nil
	}

	studioDataDir = filepath.Join(xdg.DataHome, "codestudio")
	err := os.MkdirAll(studioDataDir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create studio data directory: %w", err)
	}
	return studioDataDir, nil
}
