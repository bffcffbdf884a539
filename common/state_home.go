package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetStudioStateHome returns a directory path for storing user-specific
// studio state data (logs, traces, etc). If needed, it also creates the
// necessary directories for storing state data according to the XDG spec.
// Can be overridden by setting the STUDIO_STATE_HOME environment variable.
func GetStudioStateHome() (string, error) {
	studioStateDir := os.Getenv("STUDIO_STATE_HOME")
	if studioStateDir != "" {
		err := os.MkdirAll(studioStateDir, 0755)
		if err != nil {
			return "", fmt.Errorf("failed to create studio state directory from STUDIO_STATE_HOME: %w", err)
		}
		return studioStateDir, nil
	}

	studioStateDir = filepath.Join(xdg.StateHome, "codestudio")
	err := os.MkdirAll(studioStateDir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create studio state directory: %w", err)
	}
	return studioStateDir, nil
}
