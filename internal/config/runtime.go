package config

import (
	"os"
	"path/filepath"
)

const defaultRuntimeDir = ".briefbot"

func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("BRIEF_RUNTIME_PATH"))
}

// resolveRuntimePath anchors relative runtime paths in the user's home directory.
func resolveRuntimePath(path string) string {
	if path == "" {
		path = defaultRuntimeDir
	}

	if !filepath.IsAbs(path) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path)
		}
	}
	return path
}
