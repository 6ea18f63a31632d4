package config

import (
	"os"
	"strconv"
)

// IsDebug reads BRIEF_DEBUG before any config struct is parsed, so the logger can be set up first.
func IsDebug() bool {
	on, err := strconv.ParseBool(os.Getenv("BRIEF_DEBUG"))
	return err == nil && on
}
