package helper

import "os"

// GetEnv reads an environment variable, falling back to the optional default
// when it is unset or empty.
func GetEnv(key string, defaultValue ...string) string {
	value := os.Getenv(key)
	if value == "" && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
