package configs

import "os"

// GetEnv returns the value of an environment variable, or defaultVal when
// it is unset.
func GetEnv(tag, defaultVal string) string {
	if val, ok := os.LookupEnv(tag); ok {
		return val
	}
	return defaultVal
}
