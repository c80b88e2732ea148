package env

import "os"

// Get returns the environment variable value, falling back when unset or
// empty. Platform-injected names like PORT sit outside the STORELINK_
// config prefix handled by envconfig.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
