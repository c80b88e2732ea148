package instance

import "os"

// GetID identifies this worker replica in logs. The cron lock already
// guarantees exclusivity; the id only has to be stable per process.
func GetID() string {
	if id := os.Getenv("STORELINK_WORKER_ID"); id != "" {
		return id
	}
	return "worker-0"
}
