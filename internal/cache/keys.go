package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func JobStatusKey(jobID uuid.UUID) string {
	return fmt.Sprintf("job:%s", jobID)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}

func PublicResultsKey(modelID uuid.UUID, limit int) string {
	return fmt.Sprintf("gallery:%s:%d", modelID, limit)
}
