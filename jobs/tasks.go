package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCacheBump invalidates the cached lists of one grid resource.
	TaskCacheBump = "grid:cache:bump"
	// TaskCacheWarm pre-populates the first pages of one grid resource.
	TaskCacheWarm = "grid:cache:warm"
)

// DefaultWarmPages is the number of pages warmed when a payload omits it.
const DefaultWarmPages = 3

// CacheBumpPayload names the resource to invalidate.
type CacheBumpPayload struct {
	Resource string `json:"resource"`
}

// CacheWarmPayload names the resource and page count to warm.
type CacheWarmPayload struct {
	Resource string `json:"resource"`
	Pages    int    `json:"pages"`
}

// NewCacheBumpTask constructs a bump task.
func NewCacheBumpTask(resource string) (*asynq.Task, error) {
	if resource == "" {
		return nil, fmt.Errorf("jobs: cache bump: resource required")
	}
	body, err := json.Marshal(CacheBumpPayload{Resource: resource})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCacheBump, body, asynq.Queue(QueueDefault)), nil
}

// NewCacheWarmTask constructs a warm task.
func NewCacheWarmTask(resource string, pages int) (*asynq.Task, error) {
	if resource == "" {
		return nil, fmt.Errorf("jobs: cache warm: resource required")
	}
	if pages <= 0 {
		pages = DefaultWarmPages
	}
	body, err := json.Marshal(CacheWarmPayload{Resource: resource, Pages: pages})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCacheWarm, body, asynq.Queue(QueueDefault)), nil
}
