package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"glossa/models"
)

// Global context for Redis operations
var ctx = context.Background()

// Cache stores per-row formatted results and per-job aggregated statistics
// in Redis.
type Cache struct {
	client *redis.Client
}

const DefaultTTL = 1 * time.Hour

var (
	instance *Cache
	once     sync.Once
)

// GetInstance returns the shared Redis-backed cache, connecting on first use.
func GetInstance() (*Cache, error) {
	var err error

	// sync.Once guarantees that the connection logic is executed EXACTLY once
	once.Do(func() {
		// Redis configuration (modify address and password if necessary)
		dbStr := os.Getenv("REDIS_DB")
		db := 0
		if dbStr != "" {
			db, _ = strconv.Atoi(dbStr)
		}

		rdb := redis.NewClient(&redis.Options{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       db,
		})

		// Verify connection
		if _, pingErr := rdb.Ping(ctx).Result(); pingErr != nil {
			err = pingErr
			return
		}

		instance = &Cache{client: rdb}
	})

	return instance, err
}

// CloseCache closes the connection to the Redis server
func (c *Cache) CloseCache() error {
	if c != nil && c.client != nil {
		return c.client.Close()
	}
	return nil
}

// ReadFromCache retrieves the formatted result of a specific row
func (c *Cache) ReadFromCache(primaryKey string, rowKey int) (*models.ResponseStatus, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}

	key := fmt.Sprintf("%s:%d", primaryKey, rowKey)

	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("key not found")
	} else if err != nil {
		return nil, err
	}

	var status models.ResponseStatus
	if err := json.Unmarshal(val, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

// WriteToCache stores a row result and folds it into the job statistics.
func (c *Cache) WriteToCache(status models.ResponseStatus) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	now := time.Now()
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s:%d", status.PrimaryKey, status.RowKey)

	// 1. Write the main data
	err = c.client.Set(ctx, key, data, DefaultTTL).Err()
	if err != nil {
		return err
	}

	// 2. Update the aggregated statistics
	return c.UpdateStats(status.PrimaryKey, status.Status, now)
}

// UpdateStats updates per-status counts, min and max insertion times in a
// Redis Hash.
func (c *Cache) UpdateStats(primaryKey, status string, insertionTime time.Time) error {
	statsKey := fmt.Sprintf("stats:%s", primaryKey)

	// Convert time to string for storage
	newTimeStr := insertionTime.Format(time.RFC3339Nano)

	// Increment total and per-status counts
	if err := c.client.HIncrBy(ctx, statsKey, "count", 1).Err(); err != nil {
		return err
	}
	if status != "" {
		if err := c.client.HIncrBy(ctx, statsKey, "count_"+status, 1).Err(); err != nil {
			return err
		}
	}

	// Handle Min/Max logic: fetch current values and update if necessary
	res, err := c.client.HMGet(ctx, statsKey, "min_time", "max_time").Result()
	if err != nil {
		return err
	}

	// Logic to update Min
	if res[0] == nil {
		c.client.HSet(ctx, statsKey, "min_time", newTimeStr)
	} else {
		currentMin, _ := time.Parse(time.RFC3339Nano, res[0].(string))
		if insertionTime.Before(currentMin) {
			c.client.HSet(ctx, statsKey, "min_time", newTimeStr)
		}
	}

	// Logic to update Max
	if res[1] == nil {
		c.client.HSet(ctx, statsKey, "max_time", newTimeStr)
	} else {
		currentMax, _ := time.Parse(time.RFC3339Nano, res[1].(string))
		if insertionTime.After(currentMax) {
			c.client.HSet(ctx, statsKey, "max_time", newTimeStr)
		}
	}

	// Keep the stats alive for the same duration as the data
	return c.client.Expire(ctx, statsKey, DefaultTTL).Err()
}

// Listen waits for row results on the channel and writes them to Redis. With
// no Redis connection it drains the channel so the consumer pool never
// blocks.
func (c *Cache) Listen(statusQ <-chan models.ResponseStatus) {
	for status := range statusQ {
		if err := c.WriteToCache(status); err != nil {
			log.Printf("Error writing to Redis: %v", err)
		}
	}
}

// GetRows retrieves all formatted row results for a given job.
func (c *Cache) GetRows(primaryKey string) ([]models.ResponseStatus, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}

	var results []models.ResponseStatus
	prefix := primaryKey + ":*"

	// Use Scan instead of Keys to avoid blocking the Redis server on large databases
	iter := c.client.Scan(ctx, 0, prefix, 0).Iterator()

	for iter.Next(ctx) {
		key := iter.Val()
		val, err := c.client.Get(ctx, key).Bytes()
		if err != nil {
			log.Printf("Error getting value for key %s: %v", key, err)
			continue
		}

		var status models.ResponseStatus
		if err := json.Unmarshal(val, &status); err != nil {
			log.Printf("Error decoding value for key %s: %v", key, err)
			continue
		}
		results = append(results, status)
	}

	if err := iter.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// RealTimeStats aggregates a job's progress: row counts and the exact
// insertion times of the first and last results.
type RealTimeStats struct {
	Count      int
	Successful int
	Failed     int
	MinTime    time.Time
	MaxTime    time.Time
}

// GetStats reads the aggregated statistics for a job.
func (c *Cache) GetStats(primaryKey string) (*RealTimeStats, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}

	statsKey := fmt.Sprintf("stats:%s", primaryKey)

	data, err := c.client.HGetAll(ctx, statsKey).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no stats found")
	}

	count, _ := strconv.Atoi(data["count"])
	successful, _ := strconv.Atoi(data["count_success"])
	failed, _ := strconv.Atoi(data["count_failed"])
	minTime, _ := time.Parse(time.RFC3339Nano, data["min_time"])
	maxTime, _ := time.Parse(time.RFC3339Nano, data["max_time"])

	return &RealTimeStats{
		Count:      count,
		Successful: successful,
		Failed:     failed,
		MinTime:    minTime,
		MaxTime:    maxTime,
	}, nil
}
