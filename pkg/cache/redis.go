package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sat-tum/kaiyo-api/pkg/config"
)

// NewRedis returns a configured Redis client.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// ProgressKey is the cache key for a student's evaluation against a milestone.
func ProgressKey(studentID, milestone string) string {
	return fmt.Sprintf("progress:%s:%s", studentID, milestone)
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

// ProgressPattern matches every cached evaluation of a student. Glob
// metacharacters in the ID are escaped so it only ever matches that student.
func ProgressPattern(studentID string) string {
	return fmt.Sprintf("progress:%s:*", globEscaper.Replace(studentID))
}
