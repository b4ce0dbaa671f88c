package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// OccupancyCache はイベントごとの空席数キャッシュを管理する
type OccupancyCache struct {
	client *redis.Client
}

// NewOccupancyCache は新しいOccupancyCacheインスタンスを作成する
func NewOccupancyCache(client *redis.Client) *OccupancyCache {
	return &OccupancyCache{client: client}
}

// GetAvailableCount はイベントの空席数をキャッシュから取得する
func (c *OccupancyCache) GetAvailableCount(ctx context.Context, eventID string) (int, error) {
	val, err := c.client.Get(ctx, c.availableCountKey(eventID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrCacheMiss
		}
		return 0, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetAvailableCount はイベントの空席数をキャッシュに保存する
func (c *OccupancyCache) SetAvailableCount(ctx context.Context, eventID string, count int, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.availableCountKey(eventID), count, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はイベントのキャッシュを無効化する
func (c *OccupancyCache) Invalidate(ctx context.Context, eventID string) error {
	if err := c.client.Del(ctx, c.availableCountKey(eventID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *OccupancyCache) availableCountKey(eventID string) string {
	return fmt.Sprintf("seats:available:%s", eventID)
}
