package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix はRedisに保存するカウンタキーの接頭辞。
const keyPrefix = "ratelimit:subject:"

// RedisLimiter はRedisの原子的なINCRと有効期限でカウンタを管理するLimiter実装。
// 複数のGatewayインスタンスが同じRedisを参照することで、水平スケール時も
// インスタンス横断で単一の割り当てを強制できる。
type RedisLimiter struct {
	// client はRedisクライアント。
	client *redis.Client
	// now は現在時刻を返す関数。テストで差し替える。
	now func() time.Time
}

// NewRedisLimiter は新しいRedisレート制限ストアを生成する。
func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		now:    time.Now,
	}
}

// Admit はsubjectIDのカウンタをインクリメントし、許可判定を返す。
// カウンタの有効期限がウィンドウの役割を果たし、期限切れとともに
// Redis側でエントリが消えることでリセットされる。
func (l *RedisLimiter) Admit(ctx context.Context, subjectID string, limit int, window time.Duration) (Decision, error) {
	key := keyPrefix + subjectID

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("キー%sのインクリメントに失敗: %w", key, err)
	}

	// ウィンドウの最初のリクエストで有効期限を設定する
	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return Decision{}, fmt.Errorf("キー%sの有効期限設定に失敗: %w", key, err)
		}
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("キー%sのTTL取得に失敗: %w", key, err)
	}
	if ttl < 0 {
		// 有効期限が失われている場合は張り直す
		ttl = window
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return Decision{}, fmt.Errorf("キー%sの有効期限再設定に失敗: %w", key, err)
		}
	}

	current := int(count)
	d := Decision{
		Limit:   limit,
		Current: current,
		ResetAt: l.now().Add(ttl),
	}
	if current > limit {
		d.Allowed = false
		d.Remaining = 0
		return d, nil
	}

	d.Allowed = true
	d.Remaining = limit - current
	return d, nil
}
