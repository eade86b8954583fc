package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// cleanupChance はAdmit呼び出しごとに期限切れエントリの掃除を行う確率。
// 専用のタイマーを持たずにメモリ使用量を抑えるための償却的な掃除であり、
// 完全にアイドルになったSubjectのエントリは次の掃除まで残り続ける。
const cleanupChance = 0.1

// entry はSubjectごとのウィンドウ状態。
type entry struct {
	// windowStart は現在のウィンドウの開始時刻。単調非減少。
	windowStart time.Time
	// count はウィンドウ開始以降のリクエスト数。
	count int
	// window はこのエントリ生成時のウィンドウ幅。掃除時の期限判定に使用する。
	window time.Duration
}

// MemoryLimiter はプロセス内のマップでカウンタを保持するLimiter実装。
// 状態はプロセスローカルのため、複数インスタンス構成では各インスタンスが
// 独立した割り当てを持つ点に注意（その場合はRedisLimiterを使用する）。
type MemoryLimiter struct {
	// mu はentriesへのアクセスを保護する。
	// Admitの読み取り・更新・比較を原子的な単位にするためのロック。
	mu sync.Mutex
	// entries はSubject ID をキーとするウィンドウ状態のマップ。
	entries map[string]*entry
	// now は現在時刻を返す関数。テストで差し替える。
	now func() time.Time
	// cleanupChance は掃除を行う確率。テストで差し替える。
	cleanupChance float64
}

// NewMemoryLimiter は新しいインメモリレート制限ストアを生成する。
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries:       make(map[string]*entry),
		now:           time.Now,
		cleanupChance: cleanupChance,
	}
}

// Admit はsubjectIDのカウンタをインクリメントし、許可判定を返す。
// ウィンドウが経過している場合はカウンタとウィンドウ開始時刻をリセットする。
func (l *MemoryLimiter) Admit(_ context.Context, subjectID string, limit int, window time.Duration) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	// 償却的な掃除。一定確率で期限切れエントリを削除する
	if rand.Float64() < l.cleanupChance {
		l.sweep(now)
	}

	e, ok := l.entries[subjectID]
	if !ok || now.Sub(e.windowStart) >= window {
		e = &entry{windowStart: now, window: window}
		l.entries[subjectID] = e
	}
	e.count++

	resetAt := e.windowStart.Add(window)
	if e.count > limit {
		return Decision{
			Allowed:   false,
			Limit:     limit,
			Remaining: 0,
			Current:   e.count,
			ResetAt:   resetAt,
		}, nil
	}

	return Decision{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - e.count,
		Current:   e.count,
		ResetAt:   resetAt,
	}, nil
}

// sweep は期限切れのエントリをすべて削除する。呼び出し元がロックを保持すること。
func (l *MemoryLimiter) sweep(now time.Time) {
	for id, e := range l.entries {
		if now.Sub(e.windowStart) >= e.window {
			delete(l.entries, id)
		}
	}
}
