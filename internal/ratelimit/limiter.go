package ratelimit

import (
	"context"
	"time"
)

// Decision はレート制限の判定結果。
// 許可・拒否のどちらの場合も上限・残量・リセット時刻を持ち、
// クライアントが自律的にスロットリングできるようレスポンスヘッダーに載せる。
type Decision struct {
	// Allowed はリクエストが許可されたかどうか。
	Allowed bool
	// Limit はウィンドウあたりのリクエスト上限。
	Limit int
	// Remaining はウィンドウ内の残りリクエスト数。
	Remaining int
	// Current はウィンドウ内の累計リクエスト数（今回の分を含む）。
	Current int
	// ResetAt は現在のウィンドウがリセットされる時刻。
	ResetAt time.Time
}

// Limiter はSubjectごとのリクエスト許可判定を行うインターフェース。
// カウンタの読み取り・更新・上限比較は、同一Subjectに対して
// 原子的に行われることが実装の要件となる。
type Limiter interface {
	// Admit はsubjectIDのカウンタをインクリメントし、許可判定を返す。
	// インクリメント後のカウントがlimitを超えた場合は拒否となる。
	Admit(ctx context.Context, subjectID string, limit int, window time.Duration) (Decision, error)
}
