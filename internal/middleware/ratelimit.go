package middleware

import (
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saiteja7065/AdaptiLearn-sub001/internal/ratelimit"
	"github.com/saiteja7065/AdaptiLearn-sub001/pkg/apierror"
)

// レート制限情報をクライアントに伝えるレスポンスヘッダー。
const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRateLimitReset     = "X-RateLimit-Reset"
)

// RateLimit は認証済みSubjectごとのレート制限ミドルウェアを返す。
// 認証ステージの後段に配置すること。匿名リクエストは対象外として素通しする
// （認証済みユーザーの割り当てを守るための制限であり、匿名トラフィックは
// 別系統の粗いIP制限が受け持つ）。
func RateLimit(limiter ratelimit.Limiter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := GetSubject(c)
		if subject == nil {
			c.Next()
			return
		}

		d, err := limiter.Admit(c.Request.Context(), subject.ID, limit, window)
		if err != nil {
			// ストア障害でリクエストを落とさない（フェイルオープン）
			log.Printf("レート制限ストアへのアクセスに失敗: subject=%s, error=%v", subject.ID, err)
			c.Next()
			return
		}

		// 許可・拒否のどちらでも現在の割り当て状況をヘッダーで返す
		c.Header(headerRateLimitLimit, strconv.Itoa(d.Limit))
		c.Header(headerRateLimitRemaining, strconv.Itoa(d.Remaining))
		c.Header(headerRateLimitReset, d.ResetAt.Format(time.RFC3339))

		if !d.Allowed {
			log.Printf("レート制限超過: subject=%s, current=%d, limit=%d", subject.ID, d.Current, d.Limit)
			apierror.Write(c, apierror.RateLimitExceeded(d.ResetAt.Format(time.RFC3339), d.Current, d.Limit))
			return
		}

		c.Next()
	}
}
