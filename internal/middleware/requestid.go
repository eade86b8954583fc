package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// headerKeyRequestID はリクエストIDを伝播するHTTPヘッダーキー。
const headerKeyRequestID = "X-Request-ID"

// RequestID はリクエストIDを発行・伝播するミドルウェアを返す。
// クライアントがX-Request-IDヘッダーを送信した場合はその値を引き継ぎ、
// 無い場合は新しいUUIDを発行する。IDはレスポンスヘッダーにも設定され、
// 下流サービスへのプロキシ時にもそのまま転送される。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerKeyRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(headerKeyRequestID, id)
		c.Request.Header.Set(headerKeyRequestID, id)
		c.Next()
	}
}
