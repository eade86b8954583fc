package middleware

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/saiteja7065/AdaptiLearn-sub001/pkg/apierror"
)

// Recovery はパニックからの回復を行うGinミドルウェアを返す。
// パニック発生時に内容をログに出力し、安定したJSONボディの500エラーを返す。
// パニックの値はクライアントには返さない。
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[PANIC] %s %s: %v", c.Request.Method, c.Request.URL.Path, r)
				apierror.Write(c, apierror.Internal())
			}
		}()
		c.Next()
	}
}
