package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleDocs はAPIドキュメントを返すハンドラを返す。認証不要。
func (s *Server) handleDocs() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"title":       "AdaptiLearn API Gateway",
			"version":     "1.0.0",
			"description": "AdaptiLearnマイクロサービスへのGateway",
			"endpoints": gin.H{
				"health": gin.H{
					"GET /health": "サービスのヘルスチェック",
				},
				"ai": gin.H{
					"POST /api/ai/generate-questions": "コンテンツから問題を生成",
					"POST /api/ai/analyze-content":    "コンテンツを解析しトピックを抽出",
					"POST /api/ai/chat-tutor":         "AIチューターチャット",
					"POST /api/ai/process-pdf":        "PDFファイルの処理",
				},
				"data": gin.H{
					"GET /api/data/external-questions": "外部APIからの問題取得",
					"POST /api/data/analytics":         "分析処理",
					"GET /api/data/subjects":           "科目データの取得",
					"POST /api/data/syllabus":          "シラバスデータの処理",
				},
				"public": gin.H{
					"GET /api/public/subjects": "科目データの取得（認証任意）",
				},
				"admin": gin.H{
					"ANY /api/admin/*": "管理者向け操作（ロールadminが必要）",
				},
			},
			"authentication": "AuthorizationヘッダーにBearerトークンが必要",
			"rateLimit":      "認証済みユーザーごとにウィンドウあたりの上限あり（X-RateLimit-*ヘッダー参照）",
		})
	}
}
