package apierror

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error はクライアントに返すGatewayレベルのエラー。
// HTTPステータス・機械可読コード・人間可読メッセージを持ち、
// 内部のスタックトレースや下流エラーの詳細は含めない。
type Error struct {
	// Status はHTTPステータスコード。
	Status int `json:"-"`
	// Category はエラーの大分類（レスポンスの "error" フィールド）。
	Category string `json:"error"`
	// Code は機械可読なエラーコード。
	Code string `json:"code,omitempty"`
	// Message は人間可読なエラーメッセージ。
	Message string `json:"message"`
	// Extra はエラー種別ごとの追加フィールド（retryAfter, userRole等）。
	Extra map[string]any `json:"-"`
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	return e.Category + ": " + e.Message
}

// MissingAuthHeader はAuthorizationヘッダーが存在しない場合のエラーを返す。
func MissingAuthHeader() *Error {
	return &Error{
		Status:   http.StatusUnauthorized,
		Category: "Unauthorized",
		Code:     "AUTH_HEADER_REQUIRED",
		Message:  "Authorizationヘッダー（Bearerトークン）が必要です",
	}
}

// InvalidAuthHeader はAuthorizationヘッダーがBearer形式でない場合のエラーを返す。
func InvalidAuthHeader() *Error {
	return &Error{
		Status:   http.StatusUnauthorized,
		Category: "Unauthorized",
		Code:     "INVALID_AUTH_HEADER",
		Message:  "Authorizationヘッダーの形式が不正です（Bearer <token> 形式が必要）",
	}
}

// TokenExpired はトークンの有効期限切れエラーを返す。
// クライアントはトークンをリフレッシュして再試行できる。
func TokenExpired() *Error {
	return &Error{
		Status:   http.StatusUnauthorized,
		Category: "Token Expired",
		Code:     "TOKEN_EXPIRED",
		Message:  "トークンの有効期限が切れています。再ログインしてトークンを更新してください",
	}
}

// TokenRevoked は失効済みトークンのエラーを返す。
// クライアントは再認証が必要となる。
func TokenRevoked() *Error {
	return &Error{
		Status:   http.StatusUnauthorized,
		Category: "Token Revoked",
		Code:     "TOKEN_REVOKED",
		Message:  "トークンは失効しています。再度ログインしてください",
	}
}

// InvalidToken は署名やクレームが不正なトークンのエラーを返す。
func InvalidToken() *Error {
	return &Error{
		Status:   http.StatusUnauthorized,
		Category: "Invalid Token",
		Code:     "INVALID_TOKEN",
		Message:  "トークンが不正または破損しています",
	}
}

// AuthError は認証基盤側の障害など分類できない認証エラーを返す。
func AuthError() *Error {
	return &Error{
		Status:   http.StatusUnauthorized,
		Category: "Authentication Error",
		Code:     "AUTH_ERROR",
		Message:  "トークンの検証に失敗しました",
	}
}

// AuthRequired は認証済みSubjectが存在しないまま認可ステージに到達した
// 場合のエラーを返す。
func AuthRequired() *Error {
	return &Error{
		Status:   http.StatusUnauthorized,
		Category: "Unauthorized",
		Code:     "AUTH_REQUIRED",
		Message:  "この操作には認証が必要です",
	}
}

// Forbidden はロール不一致による認可エラーを返す。
// actualRoleには呼び出し元が実際に持つロールを設定する（診断用）。
func Forbidden(requiredRole, actualRole string) *Error {
	return &Error{
		Status:   http.StatusForbidden,
		Category: "Forbidden",
		Code:     "ROLE_REQUIRED",
		Message:  "この操作にはロール '" + requiredRole + "' が必要です",
		Extra:    map[string]any{"userRole": actualRole},
	}
}

// AuthzError はロール照会時の認可基盤側の障害エラーを返す。
func AuthzError() *Error {
	return &Error{
		Status:   http.StatusInternalServerError,
		Category: "Authorization Error",
		Code:     "AUTHZ_ERROR",
		Message:  "ユーザーロールの確認に失敗しました",
	}
}

// RateLimitExceeded はレート制限超過エラーを返す。
// resetAtはウィンドウのリセット時刻（RFC3339）、currentとlimitは現在値と上限。
func RateLimitExceeded(resetAt string, current, limit int) *Error {
	return &Error{
		Status:   http.StatusTooManyRequests,
		Category: "Rate Limit Exceeded",
		Code:     "RATE_LIMIT_EXCEEDED",
		Message:  "リクエスト数が上限を超えました。しばらく待ってから再試行してください",
		Extra: map[string]any{
			"retryAfter": resetAt,
			"current":    current,
			"limit":      limit,
		},
	}
}

// UpstreamUnavailable は下流サービスに接続できない場合のエラーを返す。
// 生の接続エラーはログにのみ残し、クライアントには安定したボディを返す。
func UpstreamUnavailable(service string) *Error {
	return &Error{
		Status:   http.StatusServiceUnavailable,
		Category: "Service Unavailable",
		Code:     "UPSTREAM_UNAVAILABLE",
		Message:  service + "は一時的に利用できません。しばらく待ってから再試行してください",
	}
}

// UpstreamTimeout は下流サービスの応答がタイムアウトした場合のエラーを返す。
func UpstreamTimeout(service string) *Error {
	return &Error{
		Status:   http.StatusGatewayTimeout,
		Category: "Gateway Timeout",
		Code:     "UPSTREAM_TIMEOUT",
		Message:  service + "の応答がタイムアウトしました。しばらく待ってから再試行してください",
	}
}

// NotFound はルート表に一致しないパスへのエラーを返す。
func NotFound(method, path string) *Error {
	return &Error{
		Status:   http.StatusNotFound,
		Category: "Endpoint Not Found",
		Code:     "NOT_FOUND",
		Message:  "エンドポイント " + method + " " + path + " は存在しません",
	}
}

// Internal は予期しない内部エラーを返す。パニックリカバリ等で使用する。
func Internal() *Error {
	return &Error{
		Status:   http.StatusInternalServerError,
		Category: "Internal Server Error",
		Code:     "INTERNAL_ERROR",
		Message:  "内部サーバーエラーが発生しました",
	}
}

// Write はエラーをJSONレスポンスとして書き出し、以降のハンドラを中断する。
func Write(c *gin.Context, e *Error) {
	body := gin.H{
		"error":   e.Category,
		"message": e.Message,
	}
	if e.Code != "" {
		body["code"] = e.Code
	}
	for k, v := range e.Extra {
		body[k] = v
	}
	c.AbortWithStatusJSON(e.Status, body)
}
