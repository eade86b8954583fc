package gateway

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saiteja7065/AdaptiLearn-sub001/internal/middleware"
	"github.com/saiteja7065/AdaptiLearn-sub001/pkg/apierror"
)

// 呼び出し元の識別情報を下流サービスに伝えるヘッダー。
// Gatewayの認証判断を下流が信頼するための信頼境界であり、下流サービスは
// これらのヘッダーをGatewayのネットワークからのみ受け付けること。
const (
	headerKeyUserID    = "X-User-ID"
	headerKeyUserEmail = "X-User-Email"
)

// hopHeaders はプロキシ時に転送しないホップバイホップヘッダー。
var hopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Dispatcher は許可されたリクエストを下流サービスに転送する。
// パスの書き換え・識別ヘッダーの付与・下流障害のGatewayエラーへの変換を行う。
type Dispatcher struct {
	// client は下流サービスへのHTTPクライアント。タイムアウトを持つ。
	client *http.Client
}

// NewDispatcher は新しいDispatcherを生成する。
// timeoutは下流サービスの応答を待つ上限時間。
func NewDispatcher(timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Handler は指定ルートへのプロキシハンドラを返す。
// ルートのPrefixを "/*path" 付きで登録した場合に使用する。
func (d *Dispatcher) Handler(route Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		proxyURL := route.Target + route.Rewrite + c.Param("path")
		if c.Request.URL.RawQuery != "" {
			proxyURL += "?" + c.Request.URL.RawQuery
		}
		d.forward(c, route, proxyURL)
	}
}

// forward はリクエストを下流サービスに転送する共通処理。
// 元のリクエストコンテキストを引き継ぐため、クライアントが切断した場合は
// 下流への呼び出しもキャンセルされる。
func (d *Dispatcher) forward(c *gin.Context, route Route, url string) {
	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, url, c.Request.Body)
	if err != nil {
		log.Printf("プロキシリクエストの作成に失敗: url=%s, error=%v", url, err)
		apierror.Write(c, apierror.Internal())
		return
	}

	// 元のリクエストヘッダーを転送（ホップバイホップは除く）
	copyHeaders(req.Header, c.Request.Header)

	// 認証済みの場合は呼び出し元の識別ヘッダーを付与する。
	// 下流サービスはこのヘッダーによりクレデンシャルを再検証せずに済む
	if subject := middleware.GetSubject(c); subject != nil {
		req.Header.Set(headerKeyUserID, subject.ID)
		req.Header.Set(headerKeyUserEmail, subject.Email)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		// 生の接続エラーはログにのみ残し、クライアントには安定した
		// エラーボディを返す
		switch {
		case errors.Is(err, context.Canceled):
			log.Printf("クライアント切断によりプロキシを中断: url=%s", url)
			c.Abort()
		case isTimeout(err):
			log.Printf("プロキシタイムアウト: url=%s, error=%v", url, err)
			apierror.Write(c, apierror.UpstreamTimeout(route.Name))
		default:
			log.Printf("プロキシエラー: url=%s, error=%v", url, err)
			apierror.Write(c, apierror.UpstreamUnavailable(route.Name))
		}
		return
	}
	defer resp.Body.Close()

	// 下流のレスポンスをステータス・ヘッダー・ボディそのまま返す
	copyHeaders(c.Writer.Header(), resp.Header)
	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		log.Printf("レスポンスの転送中にエラーが発生: url=%s, error=%v", url, err)
	}
}

// copyHeaders はホップバイホップヘッダーを除いてヘッダーをコピーする。
func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		for _, v := range values {
			dst.Add(key, v)
		}
	}
	for _, h := range hopHeaders {
		dst.Del(h)
	}
}

// isTimeout はエラーが下流応答のタイムアウトかどうかを判定する。
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
