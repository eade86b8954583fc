package gateway

import (
	"github.com/saiteja7065/AdaptiLearn-sub001/internal/config"
)

// AuthClass はルートの認証要件。
type AuthClass int

const (
	// AuthNone は認証不要のルート。
	AuthNone AuthClass = iota
	// AuthOptional は認証が任意のルート。トークンがあれば検証するが、
	// 無くても・無効でもリクエストをブロックしない。
	AuthOptional
	// AuthRequired は認証必須のルート。
	AuthRequired
)

// Route はパスプレフィックスから下流サービスへのマッピング。
// 起動時にルート表として読み込まれ、以降は不変。
type Route struct {
	// Name は下流サービスの表示名。エラーメッセージとログで使用する。
	Name string
	// Prefix はGateway側の受け付けるパスプレフィックス。
	Prefix string
	// Target は下流サービスのベースURL。
	Target string
	// Rewrite は転送時にPrefixを置き換えるサービス側のプレフィックス。
	Rewrite string
	// Auth は認証要件。
	Auth AuthClass
	// RequiredRole は要求するロール。空文字列の場合は認可ステージを置かない。
	// 設定する場合はAuthがAuthRequiredであること。
	RequiredRole string
	// RateLimited はSubjectごとのレート制限を適用するかどうか。
	RateLimited bool
}

// defaultRoutes は設定からGatewayのルート表を構築する。
func defaultRoutes(services config.ServiceConfig) []Route {
	return []Route{
		{
			Name:        "AIサービス",
			Prefix:      "/api/ai",
			Target:      services.AI,
			Rewrite:     "/api/ai",
			Auth:        AuthRequired,
			RateLimited: true,
		},
		{
			Name:        "データサービス",
			Prefix:      "/api/data",
			Target:      services.Data,
			Rewrite:     "/api/data",
			Auth:        AuthRequired,
			RateLimited: true,
		},
		{
			// 匿名アクセスを許可する公開コンテンツ。認証済みの場合は
			// 識別ヘッダーが付与され、下流側でパーソナライズできる
			Name:        "データサービス",
			Prefix:      "/api/public",
			Target:      services.Data,
			Rewrite:     "/api/data",
			Auth:        AuthOptional,
			RateLimited: true,
		},
		{
			Name:         "データサービス",
			Prefix:       "/api/admin",
			Target:       services.Data,
			Rewrite:      "/internal/admin",
			Auth:         AuthRequired,
			RequiredRole: "admin",
			RateLimited:  true,
		},
	}
}
