package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// 環境名の定義。GATEWAY_ENVに設定する値。
const (
	// EnvDevelopment はローカル開発環境を表す。
	EnvDevelopment = "development"
	// EnvProduction は本番環境を表す。GATEWAY_ENV未設定時のデフォルト。
	EnvProduction = "production"
)

// Config はGatewayサービス全体の設定。起動時に一度だけ読み込み、以降は不変。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// Env は実行環境（development / production）。
	Env string
	// AuthBypass はAUTH_BYPASS環境変数の値。単独では意味を持たず、
	// DevBypassEnabledがEnvと合わせて判定する。
	AuthBypass bool
	// Auth は認証関連の設定。
	Auth AuthConfig
	// RateLimit はレート制限の設定。
	RateLimit RateLimitConfig
	// Services は下流サービスのURL設定。
	Services ServiceConfig
	// FrontendURL はCORSで許可するフロントエンドのオリジン。
	FrontendURL string
	// ProxyTimeout は下流サービスへのプロキシリクエストのタイムアウト。
	ProxyTimeout time.Duration
	// AuditDBPath は認証監査ログを保存するSQLiteデータベースのパス。
	AuditDBPath string
}

// AuthConfig は認証プロバイダとJWT検証の設定。
type AuthConfig struct {
	// JWTSecret はトークン署名検証用の共有秘密鍵。
	JWTSecret string
	// Issuer は許可するトークン発行者。
	Issuer string
	// Audience は許可するトークンの対象者。
	Audience string
	// ProviderURL は認証プロバイダAPIのベースURL。
	// 失効確認とロールクレームの照会に使用する。
	ProviderURL string
}

// RateLimitConfig はレート制限の設定。
type RateLimitConfig struct {
	// MaxRequests はウィンドウあたりのリクエスト上限。
	MaxRequests int
	// Window はレート制限のウィンドウ幅。
	Window time.Duration
	// Store はカウンタの保存先（"memory" または "redis"）。
	Store string
	// RedisAddr はStoreがredisの場合の接続先アドレス。
	RedisAddr string
	// RedisPassword はRedisの認証パスワード。
	RedisPassword string
	// RedisDB は使用するRedisのデータベース番号。
	RedisDB int
}

// ServiceConfig は下流サービスのベースURL。
type ServiceConfig struct {
	// AI はAIサービス（問題生成・コンテンツ解析）のURL。
	AI string
	// Data はデータサービス（外部問題取得・分析処理）のURL。
	Data string
}

// Load は環境変数からGateway設定を読み込む。
// .envファイルが存在する場合は先に読み込む（存在しなくてもエラーにしない）。
func Load() (*Config, error) {
	_ = godotenv.Load()

	maxRequests, err := getEnvInt("RATE_LIMIT_MAX", 50)
	if err != nil {
		return nil, err
	}
	windowMinutes, err := getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 15)
	if err != nil {
		return nil, err
	}
	if maxRequests <= 0 || windowMinutes <= 0 {
		return nil, fmt.Errorf("レート制限の設定値は正の整数が必要: max=%d, window=%d", maxRequests, windowMinutes)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	proxyTimeoutSec, err := getEnvInt("PROXY_TIMEOUT_SECONDS", 30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:       getEnvOr("PORT", "8080"),
		Env:        getEnvOr("GATEWAY_ENV", EnvProduction),
		AuthBypass: os.Getenv("AUTH_BYPASS") == "true",
		Auth: AuthConfig{
			JWTSecret:   os.Getenv("AUTH_JWT_SECRET"),
			Issuer:      getEnvOr("AUTH_JWT_ISSUER", "adaptilearn-auth"),
			Audience:    getEnvOr("AUTH_JWT_AUDIENCE", "adaptilearn"),
			ProviderURL: getEnvOr("AUTH_PROVIDER_URL", "http://localhost:9099"),
		},
		RateLimit: RateLimitConfig{
			MaxRequests:   maxRequests,
			Window:        time.Duration(windowMinutes) * time.Minute,
			Store:         getEnvOr("RATE_LIMIT_STORE", "memory"),
			RedisAddr:     getEnvOr("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
		},
		Services: ServiceConfig{
			AI:   getEnvOr("AI_SERVICE_URL", "http://localhost:8000"),
			Data: getEnvOr("DATA_SERVICE_URL", "http://localhost:8001"),
		},
		FrontendURL:  getEnvOr("FRONTEND_URL", "http://localhost:3000"),
		ProxyTimeout: time.Duration(proxyTimeoutSec) * time.Second,
		AuditDBPath:  getEnvOr("AUDIT_DB_PATH", "/data/gateway-audit.db"),
	}

	if cfg.RateLimit.Store != "memory" && cfg.RateLimit.Store != "redis" {
		return nil, fmt.Errorf("RATE_LIMIT_STOREの値が不正: %q (memory または redis を指定)", cfg.RateLimit.Store)
	}

	// バイパス無効時はトークン検証に秘密鍵が必須となる
	if !cfg.DevBypassEnabled() && cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRETが設定されていません")
	}

	return cfg, nil
}

// DevBypassEnabled は開発用認証バイパスが有効かどうかを返す。
// GATEWAY_ENV=development と AUTH_BYPASS=true の両方が揃った場合のみ真となる。
// 本番環境ではAUTH_BYPASSを設定しても無視される。
func (c *Config) DevBypassEnabled() bool {
	return c.Env == EnvDevelopment && c.AuthBypass
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// getEnvInt は整数型の環境変数を取得する。未設定の場合はデフォルト値を返す。
func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("環境変数%sの値が整数ではありません: %q", key, v)
	}
	return n, nil
}
