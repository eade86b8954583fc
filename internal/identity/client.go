package identity

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/saiteja7065/AdaptiLearn-sub001/pkg/httpclient"
)

// providerTimeout はプロバイダAPIへの照会タイムアウト。
const providerTimeout = 10 * time.Second

// Client は認証プロバイダと連携するProviderの標準実装。
// JWTの署名・発行者・対象者・有効期限はローカルで検証し、
// 失効確認とロールクレームはプロバイダのHTTP APIに照会する。
type Client struct {
	// secret はJWT署名検証用の共有秘密鍵。
	secret []byte
	// issuer は許可するトークン発行者。
	issuer string
	// audience は許可するトークンの対象者。
	audience string
	// provider は認証プロバイダAPIへのHTTPクライアント。
	provider *httpclient.Client
}

// NewClient は新しい認証プロバイダクライアントを生成する。
func NewClient(secret, issuer, audience, providerURL string) *Client {
	return &Client{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		provider: httpclient.New(providerURL, providerTimeout),
	}
}

// VerifyToken はBearerトークンを検証し、Subjectに解決する。
// 署名・発行者・対象者・有効期限のいずれかが不正な場合、および
// プロバイダがトークンの失効を報告した場合は失敗する。
func (c *Client) VerifyToken(ctx context.Context, token string) (*Subject, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if !parsed.Valid {
		return nil, ErrMalformed
	}

	subjectID, err := claims.GetSubject()
	if err != nil || subjectID == "" {
		return nil, fmt.Errorf("%w: subクレームがありません", ErrMalformed)
	}

	revoked, err := c.checkRevoked(ctx, stringClaim(claims, "jti"), subjectID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrRevoked
	}

	return &Subject{
		ID:            subjectID,
		Email:         stringClaim(claims, "email"),
		EmailVerified: boolClaim(claims, "email_verified"),
		DisplayName:   stringClaim(claims, "name"),
		Claims:        map[string]any(claims),
	}, nil
}

// checkRevoked はプロバイダにトークンの失効状態を照会する。
func (c *Client) checkRevoked(ctx context.Context, tokenID, subjectID string) (bool, error) {
	path := fmt.Sprintf("/v1/tokens/status?jti=%s&sub=%s",
		url.QueryEscape(tokenID), url.QueryEscape(subjectID))

	var body struct {
		Revoked bool `json:"revoked"`
	}
	ctx = httpclient.WithUserID(ctx, subjectID)
	if err := c.provider.GetJSON(ctx, path, &body); err != nil {
		return false, fmt.Errorf("%w: 失効状態の照会に失敗: %w", ErrProvider, err)
	}
	return body.Revoked, nil
}

// RoleClaim はプロバイダの現在のユーザー記録からロールクレームを取得する。
func (c *Client) RoleClaim(ctx context.Context, subjectID string) (string, error) {
	path := fmt.Sprintf("/v1/users/%s/claims", url.PathEscape(subjectID))

	var body struct {
		Claims map[string]any `json:"claims"`
	}
	ctx = httpclient.WithUserID(ctx, subjectID)
	if err := c.provider.GetJSON(ctx, path, &body); err != nil {
		return "", fmt.Errorf("%w: ロールクレームの取得に失敗: %w", ErrProvider, err)
	}

	role, _ := body.Claims["role"].(string)
	return role, nil
}

// stringClaim はクレームから文字列値を取得する。存在しない場合は空文字列を返す。
func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// boolClaim はクレームから真偽値を取得する。存在しない場合はfalseを返す。
func boolClaim(claims jwt.MapClaims, key string) bool {
	if v, ok := claims[key].(bool); ok {
		return v
	}
	return false
}
