package identity

import (
	"context"
	"errors"
)

// トークン検証の失敗種別。呼び出し元の対処方法が異なるため区別する
// （リフレッシュ / 再ログイン / リトライ）。
var (
	// ErrExpired はトークンの有効期限切れを表す。
	ErrExpired = errors.New("トークンの有効期限が切れている")
	// ErrRevoked はトークンが明示的に失効させられたことを表す。
	ErrRevoked = errors.New("トークンは失効している")
	// ErrMalformed は署名やクレームが不正なトークンを表す。
	ErrMalformed = errors.New("トークンの形式が不正")
	// ErrProvider は認証プロバイダ側の障害を表す（分類不能なエラーの受け皿）。
	ErrProvider = errors.New("認証プロバイダとの通信に失敗")
)

// Provider は認証プロバイダへの狭いケーパビリティインターフェース。
// 具体的なプロバイダは差し替え可能であり、テストではフェイク実装を使用する。
type Provider interface {
	// VerifyToken はBearerトークンを検証し、Subjectに解決する。
	// 失敗時はErrExpired / ErrRevoked / ErrMalformed / ErrProviderの
	// いずれかをラップしたエラーを返す。
	VerifyToken(ctx context.Context, token string) (*Subject, error)

	// RoleClaim は指定ユーザーの権威的なロールクレームを照会する。
	// トークン発行後にロールが変更・剥奪される可能性があるため、
	// トークンに埋め込まれたロールではなくプロバイダの現在の記録を参照する。
	// ロールが設定されていない場合は空文字列を返す。
	RoleClaim(ctx context.Context, subjectID string) (string, error)
}
