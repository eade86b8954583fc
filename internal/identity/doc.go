// Package identity は認証プロバイダと連携したトークン検証とロール照会を提供する。
//
// BearerトークンをSubject（認証済み呼び出し元）に解決するのが責務。
// JWTの署名・発行者・対象者・有効期限はローカルで検証し、失効確認と
// 権威的なロールクレームの照会は認証プロバイダへのHTTP呼び出しで行う。
// プロバイダは狭いProviderインターフェースの背後に隠蔽されており、
// テストではフェイク実装に差し替えられる。
package identity
