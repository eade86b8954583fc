// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// パニックリカバリとCORS設定を含む。Gatewayの認証・認可・レート制限など
// ドメイン固有のミドルウェアはinternal/middlewareに置く。
package middleware
