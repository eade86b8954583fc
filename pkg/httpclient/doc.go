// Package httpclient はサービス間のHTTP通信を行うクライアントを提供する。
//
// Gatewayが認証プロバイダAPIに照会する際など、内部サービスのJSON APIを
// 呼び出す通信パターンを統一する。
package httpclient
