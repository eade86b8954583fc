// Package apierror はGatewayが外部に返すエラーの分類と整形を提供する。
//
// 各パイプラインステージ（認証・認可・レート制限・プロキシ）は内部エラーを
// 本パッケージのErrorに変換してから呼び出し元に返す。内部の例外やSDKの
// エラー詳細をそのままクライアントに露出させないための境界となる。
package apierror
