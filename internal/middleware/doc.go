// Package middleware はGatewayのリクエストパイプラインを構成するGinミドルウェアを提供する。
//
// パイプラインはルートのクラスに応じて 認証 → 認可 → レート制限 → ディスパッチ
// の順で構成され、いずれかのステージで失敗した時点で整形済みのJSONエラーを
// 返して処理を打ち切る。各ステージは内部エラーをapierrorに変換してから
// レスポンスに載せる。
package middleware
