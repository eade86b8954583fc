// Package gateway はAPI Gatewayサービスの内部実装を提供する。
//
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線として
// 機能する。受信リクエストはルート表に従って 認証 → 認可 → レート制限 →
// ディスパッチ のパイプラインを通過し、いずれかのステージで失敗した場合は
// その時点で整形済みのJSONエラーが返る。認証済みリクエストには呼び出し元の
// 識別ヘッダーを付与して内部サービスに転送する。
package gateway
