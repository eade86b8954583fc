// Package ratelimit は認証済みユーザーごとの固定ウィンドウレート制限を提供する。
//
// カウンタの保存先はLimiterインターフェースの背後に隠蔽されており、
// 単一インスタンス構成ではインメモリ実装を、水平スケール構成では
// Redis実装を同じインターフェースで差し替えられる。
//
// 固定ウィンドウ方式はウィンドウ境界付近で最大2倍のリクエストを許す
// 可能性があるが、これは仕様として許容されている標準的な挙動である。
package ratelimit
