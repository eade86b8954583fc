// Package config はGatewayサービスの設定を環境変数から読み込む。
//
// 設定はすべて環境変数で与える（CLIフラグは使用しない）。ローカル開発では
// .envファイルをgodotenvで読み込む。認証バイパスは二つの独立したフラグが
// 一致した場合のみ有効になり、単一の環境変数の誤設定では有効化されない。
package config
