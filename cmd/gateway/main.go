// API Gatewayサービスのエントリポイント。
// 認証・認可・レート制限・内部サービスへのディスパッチを担当する。
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線となる。
package main

import (
	"log"

	"github.com/saiteja7065/AdaptiLearn-sub001/internal/config"
	"github.com/saiteja7065/AdaptiLearn-sub001/internal/gateway"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Gateway設定の読み込みに失敗: %v", err)
	}

	server, err := gateway.NewServer(cfg)
	if err != nil {
		log.Fatalf("Gatewayサーバーの初期化に失敗: %v", err)
	}
	defer func() {
		if err := server.Close(); err != nil {
			log.Printf("Gatewayサーバーの終了処理に失敗: %v", err)
		}
	}()

	log.Printf("Gatewayサービスを起動します: :%s (env=%s)", cfg.Port, cfg.Env)
	if err := server.Run(); err != nil {
		log.Fatalf("Gatewayサービスの起動に失敗: %v", err)
	}
}
