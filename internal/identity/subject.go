package identity

// Subject は検証済みクレデンシャルから導出された認証済みの呼び出し元。
// リクエストごとに生成され、Gateway側で永続化されることはない。
type Subject struct {
	// ID はユーザーの一意識別子（JWTのsubクレーム）。
	ID string
	// Email はユーザーのメールアドレス。未設定の場合は空文字列。
	Email string
	// EmailVerified はメールアドレスが確認済みかどうか。
	EmailVerified bool
	// DisplayName はユーザーの表示名。未設定の場合は空文字列。
	DisplayName string
	// Claims はトークンに含まれる全クレーム。
	// ロール判定には使用しない（認可はプロバイダへの再照会で行う）。
	Claims map[string]any
}

// DevSubject は開発用認証バイパスで使用する固定のSubjectを返す。
// config.Config.DevBypassEnabledが真の場合にのみ使用される。
func DevSubject() *Subject {
	return &Subject{
		ID:            "dev-user-123",
		Email:         "dev@adaptilearn.com",
		EmailVerified: true,
		DisplayName:   "Development User",
		Claims: map[string]any{
			"role": "admin",
		},
	}
}
