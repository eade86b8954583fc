// Package audit は認証イベントの監査ログをSQLiteに永続化する。
//
// トークン検証の成功・失敗とバイパスの発動を記録する。生のクレデンシャルは
// 決して保存しない。記録の失敗はリクエスト処理を妨げない（ログ出力のみ）。
package audit

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/saiteja7065/AdaptiLearn-sub001/pkg/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// 監査イベントの種別。
const (
	// EventAuthSuccess はトークン検証の成功を表す。
	EventAuthSuccess = "auth_success"
	// EventAuthFailure はトークン検証の失敗を表す。
	EventAuthFailure = "auth_failure"
	// EventAuthBypass は開発用バイパスによる認証スキップを表す。
	EventAuthBypass = "auth_bypass"
)

// Event は記録する監査イベント。
type Event struct {
	// SubjectID は対象ユーザーの識別子。検証失敗時は空の場合がある。
	SubjectID string
	// Email は対象ユーザーのメールアドレス。
	Email string
	// Kind はイベント種別（EventAuth*定数のいずれか）。
	Kind string
	// Detail は補足情報（エラーコード等）。トークン本体は含めないこと。
	Detail string
}

// Store は監査イベントのSQLiteストア。
type Store struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// NewStore は指定パスのSQLiteデータベースを開き、マイグレーションを適用する。
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("監査データベース接続に失敗: %w", err)
	}
	if err := migration.Run(db, migrationsFS, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("監査スキーマの適用に失敗: %w", err)
	}
	return &Store{db: db}, nil
}

// Record は監査イベントを1件保存する。
func (s *Store) Record(ctx context.Context, e Event) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO auth_events (id, subject_id, email, event, detail) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), e.SubjectID, e.Email, e.Kind, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("監査イベントの保存に失敗: %w", err)
	}
	return nil
}

// CountBySubject は指定ユーザーのイベント種別ごとの件数を返す。
// 運用時の調査用途とテストで使用する。
func (s *Store) CountBySubject(ctx context.Context, subjectID, kind string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM auth_events WHERE subject_id = ? AND event = ?`,
		subjectID, kind,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("監査イベントの集計に失敗: %w", err)
	}
	return count, nil
}

// Close はデータベース接続を閉じる。
func (s *Store) Close() error {
	return s.db.Close()
}
