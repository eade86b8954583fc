package migration

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

// newTestDB はテスト用のインメモリSQLiteデータベースを開く。
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("データベース接続に失敗: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestRun はマイグレーションの適用を検証する。
func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("マイグレーションがバージョン順に適用されること", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"migrations/000002_add_column.up.sql": &fstest.MapFile{
				Data: []byte(`ALTER TABLE items ADD COLUMN note TEXT NOT NULL DEFAULT ''`),
			},
			"migrations/000001_create_items.up.sql": &fstest.MapFile{
				Data: []byte(`CREATE TABLE items (id TEXT PRIMARY KEY)`),
			},
		}

		db := newTestDB(t)
		if err := Run(db, fsys, "migrations"); err != nil {
			t.Fatalf("Run()でエラーが発生: %v", err)
		}

		// 2番目のマイグレーションで追加された列に書き込めること
		if _, err := db.Exec(`INSERT INTO items (id, note) VALUES ('a', 'メモ')`); err != nil {
			t.Errorf("マイグレーション適用後の書き込みに失敗: %v", err)
		}

		// バージョン管理テーブルに2件記録されていること
		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
			t.Fatalf("schema_migrationsの集計に失敗: %v", err)
		}
		if count != 2 {
			t.Errorf("適用済みバージョン数 = %d, want 2", count)
		}
	})

	t.Run("再実行しても適用済みのマイグレーションがスキップされること", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"migrations/000001_create_items.up.sql": &fstest.MapFile{
				Data: []byte(`CREATE TABLE items (id TEXT PRIMARY KEY)`),
			},
		}

		db := newTestDB(t)
		if err := Run(db, fsys, "migrations"); err != nil {
			t.Fatalf("1回目のRun()でエラーが発生: %v", err)
		}
		// CREATE TABLEはIF NOT EXISTSなしのため、再適用されるとエラーになる
		if err := Run(db, fsys, "migrations"); err != nil {
			t.Fatalf("2回目のRun()でエラーが発生: %v", err)
		}
	})

	t.Run("命名規則に合わないファイルが無視されること", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"migrations/000001_create_items.up.sql": &fstest.MapFile{
				Data: []byte(`CREATE TABLE items (id TEXT PRIMARY KEY)`),
			},
			"migrations/README.md": &fstest.MapFile{
				Data: []byte(`# migrations`),
			},
			"migrations/notaversion_bad.up.sql": &fstest.MapFile{
				Data: []byte(`THIS IS NOT SQL`),
			},
		}

		db := newTestDB(t)
		if err := Run(db, fsys, "migrations"); err != nil {
			t.Fatalf("Run()でエラーが発生: %v", err)
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count); err != nil {
			t.Fatalf("schema_migrationsの集計に失敗: %v", err)
		}
		if count != 1 {
			t.Errorf("適用済みバージョン数 = %d, want 1", count)
		}
	})

	t.Run("不正なSQLを含むマイグレーションでエラーが返ること", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"migrations/000001_broken.up.sql": &fstest.MapFile{
				Data: []byte(`CREATE INVALID SYNTAX`),
			},
		}

		db := newTestDB(t)
		if err := Run(db, fsys, "migrations"); err == nil {
			t.Fatal("Run()がエラーを返すべきだが、nilが返った")
		}
	})
}
