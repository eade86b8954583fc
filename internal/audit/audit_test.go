package audit

import (
	"context"
	"testing"
)

// newTestStore はインメモリSQLiteを使用するテスト用Storeを生成する。
func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("Storeの生成に失敗: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// TestStoreRecord は監査イベントの保存と集計を検証する。
func TestStoreRecord(t *testing.T) {
	t.Parallel()

	t.Run("イベントを保存して件数を取得できること", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		ctx := context.Background()

		events := []Event{
			{SubjectID: "user-1", Email: "u1@example.com", Kind: EventAuthSuccess},
			{SubjectID: "user-1", Email: "u1@example.com", Kind: EventAuthSuccess},
			{SubjectID: "user-1", Kind: EventAuthFailure, Detail: "TOKEN_EXPIRED"},
			{SubjectID: "user-2", Email: "u2@example.com", Kind: EventAuthSuccess},
		}
		for _, e := range events {
			if err := store.Record(ctx, e); err != nil {
				t.Fatalf("Record()でエラーが発生: %v", err)
			}
		}

		count, err := store.CountBySubject(ctx, "user-1", EventAuthSuccess)
		if err != nil {
			t.Fatalf("CountBySubject()でエラーが発生: %v", err)
		}
		if count != 2 {
			t.Errorf("user-1の成功イベント数 = %d, want 2", count)
		}

		count, err = store.CountBySubject(ctx, "user-1", EventAuthFailure)
		if err != nil {
			t.Fatalf("CountBySubject()でエラーが発生: %v", err)
		}
		if count != 1 {
			t.Errorf("user-1の失敗イベント数 = %d, want 1", count)
		}
	})

	t.Run("SubjectIDが空のイベントも保存できること", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		ctx := context.Background()

		if err := store.Record(ctx, Event{Kind: EventAuthFailure, Detail: "INVALID_TOKEN"}); err != nil {
			t.Fatalf("Record()でエラーが発生: %v", err)
		}

		count, err := store.CountBySubject(ctx, "", EventAuthFailure)
		if err != nil {
			t.Fatalf("CountBySubject()でエラーが発生: %v", err)
		}
		if count != 1 {
			t.Errorf("失敗イベント数 = %d, want 1", count)
		}
	})
}
