package gormsqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestReadWriteSplit(t *testing.T) {
	ctx := context.Background()

	db, err := Open(filepath.Join(t.TempDir(), "split.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	err = db.WriteTX(ctx, func(tx *Tx) error {
		if err := tx.Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)").Error; err != nil {
			return err
		}
		return tx.Exec("INSERT INTO notes (body) VALUES (?)", "hello").Error
	})
	if err != nil {
		t.Fatalf("write tx: %v", err)
	}

	var count int64
	err = db.ReadTX(ctx, func(tx *Tx) error {
		return tx.Raw("SELECT COUNT(*) FROM notes").Scan(&count).Error
	})
	if err != nil {
		t.Fatalf("read tx: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row, got %d", count)
	}

	// The reader pool is query_only; writes through it must fail.
	err = db.ReadTX(ctx, func(tx *Tx) error {
		return tx.Exec("INSERT INTO notes (body) VALUES (?)", "sneaky").Error
	})
	if err == nil {
		t.Fatal("expected write through reader to fail")
	}
}
