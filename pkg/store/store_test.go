package store

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSaveAndByInputHash(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	id, err := Save(db, Extraction{
		InputHash:        "abc123",
		Body:             "お世話になっております。",
		Confidence:       0.87,
		Success:          true,
		InlineQuoteCount: 1,
		LabelsJSON:       `[]`,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected non-zero id")
	}

	records, err := ByInputHash(db, "abc123")
	if err != nil {
		t.Fatalf("ByInputHash: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Body != "お世話になっております。" {
		t.Errorf("body = %q, want round trip", records[0].Body)
	}
}

func TestCount(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if n, err := Count(db); err != nil || n != 0 {
		t.Fatalf("initial count = %d, err=%v, want 0,nil", n, err)
	}

	if _, err := Save(db, Extraction{InputHash: "h1", Body: "x", LabelsJSON: `[]`}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n, err := Count(db); err != nil || n != 1 {
		t.Fatalf("count after save = %d, err=%v, want 1,nil", n, err)
	}
}
