package migrations

import (
	"context"
	"io/fs"
	"testing"
	"testing/fstest"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestLoadSortsByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_second.up.sql":  {Data: []byte("SELECT 2")},
		"0001_first.up.sql":   {Data: []byte("SELECT 1")},
		"0001_first.down.sql": {Data: []byte("SELECT -1")},
		"README.md":           {Data: []byte("ignored")},
	}

	got, err := Load(fsys)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(got))
	}
	if got[0].Version != 1 || got[0].Name != "first" || got[0].Down != "SELECT -1" {
		t.Fatalf("unexpected first migration %+v", got[0])
	}
	if got[1].Version != 2 || got[1].Down != "" {
		t.Fatalf("unexpected second migration %+v", got[1])
	}
}

func TestEmbeddedMigrationsParse(t *testing.T) {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	got, err := Load(sub)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) < 3 {
		t.Fatalf("expected at least 3 embedded migrations, got %d", len(got))
	}
	for i, m := range got {
		if m.Version != i+1 {
			t.Fatalf("expected contiguous versions, got %d at %d", m.Version, i)
		}
	}
}

func TestRunSkipsAppliedMigrations(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	fsys := fstest.MapFS{
		"0001_first.up.sql":  {Data: []byte("CREATE TABLE a (id INT)")},
		"0002_second.up.sql": {Data: []byte("CREATE TABLE b (id INT)")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE b").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs(2, "second").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := Run(context.Background(), db, fsys); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
