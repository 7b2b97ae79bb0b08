package db

import "testing"

func TestExtractDBName(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/tourify?sslmode=disable": "tourify",
		"host=localhost dbname=events user=x":                  "events",
	}
	for in, want := range cases {
		got, err := extractDBName(in)
		if err != nil {
			t.Fatalf("extractDBName(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("extractDBName(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := extractDBName("host=localhost user=x"); err == nil {
		t.Fatal("expected error when dbname is missing")
	}
}

func TestReplaceDBName(t *testing.T) {
	got, err := replaceDBName("postgres://u:p@localhost:5432/tourify?sslmode=disable", "postgres")
	if err != nil {
		t.Fatalf("replaceDBName: %v", err)
	}
	if got != "postgres://u:p@localhost:5432/postgres?sslmode=disable" {
		t.Fatalf("unexpected url %q", got)
	}

	got, _ = replaceDBName("host=h dbname=tourify", "postgres")
	if got != "host=h dbname=postgres" {
		t.Fatalf("unexpected dsn %q", got)
	}
}
