package database

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// The constructors must return a nil *DatabaseError on a nil cause, so
// callers holding the concrete type can compare against nil for success.
// Storing the result in a plain error interface first would break that
// comparison, which is why every caller keeps the concrete type.
func TestErrorConstructors_NilOnNilCause(t *testing.T) {
	constructors := map[string]func(error) *DatabaseError{
		"migrate":  newMigrateError,
		"conflict": newConflictError,
		"open":     newOpenError,
		"config":   newConfigError,
		"update":   newUpdateError,
		"query":    newQueryError,
	}
	for name, construct := range constructors {
		if derr := construct(nil); derr != nil {
			t.Errorf("%s constructor should return nil on a nil cause, got %v", name, derr)
		}
	}
	if derr := newQueryError(errors.New("boom")); derr == nil {
		t.Errorf("a real cause should produce an error")
	}
}

func TestGetPsqlInfo_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "psqlInfo.json")
	config := `{"Host":"localhost","Port":5432,"User":"u","Password":"p","Dbname":"d","Sslmode":"disable"}`
	if err := os.WriteFile(path, []byte(config), 0644); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	info, derr := getPsqlInfo(path)
	if derr != nil {
		t.Fatalf("a valid config file should load cleanly, got %s", derr)
	}
	expected := "host=localhost port=5432 user=u password=p dbname=d sslmode=disable"
	if info.String() != expected {
		t.Errorf("expected %q, got %q", expected, info.String())
	}
}

func TestGetPsqlInfo_MissingFile(t *testing.T) {
	_, derr := getPsqlInfo(filepath.Join(t.TempDir(), "absent.json"))
	if derr == nil || derr.ErrorType != OpenError {
		t.Errorf("a missing config file should yield an open error, got %v", derr)
	}
}
