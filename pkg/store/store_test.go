package store

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/anchortile/pkg/errors"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close(ctx)

	doc := map[string]any{"anchors": []any{}, "device": "gw"}
	if err := s.Save(ctx, "config_20240501_120000.json", doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(s.Path("config_20240501_120000.json"))
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("stored file is not JSON: %v", err)
	}
	if got["device"] != "gw" {
		t.Errorf("device = %v", got["device"])
	}
}

func TestFileStoreRejectsPaths(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"../escape.json", "a/b.json", "", ".."} {
		err := s.Save(context.Background(), name, map[string]any{})
		if err == nil {
			t.Errorf("Save(%q) should fail", name)
		}
	}
	if err := s.Save(context.Background(), "../x.json", nil); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("got %v, want INVALID_PATH", err)
	}
}

func TestMongoRecord(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	r := record("run.json", map[string]any{"k": 1}, at)
	if r["name"] != "run.json" {
		t.Errorf("name = %v", r["name"])
	}
	if got := r["created_at"].(time.Time); got.Location() != time.UTC || !got.Equal(at) {
		t.Errorf("created_at = %v", got)
	}
}
