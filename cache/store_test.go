package cache_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soapwire/soapwire/cache"
)

func TestStore_PutGetRoundTrip(t *testing.T) {
	store, err := cache.NewStore(t.TempDir(), 4)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	blob := bytes.Repeat([]byte(`{"kind":"TypeGraph"}`), 50)
	if err := store.Put("urn:x", blob); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, ok, err := store.Get("urn:x")
	if err != nil || !ok {
		t.Fatalf("unexpected result: %v %v", ok, err)
	}
	if !bytes.Equal(got, blob) {
		t.Fatalf("blob changed across round trip")
	}
}

func TestStore_MissingKey(t *testing.T) {
	store, err := cache.NewStore(t.TempDir(), 4)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	_, ok, err := store.Get("never stored")
	if err != nil {
		t.Fatalf("a miss must not error: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss")
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.NewStore(dir, 4)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := store.Put("urn:x", []byte("payload")); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	reopened, err := cache.NewStore(dir, 4)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	got, ok, err := reopened.Get("urn:x")
	if err != nil || !ok || string(got) != "payload" {
		t.Fatalf("disk copy not readable after reopen: %q %v %v", got, ok, err)
	}
}

func TestStore_CompressesOnDisk(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.NewStore(dir, 4)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	blob := bytes.Repeat([]byte("abcdefgh"), 4096)
	if err := store.Put("urn:x", blob); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one stored file, got %v %v", entries, err)
	}
	name := entries[0].Name()
	if !strings.HasSuffix(name, ".zst") {
		t.Fatalf("unexpected file name %q", name)
	}
	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if info.Size() >= int64(len(blob)) {
		t.Fatalf("repetitive blob did not compress: %d >= %d", info.Size(), len(blob))
	}
}
