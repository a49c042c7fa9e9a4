package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcher_NewFileIngested(t *testing.T) {
	dir, store, db := syncTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var events []string

	go Watch(ctx, db, store, dir, quietLogger(), func(kind, path string) {
		mu.Lock()
		events = append(events, kind+":"+path)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	_ = os.WriteFile(filepath.Join(dir, "new.txt"), []byte("SECTION 1: Fresh\nPROMPT: x\n"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := db.GetPage("new.txt")
		return err == nil
	}, "new.txt never ingested")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(events) > 0
	}, "no callback fired")
}

func TestWatcher_RemoveDeletesRecords(t *testing.T) {
	dir, store, db := syncTestEnv(t)
	path := filepath.Join(dir, "doomed.txt")
	_ = os.WriteFile(path, []byte("SECTION 1: Doomed\n"), 0o644)
	if err := Sync(db, store, quietLogger()); err != nil {
		t.Fatalf("sync: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Watch(ctx, db, store, dir, quietLogger(), nil)

	time.Sleep(100 * time.Millisecond)
	_ = os.Remove(path)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		_, err := db.GetPage("doomed.txt")
		return err != nil
	}, "doomed.txt records never deleted")
}
