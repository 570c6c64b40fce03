package api

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/amterp/lanes/internal/model"
	"github.com/amterp/lanes/internal/service"
	"github.com/amterp/lanes/internal/store"
	"github.com/amterp/lanes/testutil"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestFileWatcher_Relevant(t *testing.T) {
	fw := &FileWatcher{path: "/data/lanes/storage.json"}

	tests := []struct {
		name string
		path string
		op   fsnotify.Op
		want bool
	}{
		{"write", "/data/lanes/storage.json", fsnotify.Write, true},
		{"rename into place", "/data/lanes/storage.json", fsnotify.Create, true},
		{"removed", "/data/lanes/storage.json", fsnotify.Remove, true},
		{"chmod only", "/data/lanes/storage.json", fsnotify.Chmod, false},
		{"lock file", "/data/lanes/storage.json.lock", fsnotify.Write, false},
		{"temp file", "/data/lanes/.lanes-123.tmp", fsnotify.Create, false},
		{"unclean path", "/data/lanes/../lanes/storage.json", fsnotify.Write, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fw.relevant(fsnotify.Event{Name: tt.path, Op: tt.op}); got != tt.want {
				t.Errorf("relevant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFileWatcher_NoRestart(t *testing.T) {
	logger, _ := test.NewNullLogger()
	fw, err := NewFileWatcher(filepath.Join(t.TempDir(), "storage.json"), func() {}, logger)
	if err != nil {
		t.Fatal(err)
	}
	if err := fw.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := fw.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := fw.Stop(); err != nil {
		t.Errorf("Second Stop should be a no-op, got %v", err)
	}
	if err := fw.Start(); err == nil {
		t.Error("Expected error restarting a stopped watcher")
	}
}

func TestNewFileWatcher_RequiresPath(t *testing.T) {
	if _, err := NewFileWatcher("", func() {}, nil); err == nil {
		t.Error("Expected error for empty path")
	}
}

// An external writer (the CLI) updates the file; the server's store
// reloads and the change reaches subscribers.
func TestServer_ReloadsOnExternalWrite(t *testing.T) {
	path := testutil.TempDataFile(t)
	logger, _ := test.NewNullLogger()

	open := func(idPrefix string) *service.BoardService {
		backend, err := store.NewFileBackend(path)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { backend.Close() })
		gw := store.NewGateway(backend, store.WithLogger(logger))
		svc := service.NewBoardService(gw, testutil.NewSeqIDs(idPrefix), service.WithLogger(logger))
		svc.Load(context.Background())
		return svc
	}

	served := open("srv-")
	changes := make(chan service.Change, 16)
	unsubscribe := served.Subscribe(func(c service.Change) { changes <- c })
	defer unsubscribe()

	srv := NewServer(NewHandler(served, "", logger), served, 0, path, logger)
	if srv.watcher == nil {
		t.Fatal("Expected a file watcher")
	}
	if err := srv.watcher.Start(); err != nil {
		t.Fatal(err)
	}
	defer srv.Shutdown(context.Background())

	cli := open("cli-")
	card, ok := cli.AddCard(service.AddCardInput{Title: "from the cli", Priority: model.PriorityHigh})
	if !ok {
		t.Fatal("AddCard failed")
	}

	deadline := time.After(3 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.Op != service.OpReload {
				continue
			}
			if got, ok := served.Card(card.ID); ok && got.Title == "from the cli" {
				return
			}
		case <-deadline:
			t.Fatal("Server never picked up the external write")
		}
	}
}
