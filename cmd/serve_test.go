package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kozaktomas/photo-faces/internal/config"
	"github.com/kozaktomas/photo-faces/internal/objecturl"
	"github.com/kozaktomas/photo-faces/internal/uploadstate"
	"github.com/kozaktomas/photo-faces/internal/web"
)

func testBlob(name string) objecturl.Blob {
	return objecturl.Blob{Name: name, ContentType: "image/png", Data: []byte(name)}
}

func TestShutdown_TearsDownAfterServer(t *testing.T) {
	urls := objecturl.NewRegistry("test")
	store := uploadstate.New(urls)
	server := web.NewServer(config.Defaults(), store, urls)

	if _, err := store.AddFiles([]objecturl.Blob{testBlob("a.png"), testBlob("b.png")}); err != nil {
		t.Fatalf("AddFiles failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdown(ctx, server, store, urls); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if urls.Len() != 0 {
		t.Errorf("expected no live handles, got %d", urls.Len())
	}
	if len(store.Files()) != 0 {
		t.Error("expected empty store after shutdown")
	}

	// a handler finishing late must not leave a reachable entry behind
	if _, err := store.AddFiles([]objecturl.Blob{testBlob("late.png")}); err == nil {
		t.Error("expected AddFiles to fail after shutdown")
	}
	if urls.Len() != 0 || len(store.Files()) != 0 {
		t.Errorf("expected nothing live after late AddFiles, got %d handles, %d files", urls.Len(), len(store.Files()))
	}
}

func TestTeardown_ReportsOrphanHandles(t *testing.T) {
	urls := objecturl.NewRegistry("test")
	store := uploadstate.New(urls)
	if _, err := store.AddFiles([]objecturl.Blob{testBlob("a.png")}); err != nil {
		t.Fatalf("AddFiles failed: %v", err)
	}
	if _, err := urls.Create(testBlob("orphan.png")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if n := teardown(store, urls); n != 1 {
		t.Errorf("expected 1 orphan handle, got %d", n)
	}
	if _, err := urls.Create(testBlob("after.png")); !errors.Is(err, objecturl.ErrClosed) {
		t.Errorf("expected ErrClosed after teardown, got %v", err)
	}
}
