package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nalgeon/be"
)

func TestIsRelevant(t *testing.T) {
	dir := t.TempDir()
	watchedFile := filepath.Join(dir, "app.rast")
	watched := map[string]bool{watchedFile: true}

	be.True(t, isRelevant(fsnotify.Event{Name: watchedFile, Op: fsnotify.Write}, watched))
	be.True(t, isRelevant(fsnotify.Event{Name: watchedFile, Op: fsnotify.Create}, watched))
	be.True(t, isRelevant(fsnotify.Event{Name: watchedFile, Op: fsnotify.Rename}, watched))
	be.True(t, !isRelevant(fsnotify.Event{Name: watchedFile, Op: fsnotify.Chmod}, watched))
	be.True(t, !isRelevant(fsnotify.Event{Name: watchedFile, Op: fsnotify.Remove}, watched))
	be.True(t, !isRelevant(fsnotify.Event{Name: filepath.Join(dir, "other.rast"), Op: fsnotify.Write}, watched))
}

func TestWatchRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "app.rast", `(nil)`)

	builds := make(chan struct{}, 16)
	rebuild := func() error {
		builds <- struct{}{}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watch(ctx, []string{file}, rebuild, quietLogger())
	}()

	waitForBuild := func() {
		t.Helper()
		select {
		case <-builds:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a build")
		}
	}

	waitForBuild()

	// Unrelated files in the same directory are ignored.
	writeFile(t, dir, "notes.txt", "hello")
	be.Err(t, os.WriteFile(file, []byte(`(fixnum 1)`), 0o644), nil)
	waitForBuild()

	cancel()
	select {
	case err := <-done:
		be.Err(t, err, nil)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
