package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())

	payload := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0x01}, 64)...)
	key, size, mimeType, err := store.Save(context.Background(), 1, "me.png", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len(payload)) {
		t.Fatalf("expected size %d, got %d", len(payload), size)
	}
	if mimeType != "image/png" {
		t.Fatalf("expected image/png, got %q", mimeType)
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatal("stored bytes differ from input")
	}
}

func TestCopyCreatesIndependentObject(t *testing.T) {
	store := New(t.TempDir())

	key, _, _, err := store.Save(context.Background(), 1, "a.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	newKey, err := store.Copy(context.Background(), key)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if newKey == key {
		t.Fatal("copy must produce a fresh key")
	}

	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("delete original: %v", err)
	}

	rc, err := store.Open(context.Background(), newKey)
	if err != nil {
		t.Fatalf("open copy after deleting original: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "hello" {
		t.Fatalf("unexpected copy contents %q", got)
	}
}

func TestDeleteMissingKeyIsNoError(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Delete(context.Background(), "nope/missing.txt"); err != nil {
		t.Fatalf("deleting a missing key must not error: %v", err)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../../etc/passwd"); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
}

func TestPresignGetReturnsFileURL(t *testing.T) {
	store := New(t.TempDir())

	key, _, _, err := store.Save(context.Background(), 1, "a.txt", strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	url, err := store.PresignGet(context.Background(), key, 0)
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.HasPrefix(url, "file://") {
		t.Fatalf("expected file URL, got %q", url)
	}
}
