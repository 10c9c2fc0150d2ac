package blob

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestFilesystemRoundTrip(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	ctx := context.Background()

	info, err := store.Put(ctx, "documents/a.sdrf", strings.NewReader("Source Name\ts1\n"), PutOptions{
		ContentType: "text/tab-separated-values",
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if info.Size != 15 || info.ETag == "" {
		t.Fatalf("info = %+v", info)
	}

	got, rc, err := store.Get(ctx, "documents/a.sdrf")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	body, err := io.ReadAll(rc)
	_ = rc.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "Source Name\ts1\n" {
		t.Fatalf("body = %q", body)
	}
	if got.ETag != info.ETag || got.ContentType != "text/tab-separated-values" {
		t.Fatalf("got = %+v", got)
	}
}

func TestFilesystemPutIsCreateOnly(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Put(ctx, "k", strings.NewReader("x"), PutOptions{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := store.Put(ctx, "k", strings.NewReader("y"), PutOptions{}); err == nil {
		t.Fatal("overwrite accepted")
	}
}

func TestFilesystemRejectsUnsafeKeys(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"", "  ", "../escape", "/absolute", "a/../../b"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), PutOptions{}); err == nil {
			t.Fatalf("unsafe key %q accepted", key)
		}
	}
}

func TestFilesystemDeleteAndList(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystem: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"documents/a.sdrf", "documents/b.sdrf"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), PutOptions{}); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
	}

	existed, err := store.Delete(ctx, "documents/a.sdrf")
	if err != nil || !existed {
		t.Fatalf("Delete = %v, %v", existed, err)
	}
	if _, _, err := store.Get(ctx, "documents/a.sdrf"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after delete = %v", err)
	}

	infos, err := store.List(ctx, "documents/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || infos[0].Key != "documents/b.sdrf" {
		t.Fatalf("infos = %+v", infos)
	}
}
