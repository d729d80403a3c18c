package localfs

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveOpenRemoveCycle(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if err := storage.Save(ctx, "mail-1_teste.txt", strings.NewReader("conteúdo")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reader, err := storage.Open(ctx, "mail-1_teste.txt")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	raw, err := io.ReadAll(reader)
	_ = reader.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "conteúdo" {
		t.Fatalf("read %q, want %q", raw, "conteúdo")
	}

	if err := storage.Remove(ctx, "mail-1_teste.txt"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := storage.Open(ctx, "mail-1_teste.txt"); err == nil {
		t.Fatalf("expected open error after remove")
	}
	// removing again is not an error
	if err := storage.Remove(ctx, "mail-1_teste.txt"); err != nil {
		t.Fatalf("Remove() after remove error = %v", err)
	}
}
