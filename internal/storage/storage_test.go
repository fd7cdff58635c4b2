package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
	"go.uber.org/zap"
)

func TestKindFor(t *testing.T) {
	if got := KindFor("image/png"); got != domain.ReceiptKindImage {
		t.Fatalf("expected image, got %s", got)
	}
	if got := KindFor("image/heic"); got != domain.ReceiptKindImage {
		t.Fatalf("expected image, got %s", got)
	}
	if got := KindFor("application/pdf"); got != domain.ReceiptKindDocument {
		t.Fatalf("expected document, got %s", got)
	}
}

func TestValidate(t *testing.T) {
	if _, err := validate(Upload{Data: []byte("x"), ContentType: "text/html"}); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected unsupported type, got %v", err)
	}
	if _, err := validate(Upload{ContentType: "image/png"}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected too large for empty payload, got %v", err)
	}
	if _, err := validate(Upload{Data: bytes.Repeat([]byte("a"), MaxUploadBytes+1), ContentType: "image/png"}); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected too large, got %v", err)
	}
	if _, err := validate(Upload{Data: bytes.Repeat([]byte("a"), 8<<20), ContentType: "image/png"}); err != nil {
		t.Fatalf("8 MiB exactly must pass, got %v", err)
	}
	if _, err := validate(Upload{Data: []byte("x"), ContentType: "image/gif"}); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected gif rejected, got %v", err)
	}
	ext, err := validate(Upload{Data: []byte("x"), ContentType: "image/jpeg; charset=binary"})
	if err != nil || ext != ".jpg" {
		t.Fatalf("expected .jpg, got %q %v", ext, err)
	}
	ext, err = validate(Upload{Data: []byte("x"), ContentType: "image/heic"})
	if err != nil || ext != ".heic" {
		t.Fatalf("expected .heic, got %q %v", ext, err)
	}
}

func TestSafeName(t *testing.T) {
	cases := map[string]string{
		"receipt.png":          "receipt.png",
		"../../etc/passwd":     "passwd",
		`C:\stuff\receipt.pdf`: "receipt.pdf",
		"we?ird na me!.png":    "weirdname.png",
		"":                     "receipt",
		"...":                  "receipt",
	}
	for input, want := range cases {
		if got := safeName(input); got != want {
			t.Fatalf("safeName(%q): expected %q, got %q", input, want, got)
		}
	}
}

func TestLocalStorePut(t *testing.T) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	dir := t.TempDir()
	store := newLocalStore(dir, "https://ioweyou.test/", zap.NewNop(), node)

	obj, err := store.Put(context.Background(), Upload{
		Data:         []byte("pretend png"),
		ContentType:  "image/png",
		OriginalName: "../sneaky/receipt.png",
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	if obj.Kind != domain.ReceiptKindImage {
		t.Fatalf("expected image kind, got %s", obj.Kind)
	}
	if !strings.HasPrefix(obj.URL, "https://ioweyou.test/uploads/") {
		t.Fatalf("unexpected url %q", obj.URL)
	}
	if strings.Contains(obj.Key, "/") || strings.Contains(obj.Key, "..") {
		t.Fatalf("key must be a bare filename, got %q", obj.Key)
	}

	data, err := os.ReadFile(filepath.Join(dir, obj.Key))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "pretend png" {
		t.Fatalf("stored payload mismatch: %q", data)
	}
}
