package doctext

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ananyak/ndra/internal/core/domain"
)

type storageFake struct {
	files map[string][]byte
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	f.files[key] = raw
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	raw, ok := f.files[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(strings.NewReader(string(raw))), nil
}

func TestExtractPlainText(t *testing.T) {
	storage := &storageFake{files: map[string][]byte{
		"doc-1_policy.txt": []byte("  Clause 1: surgery is covered.  "),
	}}
	e := NewExtractor(storage)
	doc := &domain.Document{Filename: "policy.txt", StoragePath: "doc-1_policy.txt"}

	got, err := e.Extract(context.Background(), doc)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "Clause 1: surgery is covered." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestExtractRejectsUnknownBinary(t *testing.T) {
	storage := &storageFake{files: map[string][]byte{
		"doc-1_blob.bin": {0xff, 0xfe, 0x00, 0x01},
	}}
	e := NewExtractor(storage)
	doc := &domain.Document{Filename: "blob.bin", StoragePath: "doc-1_blob.bin"}

	_, err := e.Extract(context.Background(), doc)
	if err == nil || !strings.Contains(err.Error(), "unsupported binary format") {
		t.Fatalf("expected binary rejection, got %v", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	storage := &storageFake{files: map[string][]byte{
		"doc-1_policy.pdf": []byte("not a real pdf"),
	}}
	e := NewExtractor(storage)
	doc := &domain.Document{Filename: "policy.pdf", StoragePath: "doc-1_policy.pdf"}

	if _, err := e.Extract(context.Background(), doc); err == nil {
		t.Fatalf("expected error for corrupt pdf")
	}
}

func TestExtractMissingSource(t *testing.T) {
	e := NewExtractor(&storageFake{})
	doc := &domain.Document{Filename: "policy.txt", StoragePath: "gone"}

	_, err := e.Extract(context.Background(), doc)
	if err == nil || !strings.Contains(err.Error(), "open source document") {
		t.Fatalf("expected open error, got %v", err)
	}
}
