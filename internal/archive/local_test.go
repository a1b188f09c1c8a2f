package archive

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestObjectName(t *testing.T) {
	now := time.UnixMilli(1704451200000)

	name, err := objectName("u1", "doc.pdf", now)
	if err != nil {
		t.Fatalf("objectName() error: %v", err)
	}
	if name != "u1/1704451200000_doc.pdf" {
		t.Errorf("objectName() = %q", name)
	}

	if _, err := objectName("", "doc.pdf", now); err == nil {
		t.Error("empty user id accepted")
	}
	if _, err := objectName("u1", "", now); err == nil {
		t.Error("empty file name accepted")
	}
}

func TestLocalArchiver_Archive(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "archive_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	srcPath := filepath.Join(tempDir, "source.pdf")
	if err := os.WriteFile(srcPath, []byte("pdf bytes"), 0o644); err != nil {
		t.Fatalf("Failed to create source: %v", err)
	}

	archiver, err := NewLocalArchiver(tempDir)
	if err != nil {
		t.Fatalf("NewLocalArchiver() error: %v", err)
	}

	result, err := archiver.Archive(context.Background(), Request{
		SourcePath: srcPath,
		UserID:     "u1",
		FileName:   "source.pdf",
	})
	if err != nil {
		t.Fatalf("Archive() error: %v", err)
	}

	if !strings.Contains(result.URL, filepath.Join(tempDir, "archive", "u1")) {
		t.Errorf("unexpected archive location: %s", result.URL)
	}
	data, err := os.ReadFile(result.URL)
	if err != nil {
		t.Fatalf("archived copy unreadable: %v", err)
	}
	if string(data) != "pdf bytes" {
		t.Errorf("archived content = %q", data)
	}
}

func TestLocalArchiver_Errors(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "archive_err_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	if _, err := NewLocalArchiver(""); err == nil {
		t.Error("empty data directory accepted")
	}

	archiver, err := NewLocalArchiver(tempDir)
	if err != nil {
		t.Fatalf("NewLocalArchiver() error: %v", err)
	}

	_, err = archiver.Archive(context.Background(), Request{
		SourcePath: filepath.Join(tempDir, "missing.pdf"),
		UserID:     "u1",
		FileName:   "missing.pdf",
	})
	if err == nil {
		t.Error("missing source accepted")
	}

	_, err = archiver.Archive(context.Background(), Request{SourcePath: "x", FileName: "y"})
	if err == nil {
		t.Error("empty user id accepted")
	}
}
