package vfs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestDirectoryDriver(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "UEL0106_LOD0.scm"), []byte("MODL"), 0666); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "sub"), 0777); err != nil {
		t.Fatal(err)
	}

	d := NewDirectoryDriver(root)
	list, err := d.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0] != "UEL0106_LOD0.scm" || list[1] != "sub" {
		t.Errorf("list %v", list)
	}

	data, err := ReadFile(d, "uel0106_lod0.scm")
	if err != nil {
		t.Fatalf("case-insensitive lookup: %v", err)
	}
	if string(data) != "MODL" {
		t.Errorf("data %q", data)
	}

	if _, err := DirectoryGetDirectory(d, "sub"); err != nil {
		t.Error(err)
	}
	if _, err := DirectoryGetFile(d, "sub"); err == nil {
		t.Errorf("directory returned as file")
	}

	_, err = ReadFile(d, "missing.scm")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
	if Exists(d, "missing.scm") || !Exists(d, "sub") {
		t.Errorf("Exists mismatch")
	}
}

func TestWriteFile(t *testing.T) {
	d := NewDirectoryDriver(t.TempDir())
	payload := []byte("payload")
	if err := WriteFile(d, "out.bin", bytes.NewReader(payload)); err != nil {
		t.Fatal(err)
	}
	data, err := ReadFile(d, "out.bin")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("data %q", data)
	}
}
