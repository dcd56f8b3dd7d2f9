package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestDialectByName(t *testing.T) {
	for _, name := range ListDialects() {
		d, err := DialectByName(name)
		if err != nil {
			t.Fatalf("DialectByName(%q): %v", name, err)
		}
		if err := d.Validate(); err != nil {
			t.Errorf("preset %q is invalid: %v", name, err)
		}
	}
	if _, err := DialectByName("nope"); err == nil {
		t.Errorf("expected error for unknown dialect")
	}
}

func TestDialectValidate(t *testing.T) {
	d := DialectDefault
	d.Stride = 24
	if err := d.Validate(); err == nil {
		t.Errorf("stride 24 accepted")
	}
	if err := SetDialect(d); err == nil {
		t.Errorf("SetDialect accepted stride 24")
	}
	if GetDialect().Stride != DialectDefault.Stride {
		t.Errorf("invalid dialect replaced the current one")
	}
}

func TestLoadSettings(t *testing.T) {
	dir, err := ioutil.TempDir("", "scsettings")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "settings.yaml")
	data := []byte("addr: \":9000\"\ndialect: stride16\nblueprint:\n  quote_aware_comments: true\n")
	if err := ioutil.WriteFile(path, data, 0666); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Addr != ":9000" || s.Dialect != "stride16" || !s.Blueprint.QuoteAwareComments {
		t.Errorf("unexpected settings %+v", s)
	}
	if s.Encoding != GetEncoding().String() {
		t.Errorf("default encoding lost: %q", s.Encoding)
	}

	defer SetDialect(DialectDefault)
	defer SetBlueprintSettings(BlueprintSettings{})
	if err := s.Apply(); err != nil {
		t.Fatal(err)
	}
	if GetDialect().Stride != 16 {
		t.Errorf("Apply did not switch dialect: %+v", GetDialect())
	}
	if !GetBlueprintSettings().QuoteAwareComments {
		t.Errorf("Apply did not set blueprint settings")
	}
}

func TestSetEncoding(t *testing.T) {
	defer SetEncoding(GetEncoding().String())
	if err := SetEncoding("unknown-cp"); err == nil {
		t.Errorf("unknown encoding accepted")
	}
	names := ListEncodings()
	if len(names) == 0 {
		t.Fatal("no encodings listed")
	}
	if err := SetEncoding(names[0]); err != nil {
		t.Errorf("SetEncoding(%q): %v", names[0], err)
	}
}
