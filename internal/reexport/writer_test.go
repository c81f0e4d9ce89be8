package reexport

import (
	"bytes"
	"testing"

	"github.com/stubkit/stubkit/internal/types"
)

func TestCanWrite(t *testing.T) {
	w := NewFileWriter()

	if !w.CanWrite(&types.File{Type: types.TypeReexport}) {
		t.Error("CanWrite() = false for re-export description")
	}
	if w.CanWrite(&types.File{Type: types.TypeStubV1}) {
		t.Error("CanWrite() = true for stub description")
	}
	if w.CanWrite(&types.File{Type: types.TypeMachODylib}) {
		t.Error("CanWrite() = true for dylib description")
	}
}

func TestWriteFile(t *testing.T) {
	w := NewFileWriter()
	file := &types.File{
		Type:        types.TypeReexport,
		InstallName: "/usr/lib/libsample.dylib",
		Exports: []types.Section{
			{Symbols: []string{"_alpha", "_beta"}, WeakSymbols: []string{"_gamma"}},
			{Symbols: []string{"_beta", "_delta"}},
		},
	}

	var out bytes.Buffer
	if err := w.WriteFile(&out, file); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	want := "# re-exported from /usr/lib/libsample.dylib\n" +
		"_alpha\n_beta\n_delta\n"
	if out.String() != want {
		t.Errorf("WriteFile() output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestWriteFile_NoInstallName(t *testing.T) {
	w := NewFileWriter()
	file := &types.File{
		Type:    types.TypeReexport,
		Exports: []types.Section{{Symbols: []string{"_only"}}},
	}

	var out bytes.Buffer
	if err := w.WriteFile(&out, file); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if out.String() != "_only\n" {
		t.Errorf("WriteFile() output = %q, want %q", out.String(), "_only\n")
	}
}
