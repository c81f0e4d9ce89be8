package v1

import (
	"errors"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/stubkit/stubkit/internal/types"
)

func parseDoc(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(src), &node); err != nil {
		t.Fatalf("parsing test document: %v", err)
	}
	if node.Kind == yaml.DocumentNode {
		return node.Content[0]
	}
	return &node
}

const sampleDoc = `--- !tapi-configuration-v1
version: "1"
platform: macosx
macros: [ -DNDEBUG ]
include-paths: [ /usr/local/include ]
framework-paths: [ /Library/Frameworks ]
public-headers: [ Sample.h ]
`

func TestCanRead(t *testing.T) {
	h := NewDocumentHandler()

	if !h.CanRead(parseDoc(t, sampleDoc)) {
		t.Error("CanRead() = false for configuration document")
	}
	if h.CanRead(parseDoc(t, "--- !tapi-tbd-v2\narchs: [ arm64 ]\n")) {
		t.Error("CanRead() = true for stub document")
	}
}

func TestReadDocument(t *testing.T) {
	h := NewDocumentHandler()
	buf := types.Buffer{Path: "project.yaml", Data: []byte(sampleDoc)}

	file, err := h.ReadDocument(parseDoc(t, sampleDoc), buf, types.ReadAll, types.AllArchitectures)
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}

	if file.Type != types.TypeConfigurationV1 {
		t.Errorf("Type = %v, want %v", file.Type, types.TypeConfigurationV1)
	}
	if file.Platform != types.PlatformMacOS {
		t.Errorf("Platform = %v, want macosx", file.Platform)
	}
	if file.Config == nil {
		t.Fatal("Config = nil")
	}
	if file.Config.Version != "1" {
		t.Errorf("Config.Version = %q", file.Config.Version)
	}
	if len(file.Config.Macros) != 1 || file.Config.Macros[0] != "-DNDEBUG" {
		t.Errorf("Config.Macros = %v", file.Config.Macros)
	}
	if len(file.Config.PublicHeaders) != 1 || file.Config.PublicHeaders[0] != "Sample.h" {
		t.Errorf("Config.PublicHeaders = %v", file.Config.PublicHeaders)
	}
}

func TestConfigurationIsReadOnly(t *testing.T) {
	h := NewDocumentHandler()

	if h.CanWrite(&types.File{Type: types.TypeConfigurationV1}) {
		t.Error("CanWrite() = true, configuration documents are read-only")
	}

	_, err := h.WriteDocument(&types.File{Type: types.TypeConfigurationV1})
	var uwe *types.UnsupportedWriteError
	if !errors.As(err, &uwe) {
		t.Fatalf("WriteDocument() error = %v, want UnsupportedWriteError", err)
	}
}
