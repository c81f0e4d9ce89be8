package v2

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

const sampleDoc = `--- !tapi-tbd-v2
archs: [ x86_64, arm64 ]
uuids: [ 'x86_64: 11111111-2222-3333-4444-555555555555', 'arm64: 66666666-7777-8888-9999-000000000000' ]
platform: macosx
flags: [ flat_namespace ]
install-name: /usr/lib/libsample.dylib
current-version: 2.1
compatibility-version: 2.0
swift-version: 4
parent-umbrella: Sample
exports:
  - archs: [ x86_64, arm64 ]
    allowable-clients: [ ClientA, ClientB ]
    symbols: [ _sample_init ]
    thread-local-symbols: [ _sample_tls ]
undefineds:
  - archs: [ x86_64 ]
    symbols: [ _external_dep ]
`

func TestCanRead(t *testing.T) {
	h := NewDocumentHandler()

	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{"tagged", "--- !tapi-tbd-v2\narchs: [ arm64 ]\n", true},
		{"v1 tag", "--- !tapi-tbd-v1\narchs: [ arm64 ]\n", false},
		{"untagged", "---\narchs: [ arm64 ]\ninstall-name: /usr/lib/libx.dylib\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.CanRead(parseDoc(t, tt.doc)); got != tt.want {
				t.Errorf("CanRead() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadDocument(t *testing.T) {
	h := NewDocumentHandler()
	buf := types.Buffer{Path: "libsample.tbd", Data: []byte(sampleDoc)}

	file, err := h.ReadDocument(parseDoc(t, sampleDoc), buf, types.ReadAll, types.AllArchitectures)
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}

	if file.Type != types.TypeStubV2 {
		t.Errorf("Type = %v, want %v", file.Type, types.TypeStubV2)
	}
	if file.Platform != types.PlatformMacOS {
		t.Errorf("Platform = %v, want macosx", file.Platform)
	}
	if file.TwoLevelNamespace {
		t.Error("TwoLevelNamespace = true, want false (flat_namespace flag)")
	}
	if !file.AppExtensionSafe {
		t.Error("AppExtensionSafe = false, want true (flag absent)")
	}
	if file.ParentUmbrella != "Sample" {
		t.Errorf("ParentUmbrella = %q", file.ParentUmbrella)
	}
	if want := types.NewPackedVersion(2, 1, 0); file.CurrentVersion != want {
		t.Errorf("CurrentVersion = %v, want %v", file.CurrentVersion, want)
	}

	if got := file.UUIDs[types.ArchX86_64]; got != "11111111-2222-3333-4444-555555555555" {
		t.Errorf("x86_64 uuid = %q", got)
	}
	if got := file.UUIDs[types.ArchARM64]; got != "66666666-7777-8888-9999-000000000000" {
		t.Errorf("arm64 uuid = %q", got)
	}

	if len(file.Exports) != 1 {
		t.Fatalf("len(Exports) = %d, want 1", len(file.Exports))
	}
	sec := file.Exports[0]
	if len(sec.AllowableClients) != 2 {
		t.Errorf("allowable clients = %v", sec.AllowableClients)
	}
	if len(sec.ThreadLocal) != 1 || sec.ThreadLocal[0] != "_sample_tls" {
		t.Errorf("thread-local symbols = %v", sec.ThreadLocal)
	}

	if len(file.Undefineds) != 1 {
		t.Fatalf("len(Undefineds) = %d, want 1", len(file.Undefineds))
	}
	if file.Undefineds[0].Archs != types.ArchSet(types.ArchX86_64) {
		t.Errorf("undefineds archs = %v", file.Undefineds[0].Archs)
	}
}

func TestReadDocument_UnknownFlag(t *testing.T) {
	doc := "--- !tapi-tbd-v2\narchs: [ arm64 ]\nflags: [ bogus_flag ]\ninstall-name: /usr/lib/libz.dylib\n"
	h := NewDocumentHandler()

	_, err := h.ReadDocument(parseDoc(t, doc), types.Buffer{Path: "libz.tbd"}, types.ReadAll, types.AllArchitectures)
	var mfe *types.MalformedFileError
	if !errors.As(err, &mfe) {
		t.Fatalf("ReadDocument() error = %v, want MalformedFileError", err)
	}
}

func TestReadDocument_BadUUIDEntry(t *testing.T) {
	doc := "--- !tapi-tbd-v2\narchs: [ arm64 ]\nuuids: [ 'no-separator-here' ]\ninstall-name: /usr/lib/libz.dylib\n"
	h := NewDocumentHandler()

	_, err := h.ReadDocument(parseDoc(t, doc), types.Buffer{Path: "libz.tbd"}, types.ReadAll, types.AllArchitectures)
	var mfe *types.MalformedFileError
	if !errors.As(err, &mfe) {
		t.Fatalf("ReadDocument() error = %v, want MalformedFileError", err)
	}
}

func TestWriteDocument_RoundTrip(t *testing.T) {
	h := NewDocumentHandler()
	buf := types.Buffer{Path: "libsample.tbd", Data: []byte(sampleDoc)}

	original, err := h.ReadDocument(parseDoc(t, sampleDoc), buf, types.ReadAll, types.AllArchitectures)
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}

	node, err := h.WriteDocument(original)
	if err != nil {
		t.Fatalf("WriteDocument() error = %v", err)
	}
	if node.Tag != Tag {
		t.Errorf("document tag = %q, want %q", node.Tag, Tag)
	}

	reread, err := h.ReadDocument(node, buf, types.ReadAll, types.AllArchitectures)
	if err != nil {
		t.Fatalf("re-reading rendered document: %v", err)
	}

	if reread.InstallName != original.InstallName ||
		reread.Archs != original.Archs ||
		reread.Platform != original.Platform ||
		reread.TwoLevelNamespace != original.TwoLevelNamespace ||
		reread.AppExtensionSafe != original.AppExtensionSafe ||
		reread.ParentUmbrella != original.ParentUmbrella ||
		reread.SwiftVersion != original.SwiftVersion {
		t.Errorf("round trip changed header fields")
	}
	if len(reread.UUIDs) != len(original.UUIDs) {
		t.Errorf("round trip changed uuid count: %d vs %d", len(reread.UUIDs), len(original.UUIDs))
	}
	if len(reread.Undefineds) != len(original.Undefineds) {
		t.Errorf("round trip changed undefineds count")
	}
}

func TestCanWrite(t *testing.T) {
	h := NewDocumentHandler()
	if !h.CanWrite(&types.File{Type: types.TypeStubV2}) {
		t.Error("CanWrite() = false for v2 description")
	}
	if h.CanWrite(&types.File{Type: types.TypeStubV1}) {
		t.Error("CanWrite() = true for v1 description")
	}
}
