// Package v1 implements the document handler for version 1 interface
// stub documents.
package v1

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/stubkit/stubkit/internal/types"
)

// Tag is the document tag for this schema version. Version 1 documents
// may also be untagged; in that case the key shape is the dispatch cue.
const Tag = "!tapi-tbd-v1"

type stubDoc struct {
	Archs          []string        `yaml:"archs"`
	Platform       string          `yaml:"platform,omitempty"`
	InstallName    string          `yaml:"install-name"`
	CurrentVersion string          `yaml:"current-version,omitempty"`
	CompatVersion  string          `yaml:"compatibility-version,omitempty"`
	SwiftVersion   uint32          `yaml:"swift-version,omitempty"`
	Exports        []exportSection `yaml:"exports,omitempty"`
}

type exportSection struct {
	Archs              []string `yaml:"archs"`
	AllowedClients     []string `yaml:"allowed-clients,omitempty"`
	Reexports          []string `yaml:"re-exports,omitempty"`
	Symbols            []string `yaml:"symbols,omitempty"`
	ObjCClasses        []string `yaml:"objc-classes,omitempty"`
	ObjCIvars          []string `yaml:"objc-ivars,omitempty"`
	WeakDefSymbols     []string `yaml:"weak-def-symbols,omitempty"`
	ThreadLocalSymbols []string `yaml:"thread-local-symbols,omitempty"`
}

// DocumentHandler reads and writes version 1 stub documents.
type DocumentHandler struct{}

// NewDocumentHandler returns the version 1 stub handler.
func NewDocumentHandler() *DocumentHandler {
	return &DocumentHandler{}
}

// Type returns the file type this handler assigns.
func (h *DocumentHandler) Type() types.FileType {
	return types.TypeStubV1
}

// CanRead claims documents tagged with the v1 tag, and untagged mappings
// that carry the v1 key shape.
func (h *DocumentHandler) CanRead(doc *yaml.Node) bool {
	if doc.Kind != yaml.MappingNode {
		return false
	}
	switch doc.Tag {
	case Tag:
		return true
	case "", "!!map":
		return hasKey(doc, "archs") && hasKey(doc, "install-name")
	}
	return false
}

// ReadDocument decodes a claimed document into a description.
func (h *DocumentHandler) ReadDocument(doc *yaml.Node, buf types.Buffer, _ types.ReadFlags, _ types.ArchitectureSet) (*types.File, error) {
	var sd stubDoc
	if err := decodeMapping(doc, &sd); err != nil {
		return nil, &types.MalformedFileError{
			Path:   buf.Path,
			Reason: fmt.Sprintf("stub v1: %v", err),
		}
	}

	file := &types.File{
		Path:         buf.Path,
		Type:         types.TypeStubV1,
		Platform:     types.ParsePlatform(sd.Platform),
		InstallName:  sd.InstallName,
		SwiftVersion: sd.SwiftVersion,
	}

	archs, err := parseArchs(sd.Archs)
	if err != nil {
		return nil, &types.MalformedFileError{Path: buf.Path, Reason: err.Error()}
	}
	file.Archs = archs

	if file.CurrentVersion, err = parseVersion(sd.CurrentVersion); err != nil {
		return nil, &types.MalformedFileError{Path: buf.Path, Reason: err.Error()}
	}
	if file.CompatVersion, err = parseVersion(sd.CompatVersion); err != nil {
		return nil, &types.MalformedFileError{Path: buf.Path, Reason: err.Error()}
	}

	for _, es := range sd.Exports {
		sec, err := es.toSection(archs)
		if err != nil {
			return nil, &types.MalformedFileError{Path: buf.Path, Reason: err.Error()}
		}
		file.Exports = append(file.Exports, sec)
	}

	return file, nil
}

// CanWrite claims descriptions of the v1 stub type.
func (h *DocumentHandler) CanWrite(file *types.File) bool {
	return file.Type == types.TypeStubV1
}

// WriteDocument renders a claimed description into a tagged document node.
func (h *DocumentHandler) WriteDocument(file *types.File) (*yaml.Node, error) {
	sd := stubDoc{
		Archs:        archNames(file.Archs),
		InstallName:  file.InstallName,
		SwiftVersion: file.SwiftVersion,
	}
	if file.Platform != types.PlatformUnknown {
		sd.Platform = file.Platform.String()
	}
	if file.CurrentVersion != 0 {
		sd.CurrentVersion = file.CurrentVersion.String()
	}
	if file.CompatVersion != 0 {
		sd.CompatVersion = file.CompatVersion.String()
	}
	for _, sec := range file.Exports {
		sd.Exports = append(sd.Exports, exportFromSection(sec))
	}

	var node yaml.Node
	if err := node.Encode(sd); err != nil {
		return nil, fmt.Errorf("render stub v1 document: %w", err)
	}
	node.Tag = Tag
	return &node, nil
}

func (es exportSection) toSection(fallback types.ArchitectureSet) (types.Section, error) {
	archs := fallback
	if len(es.Archs) > 0 {
		var err error
		if archs, err = parseArchs(es.Archs); err != nil {
			return types.Section{}, err
		}
	}
	return types.Section{
		Archs:            archs,
		AllowableClients: es.AllowedClients,
		Reexports:        es.Reexports,
		Symbols:          es.Symbols,
		ObjCClasses:      es.ObjCClasses,
		ObjCIvars:        es.ObjCIvars,
		WeakSymbols:      es.WeakDefSymbols,
		ThreadLocal:      es.ThreadLocalSymbols,
	}, nil
}

func exportFromSection(sec types.Section) exportSection {
	return exportSection{
		Archs:              archNames(sec.Archs),
		AllowedClients:     sec.AllowableClients,
		Reexports:          sec.Reexports,
		Symbols:            sec.Symbols,
		ObjCClasses:        sec.ObjCClasses,
		ObjCIvars:          sec.ObjCIvars,
		WeakDefSymbols:     sec.WeakSymbols,
		ThreadLocalSymbols: sec.ThreadLocal,
	}
}

// decodeMapping decodes doc into v, ignoring any schema tag on the node.
func decodeMapping(doc *yaml.Node, v interface{}) error {
	clone := *doc
	clone.Tag = "!!map"
	return clone.Decode(v)
}

func parseArchs(names []string) (types.ArchitectureSet, error) {
	var set types.ArchitectureSet
	for _, name := range names {
		a := types.ParseArchitecture(name)
		if a == types.ArchUnknown {
			return 0, fmt.Errorf("unknown architecture %q", name)
		}
		set = set.Add(a)
	}
	return set, nil
}

func archNames(set types.ArchitectureSet) []string {
	var names []string
	for _, a := range set.Architectures() {
		names = append(names, a.String())
	}
	return names
}

func parseVersion(s string) (types.PackedVersion, error) {
	if s == "" {
		return 0, nil
	}
	return types.ParsePackedVersion(s)
}

func hasKey(doc *yaml.Node, key string) bool {
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value == key {
			return true
		}
	}
	return false
}
