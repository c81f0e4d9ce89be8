// Package v1 implements the document handler for version 1 API
// description documents. The schema mirrors the stub schemas but
// describes the interface as declared in headers rather than as linked.
package v1

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/stubkit/stubkit/internal/types"
)

// Tag is the document tag for this schema version.
const Tag = "!tapi-api-v1"

type apiDoc struct {
	Archs          []string     `yaml:"archs"`
	Platform       string       `yaml:"platform,omitempty"`
	InstallName    string       `yaml:"install-name"`
	CurrentVersion string       `yaml:"current-version,omitempty"`
	CompatVersion  string       `yaml:"compatibility-version,omitempty"`
	SwiftVersion   uint32       `yaml:"swift-version,omitempty"`
	Globals        []apiSection `yaml:"globals,omitempty"`
	Interfaces     []apiSection `yaml:"interfaces,omitempty"`
}

type apiSection struct {
	Archs  []string `yaml:"archs"`
	Access string   `yaml:"access,omitempty"`
	Names  []string `yaml:"names,omitempty"`
}

// DocumentHandler reads and writes version 1 API description documents.
type DocumentHandler struct{}

// NewDocumentHandler returns the version 1 API description handler.
func NewDocumentHandler() *DocumentHandler {
	return &DocumentHandler{}
}

// Type returns the file type this handler assigns.
func (h *DocumentHandler) Type() types.FileType {
	return types.TypeAPIV1
}

// CanRead claims only documents tagged with the API v1 tag.
func (h *DocumentHandler) CanRead(doc *yaml.Node) bool {
	return doc.Kind == yaml.MappingNode && doc.Tag == Tag
}

// ReadDocument decodes a claimed document into a description. Globals
// map to export symbol sections, interfaces to Objective-C class
// sections.
func (h *DocumentHandler) ReadDocument(doc *yaml.Node, buf types.Buffer, _ types.ReadFlags, _ types.ArchitectureSet) (*types.File, error) {
	var ad apiDoc
	clone := *doc
	clone.Tag = "!!map"
	if err := clone.Decode(&ad); err != nil {
		return nil, &types.MalformedFileError{
			Path:   buf.Path,
			Reason: fmt.Sprintf("api v1: %v", err),
		}
	}

	file := &types.File{
		Path:         buf.Path,
		Type:         types.TypeAPIV1,
		Platform:     types.ParsePlatform(ad.Platform),
		InstallName:  ad.InstallName,
		SwiftVersion: ad.SwiftVersion,
	}

	archs, err := parseArchs(ad.Archs)
	if err != nil {
		return nil, &types.MalformedFileError{Path: buf.Path, Reason: "api v1: " + err.Error()}
	}
	file.Archs = archs

	if file.CurrentVersion, err = parseVersion(ad.CurrentVersion); err != nil {
		return nil, &types.MalformedFileError{Path: buf.Path, Reason: "api v1: " + err.Error()}
	}
	if file.CompatVersion, err = parseVersion(ad.CompatVersion); err != nil {
		return nil, &types.MalformedFileError{Path: buf.Path, Reason: "api v1: " + err.Error()}
	}

	for _, gs := range ad.Globals {
		sec, err := gs.toSection(archs)
		if err != nil {
			return nil, &types.MalformedFileError{Path: buf.Path, Reason: "api v1: " + err.Error()}
		}
		sec.Symbols = gs.Names
		file.Exports = append(file.Exports, sec)
	}
	for _, is := range ad.Interfaces {
		sec, err := is.toSection(archs)
		if err != nil {
			return nil, &types.MalformedFileError{Path: buf.Path, Reason: "api v1: " + err.Error()}
		}
		sec.ObjCClasses = is.Names
		file.Exports = append(file.Exports, sec)
	}

	return file, nil
}

// CanWrite claims descriptions of the API v1 type.
func (h *DocumentHandler) CanWrite(file *types.File) bool {
	return file.Type == types.TypeAPIV1
}

// WriteDocument renders a claimed description into a tagged document node.
func (h *DocumentHandler) WriteDocument(file *types.File) (*yaml.Node, error) {
	ad := apiDoc{
		Archs:        archNames(file.Archs),
		InstallName:  file.InstallName,
		SwiftVersion: file.SwiftVersion,
	}
	if file.Platform != types.PlatformUnknown {
		ad.Platform = file.Platform.String()
	}
	if file.CurrentVersion != 0 {
		ad.CurrentVersion = file.CurrentVersion.String()
	}
	if file.CompatVersion != 0 {
		ad.CompatVersion = file.CompatVersion.String()
	}
	for _, sec := range file.Exports {
		if len(sec.Symbols) > 0 {
			ad.Globals = append(ad.Globals, apiSection{
				Archs: archNames(sec.Archs),
				Names: sec.Symbols,
			})
		}
		if len(sec.ObjCClasses) > 0 {
			ad.Interfaces = append(ad.Interfaces, apiSection{
				Archs: archNames(sec.Archs),
				Names: sec.ObjCClasses,
			})
		}
	}

	var node yaml.Node
	if err := node.Encode(ad); err != nil {
		return nil, fmt.Errorf("render api v1 document: %w", err)
	}
	node.Tag = Tag
	return &node, nil
}

func (s apiSection) toSection(fallback types.ArchitectureSet) (types.Section, error) {
	archs := fallback
	if len(s.Archs) > 0 {
		var err error
		if archs, err = parseArchs(s.Archs); err != nil {
			return types.Section{}, err
		}
	}
	return types.Section{Archs: archs}, nil
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
