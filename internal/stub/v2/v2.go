// Package v2 implements the document handler for version 2 interface
// stub documents. Version 2 documents are always tagged, carry per-slice
// UUIDs and namespace flags, and record undefined symbols.
package v2

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stubkit/stubkit/internal/types"
)

// Tag is the document tag for this schema version.
const Tag = "!tapi-tbd-v2"

const (
	flagFlatNamespace   = "flat_namespace"
	flagNotAppExtension = "not_app_extension_safe"
)

type stubDoc struct {
	Archs          []string        `yaml:"archs"`
	UUIDs          []string        `yaml:"uuids,omitempty"`
	Platform       string          `yaml:"platform,omitempty"`
	Flags          []string        `yaml:"flags,omitempty"`
	InstallName    string          `yaml:"install-name"`
	CurrentVersion string          `yaml:"current-version,omitempty"`
	CompatVersion  string          `yaml:"compatibility-version,omitempty"`
	SwiftVersion   uint32          `yaml:"swift-version,omitempty"`
	ParentUmbrella string          `yaml:"parent-umbrella,omitempty"`
	Exports        []exportSection `yaml:"exports,omitempty"`
	Undefineds     []undefSection  `yaml:"undefineds,omitempty"`
}

type exportSection struct {
	Archs              []string `yaml:"archs"`
	AllowableClients   []string `yaml:"allowable-clients,omitempty"`
	Reexports          []string `yaml:"re-exports,omitempty"`
	Symbols            []string `yaml:"symbols,omitempty"`
	ObjCClasses        []string `yaml:"objc-classes,omitempty"`
	ObjCIvars          []string `yaml:"objc-ivars,omitempty"`
	WeakDefSymbols     []string `yaml:"weak-def-symbols,omitempty"`
	ThreadLocalSymbols []string `yaml:"thread-local-symbols,omitempty"`
}

type undefSection struct {
	Archs          []string `yaml:"archs"`
	Symbols        []string `yaml:"symbols,omitempty"`
	ObjCClasses    []string `yaml:"objc-classes,omitempty"`
	ObjCIvars      []string `yaml:"objc-ivars,omitempty"`
	WeakRefSymbols []string `yaml:"weak-ref-symbols,omitempty"`
}

// DocumentHandler reads and writes version 2 stub documents.
type DocumentHandler struct{}

// NewDocumentHandler returns the version 2 stub handler.
func NewDocumentHandler() *DocumentHandler {
	return &DocumentHandler{}
}

// Type returns the file type this handler assigns.
func (h *DocumentHandler) Type() types.FileType {
	return types.TypeStubV2
}

// CanRead claims only documents tagged with the v2 tag.
func (h *DocumentHandler) CanRead(doc *yaml.Node) bool {
	return doc.Kind == yaml.MappingNode && doc.Tag == Tag
}

// ReadDocument decodes a claimed document into a description.
func (h *DocumentHandler) ReadDocument(doc *yaml.Node, buf types.Buffer, _ types.ReadFlags, _ types.ArchitectureSet) (*types.File, error) {
	var sd stubDoc
	clone := *doc
	clone.Tag = "!!map"
	if err := clone.Decode(&sd); err != nil {
		return nil, &types.MalformedFileError{
			Path:   buf.Path,
			Reason: fmt.Sprintf("stub v2: %v", err),
		}
	}

	file := &types.File{
		Path:              buf.Path,
		Type:              types.TypeStubV2,
		Platform:          types.ParsePlatform(sd.Platform),
		InstallName:       sd.InstallName,
		SwiftVersion:      sd.SwiftVersion,
		ParentUmbrella:    sd.ParentUmbrella,
		TwoLevelNamespace: true,
		AppExtensionSafe:  true,
	}
	for _, f := range sd.Flags {
		switch f {
		case flagFlatNamespace:
			file.TwoLevelNamespace = false
		case flagNotAppExtension:
			file.AppExtensionSafe = false
		default:
			return nil, &types.MalformedFileError{
				Path:   buf.Path,
				Reason: fmt.Sprintf("stub v2: unknown flag %q", f),
			}
		}
	}

	archs, err := parseArchs(sd.Archs)
	if err != nil {
		return nil, &types.MalformedFileError{Path: buf.Path, Reason: "stub v2: " + err.Error()}
	}
	file.Archs = archs

	if file.CurrentVersion, err = parseVersion(sd.CurrentVersion); err != nil {
		return nil, &types.MalformedFileError{Path: buf.Path, Reason: "stub v2: " + err.Error()}
	}
	if file.CompatVersion, err = parseVersion(sd.CompatVersion); err != nil {
		return nil, &types.MalformedFileError{Path: buf.Path, Reason: "stub v2: " + err.Error()}
	}

	if len(sd.UUIDs) > 0 {
		file.UUIDs = make(map[types.Architecture]string, len(sd.UUIDs))
		for _, entry := range sd.UUIDs {
			arch, uuid, err := parseUUIDEntry(entry)
			if err != nil {
				return nil, &types.MalformedFileError{Path: buf.Path, Reason: "stub v2: " + err.Error()}
			}
			file.UUIDs[arch] = uuid
		}
	}

	for _, es := range sd.Exports {
		secArchs := archs
		if len(es.Archs) > 0 {
			if secArchs, err = parseArchs(es.Archs); err != nil {
				return nil, &types.MalformedFileError{Path: buf.Path, Reason: "stub v2: " + err.Error()}
			}
		}
		file.Exports = append(file.Exports, types.Section{
			Archs:            secArchs,
			AllowableClients: es.AllowableClients,
			Reexports:        es.Reexports,
			Symbols:          es.Symbols,
			ObjCClasses:      es.ObjCClasses,
			ObjCIvars:        es.ObjCIvars,
			WeakSymbols:      es.WeakDefSymbols,
			ThreadLocal:      es.ThreadLocalSymbols,
		})
	}

	for _, us := range sd.Undefineds {
		secArchs := archs
		if len(us.Archs) > 0 {
			if secArchs, err = parseArchs(us.Archs); err != nil {
				return nil, &types.MalformedFileError{Path: buf.Path, Reason: "stub v2: " + err.Error()}
			}
		}
		file.Undefineds = append(file.Undefineds, types.Section{
			Archs:       secArchs,
			Symbols:     us.Symbols,
			ObjCClasses: us.ObjCClasses,
			ObjCIvars:   us.ObjCIvars,
			WeakSymbols: us.WeakRefSymbols,
		})
	}

	return file, nil
}

// CanWrite claims descriptions of the v2 stub type.
func (h *DocumentHandler) CanWrite(file *types.File) bool {
	return file.Type == types.TypeStubV2
}

// WriteDocument renders a claimed description into a tagged document node.
func (h *DocumentHandler) WriteDocument(file *types.File) (*yaml.Node, error) {
	sd := stubDoc{
		Archs:          archNames(file.Archs),
		InstallName:    file.InstallName,
		SwiftVersion:   file.SwiftVersion,
		ParentUmbrella: file.ParentUmbrella,
	}
	if file.Platform != types.PlatformUnknown {
		sd.Platform = file.Platform.String()
	}
	if !file.TwoLevelNamespace {
		sd.Flags = append(sd.Flags, flagFlatNamespace)
	}
	if !file.AppExtensionSafe {
		sd.Flags = append(sd.Flags, flagNotAppExtension)
	}
	if file.CurrentVersion != 0 {
		sd.CurrentVersion = file.CurrentVersion.String()
	}
	if file.CompatVersion != 0 {
		sd.CompatVersion = file.CompatVersion.String()
	}
	for _, a := range file.Archs.Architectures() {
		if uuid, ok := file.UUIDs[a]; ok {
			sd.UUIDs = append(sd.UUIDs, fmt.Sprintf("%s: %s", a, uuid))
		}
	}
	for _, sec := range file.Exports {
		sd.Exports = append(sd.Exports, exportSection{
			Archs:              archNames(sec.Archs),
			AllowableClients:   sec.AllowableClients,
			Reexports:          sec.Reexports,
			Symbols:            sec.Symbols,
			ObjCClasses:        sec.ObjCClasses,
			ObjCIvars:          sec.ObjCIvars,
			WeakDefSymbols:     sec.WeakSymbols,
			ThreadLocalSymbols: sec.ThreadLocal,
		})
	}
	for _, sec := range file.Undefineds {
		sd.Undefineds = append(sd.Undefineds, undefSection{
			Archs:          archNames(sec.Archs),
			Symbols:        sec.Symbols,
			ObjCClasses:    sec.ObjCClasses,
			ObjCIvars:      sec.ObjCIvars,
			WeakRefSymbols: sec.WeakSymbols,
		})
	}

	var node yaml.Node
	if err := node.Encode(sd); err != nil {
		return nil, fmt.Errorf("render stub v2 document: %w", err)
	}
	node.Tag = Tag
	return &node, nil
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

// parseUUIDEntry splits an "arch: UUID" list entry.
func parseUUIDEntry(entry string) (types.Architecture, string, error) {
	arch, uuid, ok := strings.Cut(entry, ":")
	if !ok {
		return types.ArchUnknown, "", fmt.Errorf("invalid uuid entry %q", entry)
	}
	a := types.ParseArchitecture(strings.TrimSpace(arch))
	if a == types.ArchUnknown {
		return types.ArchUnknown, "", fmt.Errorf("invalid uuid entry %q: unknown architecture", entry)
	}
	return a, strings.TrimSpace(uuid), nil
}
