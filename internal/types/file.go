// Package types provides the core data structures for interface file
// descriptions.
//
// This package defines the FileType, Magic, Architecture, and File types
// that represent a shared library's exported interface across all
// supported on-disk formats.
package types

// Platform identifies the deployment platform a library targets.
type Platform int

const (
	// PlatformUnknown is an unrecognized platform.
	PlatformUnknown Platform = iota
	// PlatformMacOS targets macOS.
	PlatformMacOS
	// PlatformIOS targets iOS.
	PlatformIOS
	// PlatformWatchOS targets watchOS.
	PlatformWatchOS
	// PlatformTVOS targets tvOS.
	PlatformTVOS
)

var platformNames = [...]string{
	PlatformUnknown: "unknown",
	PlatformMacOS:   "macosx",
	PlatformIOS:     "ios",
	PlatformWatchOS: "watchos",
	PlatformTVOS:    "tvos",
}

// String returns the canonical platform name.
func (p Platform) String() string {
	if p < 0 || int(p) >= len(platformNames) {
		return "unknown"
	}
	return platformNames[p]
}

// ParsePlatform maps a canonical name to a Platform.
// Unrecognized names map to PlatformUnknown.
func ParsePlatform(name string) Platform {
	for p, n := range platformNames {
		if Platform(p) != PlatformUnknown && n == name {
			return Platform(p)
		}
	}
	return PlatformUnknown
}

// ReadFlags controls how much of a file a reader decodes. Flags are
// passed through dispatch unmodified; each reader honors the flags it
// understands.
type ReadFlags uint32

const (
	// ReadSymbols requests the exported and undefined symbol lists.
	ReadSymbols ReadFlags = 1 << iota
	// ReadObjCMetadata requests Objective-C class and ivar lists.
	ReadObjCMetadata

	// ReadAll requests everything a reader can decode.
	ReadAll = ReadSymbols | ReadObjCMetadata
)

// Buffer is an in-memory file image together with the path it was loaded
// from. The path is carried for error reporting and for the File result;
// the registry never touches the filesystem through it.
type Buffer struct {
	Path string
	Data []byte
}

// Section groups symbols that share an architecture subset. A File carries
// one Section per distinct architecture grouping in its export (and, for
// formats that record them, undefined) lists.
type Section struct {
	Archs ArchitectureSet

	AllowableClients []string
	Reexports        []string
	Symbols          []string
	ObjCClasses      []string
	ObjCIvars        []string
	WeakSymbols      []string
	ThreadLocal      []string
}

// Configuration carries the project-level settings a configuration
// document records. Only configuration files populate it.
type Configuration struct {
	Version        string
	Macros         []string
	IncludePaths   []string
	FrameworkPaths []string
	PublicHeaders  []string
}

// File is the in-memory description of a shared library's exported
// interface, produced by a reader and consumed by writers.
type File struct {
	// Path the description was read from, or the path a path-form write
	// will create.
	Path string

	// Type is the concrete format the description was read from, or the
	// format a writer should emit.
	Type FileType

	Archs    ArchitectureSet
	Platform Platform

	InstallName    string
	CurrentVersion PackedVersion
	CompatVersion  PackedVersion

	SwiftVersion uint32
	UUIDs        map[Architecture]string

	TwoLevelNamespace bool
	AppExtensionSafe  bool
	ParentUmbrella    string

	Exports    []Section
	Undefineds []Section

	// Config is set only for configuration documents.
	Config *Configuration
}

// ExportedSymbols flattens the export sections into a single deduplicated
// symbol list, in first-seen order.
func (f *File) ExportedSymbols() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range f.Exports {
		for _, name := range s.Symbols {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
