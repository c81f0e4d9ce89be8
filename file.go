package stubkit

import (
	"github.com/stubkit/stubkit/internal/types"
)

// File is an alias to types.File, the in-memory description of a shared
// library's exported interface.
type File = types.File

// Section is an alias to types.Section.
type Section = types.Section

// Configuration is an alias to types.Configuration.
type Configuration = types.Configuration

// Buffer is an alias to types.Buffer, the in-memory file image handed to
// dispatch.
type Buffer = types.Buffer

// Architecture is an alias to types.Architecture.
type Architecture = types.Architecture

// Re-export all architecture constants.
const (
	ArchUnknown = types.ArchUnknown
	ArchI386    = types.ArchI386
	ArchX86_64  = types.ArchX86_64
	ArchARMV7   = types.ArchARMV7
	ArchARMV7S  = types.ArchARMV7S
	ArchARMV7K  = types.ArchARMV7K
	ArchARM64   = types.ArchARM64
	ArchARM64E  = types.ArchARM64E
)

// ArchitectureSet is an alias to types.ArchitectureSet.
type ArchitectureSet = types.ArchitectureSet

// AllArchitectures matches every architecture.
const AllArchitectures = types.AllArchitectures

// ArchSet builds a set from the given architectures.
func ArchSet(aa ...Architecture) ArchitectureSet {
	return types.ArchSet(aa...)
}

// ParseArchitecture maps a canonical name to an Architecture.
func ParseArchitecture(name string) Architecture {
	return types.ParseArchitecture(name)
}

// Platform is an alias to types.Platform.
type Platform = types.Platform

// Re-export all platform constants.
const (
	PlatformUnknown = types.PlatformUnknown
	PlatformMacOS   = types.PlatformMacOS
	PlatformIOS     = types.PlatformIOS
	PlatformWatchOS = types.PlatformWatchOS
	PlatformTVOS    = types.PlatformTVOS
)

// ParsePlatform maps a canonical name to a Platform.
func ParsePlatform(name string) Platform {
	return types.ParsePlatform(name)
}

// PackedVersion is an alias to types.PackedVersion.
type PackedVersion = types.PackedVersion

// NewPackedVersion packs an X.Y.Z version into 32 bits.
func NewPackedVersion(major, minor, patch uint32) PackedVersion {
	return types.NewPackedVersion(major, minor, patch)
}

// ParsePackedVersion parses "X", "X.Y", or "X.Y.Z".
func ParsePackedVersion(s string) (PackedVersion, error) {
	return types.ParsePackedVersion(s)
}

// ReadFlags is an alias to types.ReadFlags.
type ReadFlags = types.ReadFlags

// Re-export all read flags.
const (
	ReadSymbols      = types.ReadSymbols
	ReadObjCMetadata = types.ReadObjCMetadata
	ReadAll          = types.ReadAll
)
