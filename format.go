package stubkit

import (
	"github.com/stubkit/stubkit/internal/types"
)

// FileType is an alias to types.FileType.
// Re-exporting from internal/types keeps the public API on one import.
type FileType = types.FileType

// Re-export all file type constants.
const (
	TypeInvalid         = types.TypeInvalid
	TypeMachODylib      = types.TypeMachODylib
	TypeStubV1          = types.TypeStubV1
	TypeStubV2          = types.TypeStubV2
	TypeAPIV1           = types.TypeAPIV1
	TypeConfigurationV1 = types.TypeConfigurationV1
	TypeReexport        = types.TypeReexport
)

// FileTypeSet is an alias to types.FileTypeSet.
type FileTypeSet = types.FileTypeSet

// AllTypes matches every registered format.
const AllTypes = types.AllTypes

// TypeSet builds a set from the given file types.
func TypeSet(tt ...FileType) FileTypeSet {
	return types.TypeSet(tt...)
}

// Magic is an alias to types.Magic.
type Magic = types.Magic

// Re-export all magic classifications.
const (
	MagicUnknown      = types.MagicUnknown
	MagicMachO        = types.MagicMachO
	MagicMachOFat     = types.MagicMachOFat
	MagicYAMLDocument = types.MagicYAMLDocument
)

// IdentifyMagic classifies the leading bytes of a buffer. The registry
// calls this once per dispatch; it is exposed for callers that want to
// pre-filter inputs themselves.
func IdentifyMagic(data []byte) Magic {
	return types.IdentifyMagic(data)
}
