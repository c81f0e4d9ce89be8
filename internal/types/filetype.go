package types

// FileType identifies a concrete, versioned interface file format.
type FileType int

const (
	// TypeInvalid represents an unrecognized or unsupported format.
	TypeInvalid FileType = iota
	// TypeMachODylib represents a Mach-O dynamic library (thin or universal).
	TypeMachODylib
	// TypeStubV1 represents a version 1 interface stub document.
	TypeStubV1
	// TypeStubV2 represents a version 2 interface stub document.
	TypeStubV2
	// TypeAPIV1 represents a version 1 API description document.
	TypeAPIV1
	// TypeConfigurationV1 represents a version 1 configuration document.
	TypeConfigurationV1
	// TypeReexport represents a linker re-export list.
	TypeReexport
)

// String returns a human-readable name for the file type.
func (t FileType) String() string {
	switch t {
	case TypeMachODylib:
		return "Mach-O dylib"
	case TypeStubV1:
		return "stub v1"
	case TypeStubV2:
		return "stub v2"
	case TypeAPIV1:
		return "api v1"
	case TypeConfigurationV1:
		return "configuration v1"
	case TypeReexport:
		return "re-export list"
	default:
		return "Invalid"
	}
}

// Extensions returns common file extensions for this format.
func (t FileType) Extensions() []string {
	switch t {
	case TypeMachODylib:
		return []string{".dylib"}
	case TypeStubV1, TypeStubV2:
		return []string{".tbd"}
	case TypeAPIV1:
		return []string{".api"}
	case TypeConfigurationV1:
		return []string{".yaml", ".yml"}
	case TypeReexport:
		return []string{".exp"}
	default:
		return nil
	}
}

// FileTypeSet is a set of file types, used to restrict which formats a
// read operation may match.
type FileTypeSet uint32

// AllTypes matches every registered format.
const AllTypes FileTypeSet = ^FileTypeSet(0)

// TypeSet builds a set from the given file types.
func TypeSet(tt ...FileType) FileTypeSet {
	var s FileTypeSet
	for _, t := range tt {
		s |= 1 << uint(t)
	}
	return s
}

// Has reports whether t is in the set.
func (s FileTypeSet) Has(t FileType) bool {
	return s&(1<<uint(t)) != 0
}
