package types

import "bytes"

// Magic is a cheap classification of a buffer's leading bytes. It is
// computed once per buffer and used to pre-filter candidate readers
// before any full parse runs.
type Magic int

const (
	// MagicUnknown means the leading bytes match no known container.
	MagicUnknown Magic = iota
	// MagicMachO is a thin Mach-O file (either endianness, 32 or 64 bit).
	MagicMachO
	// MagicMachOFat is a universal (multi-architecture) Mach-O file.
	MagicMachOFat
	// MagicYAMLDocument is a text buffer opening with a YAML document marker.
	MagicYAMLDocument
)

// String returns a human-readable name for the magic classification.
func (m Magic) String() string {
	switch m {
	case MagicMachO:
		return "Mach-O"
	case MagicMachOFat:
		return "Mach-O universal"
	case MagicYAMLDocument:
		return "YAML document"
	default:
		return "unknown"
	}
}

// Mach-O header magics, both byte orders.
const (
	machoMagic32     = 0xfeedface
	machoMagic64     = 0xfeedfacf
	machoFatMagic    = 0xcafebabe
	machoMagic32Swap = 0xcefaedfe
	machoMagic64Swap = 0xcffaedfe
	machoFatSwap     = 0xbebafeca
)

var yamlDocMarker = []byte("---")

// IdentifyMagic classifies the leading bytes of data. Identical buffers
// always yield identical results; the function reads nothing beyond the
// first four bytes.
func IdentifyMagic(data []byte) Magic {
	if len(data) < 4 {
		return MagicUnknown
	}

	if bytes.HasPrefix(data, yamlDocMarker) {
		return MagicYAMLDocument
	}

	be := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	switch be {
	case machoMagic32, machoMagic64, machoMagic32Swap, machoMagic64Swap:
		return MagicMachO
	case machoFatMagic, machoFatSwap:
		return MagicMachOFat
	}

	return MagicUnknown
}
