package types

import "strings"

// Architecture identifies a single CPU architecture slice.
type Architecture int

const (
	// ArchUnknown is an unrecognized architecture.
	ArchUnknown Architecture = iota
	// ArchI386 is 32-bit Intel.
	ArchI386
	// ArchX86_64 is 64-bit Intel.
	ArchX86_64
	// ArchARMV7 is 32-bit ARM v7.
	ArchARMV7
	// ArchARMV7S is 32-bit ARM v7s.
	ArchARMV7S
	// ArchARMV7K is 32-bit ARM v7k.
	ArchARMV7K
	// ArchARM64 is 64-bit ARM.
	ArchARM64
	// ArchARM64E is 64-bit ARM with pointer authentication.
	ArchARM64E

	archCount
)

var archNames = [...]string{
	ArchUnknown: "unknown",
	ArchI386:    "i386",
	ArchX86_64:  "x86_64",
	ArchARMV7:   "armv7",
	ArchARMV7S:  "armv7s",
	ArchARMV7K:  "armv7k",
	ArchARM64:   "arm64",
	ArchARM64E:  "arm64e",
}

// String returns the canonical architecture name.
func (a Architecture) String() string {
	if a < 0 || int(a) >= len(archNames) {
		return "unknown"
	}
	return archNames[a]
}

// ParseArchitecture maps a canonical name to an Architecture.
// Unrecognized names map to ArchUnknown.
func ParseArchitecture(name string) Architecture {
	for a, n := range archNames {
		if Architecture(a) != ArchUnknown && n == name {
			return Architecture(a)
		}
	}
	return ArchUnknown
}

// ArchitectureSet is a set of architectures.
type ArchitectureSet uint32

// AllArchitectures matches every architecture.
const AllArchitectures ArchitectureSet = ^ArchitectureSet(0)

// ArchSet builds a set from the given architectures.
func ArchSet(aa ...Architecture) ArchitectureSet {
	var s ArchitectureSet
	for _, a := range aa {
		s = s.Add(a)
	}
	return s
}

// Add returns the set with a added.
func (s ArchitectureSet) Add(a Architecture) ArchitectureSet {
	if a == ArchUnknown {
		return s
	}
	return s | 1<<uint(a)
}

// Has reports whether a is in the set.
func (s ArchitectureSet) Has(a Architecture) bool {
	return s&(1<<uint(a)) != 0
}

// Empty reports whether the set contains no architectures.
func (s ArchitectureSet) Empty() bool {
	return s&archMask() == 0
}

// Architectures lists the set's members in canonical order.
func (s ArchitectureSet) Architectures() []Architecture {
	var out []Architecture
	for a := ArchUnknown + 1; a < archCount; a++ {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// String renders the set as a space-separated list of names.
func (s ArchitectureSet) String() string {
	names := make([]string, 0, 4)
	for _, a := range s.Architectures() {
		names = append(names, a.String())
	}
	return strings.Join(names, " ")
}

func archMask() ArchitectureSet {
	var m ArchitectureSet
	for a := ArchUnknown + 1; a < archCount; a++ {
		m |= 1 << uint(a)
	}
	return m
}
