package types

import (
	"fmt"
	"strconv"
	"strings"
)

// PackedVersion is an X.Y.Z version packed into 32 bits: 16 bits for the
// major component, 8 each for minor and patch. This is the encoding dynamic
// libraries carry for current and compatibility versions.
type PackedVersion uint32

// NewPackedVersion packs the three components. Out-of-range components
// saturate at their field width.
func NewPackedVersion(major, minor, patch uint32) PackedVersion {
	if major > 0xffff {
		major = 0xffff
	}
	if minor > 0xff {
		minor = 0xff
	}
	if patch > 0xff {
		patch = 0xff
	}
	return PackedVersion(major<<16 | minor<<8 | patch)
}

// Major returns the major component.
func (v PackedVersion) Major() uint32 { return uint32(v) >> 16 }

// Minor returns the minor component.
func (v PackedVersion) Minor() uint32 { return uint32(v) >> 8 & 0xff }

// Patch returns the patch component.
func (v PackedVersion) Patch() uint32 { return uint32(v) & 0xff }

// String renders the version in dotted form, omitting trailing zero
// components after the major.
func (v PackedVersion) String() string {
	if v.Patch() != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
	}
	if v.Minor() != 0 {
		return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
	}
	return strconv.FormatUint(uint64(v.Major()), 10)
}

// ParsePackedVersion parses "X", "X.Y", or "X.Y.Z".
func ParsePackedVersion(s string) (PackedVersion, error) {
	if s == "" {
		return 0, fmt.Errorf("empty version string")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid version %q: too many components", s)
	}
	var comps [3]uint32
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid version %q: %w", s, err)
		}
		comps[i] = uint32(n)
	}
	if comps[0] > 0xffff || comps[1] > 0xff || comps[2] > 0xff {
		return 0, fmt.Errorf("invalid version %q: component out of range", s)
	}
	return NewPackedVersion(comps[0], comps[1], comps[2]), nil
}
