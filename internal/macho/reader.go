// Package macho implements the binary reader for Mach-O dynamic
// libraries, thin and universal, on top of debug/macho.
package macho

import (
	"bytes"
	"debug/macho"
	"encoding/binary"
	"fmt"

	"github.com/stubkit/stubkit/internal/types"
)

// Load commands and header bits debug/macho does not decode for us.
const (
	lcIDDylib       = 0xd
	lcReexportDylib = 0x8000001f
	lcVersionMacOS  = 0x24
	lcVersionIOS    = 0x25
	lcVersionTVOS   = 0x2f
	lcVersionWatch  = 0x30
	lcBuildVersion  = 0x32

	mhTwoLevel         = 0x80
	mhAppExtensionSafe = 0x02000000

	nStab    = 0xe0
	nExt     = 0x01
	nType    = 0x0e
	nWeakDef = 0x0080
)

// Build-version platform identifiers.
const (
	platformMacOS   = 1
	platformIOS     = 2
	platformTVOS    = 3
	platformWatchOS = 4
)

// DylibReader reads Mach-O dynamic libraries into descriptions.
type DylibReader struct{}

// NewDylibReader returns the Mach-O dylib reader.
func NewDylibReader() *DylibReader {
	return &DylibReader{}
}

// CanRead claims buffers with a Mach-O magic whose header, when enough of
// it is present, records the dylib file type. A truncated header is still
// claimed: the magic is this reader's, and ReadFile reports the real
// failure.
func (r *DylibReader) CanRead(magic types.Magic, buf types.Buffer, allowed types.FileTypeSet) bool {
	if !allowed.Has(types.TypeMachODylib) {
		return false
	}
	switch magic {
	case types.MagicMachO:
		ft, ok := thinFileType(buf.Data)
		return !ok || ft == uint32(macho.TypeDylib)
	case types.MagicMachOFat:
		return true
	}
	return false
}

// FileType probes the header. Non-dylib Mach-O files report TypeInvalid
// without error; a Mach-O magic over a broken header is a detection
// failure and propagates.
func (r *DylibReader) FileType(magic types.Magic, buf types.Buffer) (types.FileType, error) {
	switch magic {
	case types.MagicMachO:
		ft, ok := thinFileType(buf.Data)
		if !ok {
			return types.TypeInvalid, &types.MalformedFileError{
				Path:   buf.Path,
				Reason: "truncated Mach-O header",
			}
		}
		if ft == uint32(macho.TypeDylib) {
			return types.TypeMachODylib, nil
		}
		return types.TypeInvalid, nil
	case types.MagicMachOFat:
		ff, err := macho.NewFatFile(bytes.NewReader(buf.Data))
		if err != nil {
			return types.TypeInvalid, &types.MalformedFileError{
				Path:   buf.Path,
				Reason: fmt.Sprintf("invalid universal file: %v", err),
			}
		}
		defer ff.Close()
		for _, arch := range ff.Arches {
			if arch.Type != macho.TypeDylib {
				return types.TypeInvalid, nil
			}
		}
		return types.TypeMachODylib, nil
	}
	return types.TypeInvalid, nil
}

// ReadFile decodes a claimed buffer into a description. For universal
// files only the slices in archs are decoded; a universal file holding
// none of them is a malformed input from this reader's point of view,
// not an unsupported format.
func (r *DylibReader) ReadFile(buf types.Buffer, flags types.ReadFlags, archs types.ArchitectureSet) (*types.File, error) {
	file := &types.File{
		Path: buf.Path,
		Type: types.TypeMachODylib,
	}

	switch types.IdentifyMagic(buf.Data) {
	case types.MagicMachO:
		f, err := macho.NewFile(bytes.NewReader(buf.Data))
		if err != nil {
			return nil, &types.MalformedFileError{
				Path:   buf.Path,
				Reason: fmt.Sprintf("invalid Mach-O file: %v", err),
			}
		}
		defer f.Close()
		arch := archFromCpu(f.Cpu, f.SubCpu)
		if !archs.Has(arch) {
			return nil, &types.MalformedFileError{
				Path:   buf.Path,
				Reason: fmt.Sprintf("file does not contain a requested architecture (found %s)", arch),
			}
		}
		if err := r.readSlice(f, arch, file, flags); err != nil {
			return nil, err
		}

	case types.MagicMachOFat:
		ff, err := macho.NewFatFile(bytes.NewReader(buf.Data))
		if err != nil {
			return nil, &types.MalformedFileError{
				Path:   buf.Path,
				Reason: fmt.Sprintf("invalid universal file: %v", err),
			}
		}
		defer ff.Close()
		matched := false
		for _, fa := range ff.Arches {
			arch := archFromCpu(fa.Cpu, fa.SubCpu)
			if !archs.Has(arch) {
				continue
			}
			matched = true
			if err := r.readSlice(fa.File, arch, file, flags); err != nil {
				return nil, err
			}
		}
		if !matched {
			return nil, &types.MalformedFileError{
				Path:   buf.Path,
				Reason: "universal file contains none of the requested architectures",
			}
		}

	default:
		return nil, &types.MalformedFileError{
			Path:   buf.Path,
			Reason: "not a Mach-O file",
		}
	}

	return file, nil
}

// readSlice folds one architecture slice into the description.
func (r *DylibReader) readSlice(f *macho.File, arch types.Architecture, file *types.File, flags types.ReadFlags) error {
	if f.Type != macho.TypeDylib {
		return &types.MalformedFileError{
			Path:   file.Path,
			Reason: fmt.Sprintf("%s slice is not a dynamic library", arch),
		}
	}

	file.Archs = file.Archs.Add(arch)
	file.TwoLevelNamespace = f.Flags&mhTwoLevel != 0
	file.AppExtensionSafe = f.Flags&mhAppExtensionSafe != 0

	sec := types.Section{Archs: types.ArchSet(arch)}
	undef := types.Section{Archs: types.ArchSet(arch)}

	for _, load := range f.Loads {
		raw := load.Raw()
		if len(raw) < 8 {
			continue
		}
		cmd := f.ByteOrder.Uint32(raw[0:4])
		switch cmd {
		case lcIDDylib:
			name, current, compat, err := parseDylibCommand(raw, f.ByteOrder)
			if err != nil {
				return &types.MalformedFileError{Path: file.Path, Reason: err.Error()}
			}
			file.InstallName = name
			file.CurrentVersion = types.PackedVersion(current)
			file.CompatVersion = types.PackedVersion(compat)
		case lcReexportDylib:
			name, _, _, err := parseDylibCommand(raw, f.ByteOrder)
			if err != nil {
				return &types.MalformedFileError{Path: file.Path, Reason: err.Error()}
			}
			sec.Reexports = append(sec.Reexports, name)
		case lcVersionMacOS:
			file.Platform = types.PlatformMacOS
		case lcVersionIOS:
			file.Platform = types.PlatformIOS
		case lcVersionTVOS:
			file.Platform = types.PlatformTVOS
		case lcVersionWatch:
			file.Platform = types.PlatformWatchOS
		case lcBuildVersion:
			if len(raw) >= 12 {
				file.Platform = buildPlatform(f.ByteOrder.Uint32(raw[8:12]))
			}
		}
	}

	if flags&types.ReadSymbols != 0 && f.Symtab != nil {
		for _, sym := range f.Symtab.Syms {
			if sym.Type&nStab != 0 || sym.Type&nExt == 0 {
				continue
			}
			if sym.Type&nType == 0 {
				undef.Symbols = append(undef.Symbols, sym.Name)
				continue
			}
			if sym.Desc&nWeakDef != 0 {
				sec.WeakSymbols = append(sec.WeakSymbols, sym.Name)
			} else {
				sec.Symbols = append(sec.Symbols, sym.Name)
			}
		}
	}

	if len(sec.Symbols) > 0 || len(sec.WeakSymbols) > 0 || len(sec.Reexports) > 0 {
		file.Exports = append(file.Exports, sec)
	}
	if len(undef.Symbols) > 0 {
		file.Undefineds = append(file.Undefineds, undef)
	}
	return nil
}

// thinFileType extracts the header file-type field from a thin Mach-O
// image. The second return is false when the buffer is too short to hold
// the field.
func thinFileType(data []byte) (uint32, bool) {
	if len(data) < 16 {
		return 0, false
	}
	bo := headerByteOrder(data)
	if bo == nil {
		return 0, false
	}
	return bo.Uint32(data[12:16]), true
}

// headerByteOrder determines the byte order a thin Mach-O header was
// written in.
func headerByteOrder(data []byte) binary.ByteOrder {
	le := binary.LittleEndian.Uint32(data[0:4])
	if le == macho.Magic32 || le == macho.Magic64 {
		return binary.LittleEndian
	}
	be := binary.BigEndian.Uint32(data[0:4])
	if be == macho.Magic32 || be == macho.Magic64 {
		return binary.BigEndian
	}
	return nil
}

// parseDylibCommand decodes a dylib load command: name plus current and
// compatibility versions, both already in packed form.
func parseDylibCommand(raw []byte, bo binary.ByteOrder) (name string, current, compat uint32, err error) {
	if len(raw) < 24 {
		return "", 0, 0, fmt.Errorf("dylib load command too short (%d bytes)", len(raw))
	}
	nameOff := bo.Uint32(raw[8:12])
	current = bo.Uint32(raw[16:20])
	compat = bo.Uint32(raw[20:24])
	if nameOff >= uint32(len(raw)) {
		return "", 0, 0, fmt.Errorf("dylib name offset %d out of range", nameOff)
	}
	name = string(bytes.TrimRight(raw[nameOff:], "\x00"))
	return name, current, compat, nil
}

func buildPlatform(p uint32) types.Platform {
	switch p {
	case platformMacOS:
		return types.PlatformMacOS
	case platformIOS:
		return types.PlatformIOS
	case platformTVOS:
		return types.PlatformTVOS
	case platformWatchOS:
		return types.PlatformWatchOS
	}
	return types.PlatformUnknown
}

func archFromCpu(cpu macho.Cpu, sub uint32) types.Architecture {
	switch cpu {
	case macho.Cpu386:
		return types.ArchI386
	case macho.CpuAmd64:
		return types.ArchX86_64
	case macho.CpuArm:
		switch sub & 0x00ffffff {
		case 11:
			return types.ArchARMV7S
		case 12:
			return types.ArchARMV7K
		default:
			return types.ArchARMV7
		}
	case macho.CpuArm64:
		if sub&0x00ffffff == 2 {
			return types.ArchARM64E
		}
		return types.ArchARM64
	}
	return types.ArchUnknown
}
