package main

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Useful test file to confirm what load commands we're able to actually
// read from a dylib before wiring a new one into the reader.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: macho-dump <file.dylib>")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	dumpCommands(data)
}

func dumpCommands(data []byte) {
	if len(data) < 32 {
		fmt.Println("file too short for a Mach-O header")
		return
	}

	var bo binary.ByteOrder = binary.LittleEndian
	magic := bo.Uint32(data[0:4])
	switch magic {
	case 0xfeedface, 0xfeedfacf:
	case 0xcefaedfe, 0xcffaedfe:
		bo = binary.BigEndian
		magic = bo.Uint32(data[0:4])
	case 0xcafebabe, 0xbebafeca:
		fmt.Println("universal file; extract a slice with lipo first")
		return
	default:
		fmt.Printf("unknown magic %#x\n", magic)
		return
	}

	headerSize := int64(28)
	if magic == 0xfeedfacf {
		headerSize = 32
	}

	ncmds := bo.Uint32(data[16:20])
	fmt.Printf("magic: %#x  cputype: %#x  filetype: %d  ncmds: %d  flags: %#x\n",
		magic, bo.Uint32(data[4:8]), bo.Uint32(data[12:16]), ncmds, bo.Uint32(data[24:28]))

	offset := headerSize
	for i := uint32(0); i < ncmds; i++ {
		if offset+8 > int64(len(data)) {
			fmt.Printf("  truncated at command %d (offset %d)\n", i, offset)
			return
		}
		cmd := bo.Uint32(data[offset : offset+4])
		size := bo.Uint32(data[offset+4 : offset+8])

		fmt.Printf("  [%d] cmd: %#-12x size: %-6d offset: %d%s\n",
			i, cmd, size, offset, commandName(cmd))

		if size < 8 {
			fmt.Println("  command size below minimum, stopping")
			return
		}
		offset += int64(size)
	}
}

func commandName(cmd uint32) string {
	names := map[uint32]string{
		0x2:        "  LC_SYMTAB",
		0xd:        "  LC_ID_DYLIB",
		0xc:        "  LC_LOAD_DYLIB",
		0x24:       "  LC_VERSION_MIN_MACOSX",
		0x25:       "  LC_VERSION_MIN_IPHONEOS",
		0x2f:       "  LC_VERSION_MIN_TVOS",
		0x30:       "  LC_VERSION_MIN_WATCHOS",
		0x32:       "  LC_BUILD_VERSION",
		0x8000001f: "  LC_REEXPORT_DYLIB",
	}
	return names[cmd]
}
