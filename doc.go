// Package stubkit identifies, reads, and writes machine-readable
// descriptions of a shared library's exported interface.
//
// stubkit supports multiple on-disk formats behind a single dispatch
// surface: Mach-O dynamic libraries (thin and universal) and versioned
// YAML interface-stub documents. A Registry owns an ordered list of
// format readers and writers; the first one to claim an input handles
// it, and registration order is the only source of priority.
//
// # Quick Start
//
// Identifying and reading a library description:
//
//	registry := stubkit.NewDefaultRegistry()
//
//	file, err := registry.Open("libfoo.tbd", stubkit.ReadAll, stubkit.AllArchitectures)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(file.InstallName, file.Archs)
//
// Writing a description back out:
//
//	file.Path = "libfoo.out.tbd"
//	if err := registry.WriteFile(file); err != nil {
//		log.Fatal(err)
//	}
//
// # Supported Formats
//
//   - Mach-O dylib: install name, versions, platform, exported and
//     undefined symbols, re-exported libraries
//   - Stub v1/v2: versioned YAML stub schemas sharing one outer syntax
//   - API v1: YAML API descriptions
//   - Configuration v1: project configuration documents (read only)
//
// # Architecture
//
// Dispatch happens at two levels. The Registry matches raw bytes: it
// classifies a buffer's magic once and offers it to each reader in
// order. The composite YAML reader then matches parsed content: it
// decodes the generic syntax and offers the document to each schema
// handler in order. New schema versions plug in by registering one more
// handler; nothing else changes.
//
// # Failure Model
//
// Callers see exactly one of four outcomes: a decoded File, an
// unsupported-format error (nothing claimed the input), a handler's own
// decode error (a claim is a commitment — it is never retried against
// later handlers), or a plain I/O error from a path-form write. A buffer
// no reader recognizes is not an error for FileType: it reports
// TypeInvalid, distinct from a recognized-but-corrupt input.
//
// # Concurrent Use
//
// Populate a Registry once, at startup; after that it is immutable and
// safe for concurrent readers. ReadFiles decodes many paths in parallel
// on top of that guarantee.
package stubkit
