// Package registry implements the format dispatch engine: an ordered
// chain of readers and writers with first-match-wins semantics.
package registry

import (
	"fmt"
	"io"
	"os"

	"github.com/stubkit/stubkit/internal/types"
)

// Reader is the capability a format reader contributes to a registry:
// claim-check a buffer, report the concrete type it would assign, and
// decode a claimed buffer into a File.
type Reader interface {
	// CanRead reports whether this reader claims the buffer for one of the
	// allowed types. It must be cheap and side-effect free; the registry
	// may call it speculatively.
	CanRead(magic types.Magic, buf types.Buffer, allowed types.FileTypeSet) bool

	// FileType reports the concrete type this reader would assign to the
	// buffer, or TypeInvalid when the buffer is not one of its formats.
	// A non-nil error means the reader owns the buffer's magic but its
	// header is broken; the registry propagates it without consulting
	// later readers.
	FileType(magic types.Magic, buf types.Buffer) (types.FileType, error)

	// ReadFile decodes a buffer this reader claimed. The buffer is
	// consumed: the registry hands it to exactly one reader.
	ReadFile(buf types.Buffer, flags types.ReadFlags, archs types.ArchitectureSet) (*types.File, error)
}

// Writer is the capability a format writer contributes: decide whether it
// can serialize a description, and emit it.
type Writer interface {
	// CanWrite reports whether this writer can serialize the description.
	CanWrite(file *types.File) bool

	// WriteFile serializes a description this writer claimed to out.
	WriteFile(out io.Writer, file *types.File) error
}

// Registry owns an ordered list of readers and an ordered list of
// writers. Registration order is the only source of dispatch priority:
// the first reader (or writer) to claim an input handles it, and no
// later candidate is consulted.
//
// Registration is expected to complete at startup, before any dispatch
// call; after that the registry is immutable and safe for concurrent
// read-only use.
type Registry struct {
	readers []Reader
	writers []Writer
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// AddReader appends a reader. Earlier readers take precedence.
func (r *Registry) AddReader(reader Reader) {
	r.readers = append(r.readers, reader)
}

// AddWriter appends a writer. Earlier writers take precedence.
func (r *Registry) AddWriter(writer Writer) {
	r.writers = append(r.writers, writer)
}

// CanRead reports whether any registered reader claims the buffer for
// one of the allowed types. The magic is computed once and shared across
// the scan. No side effects.
func (r *Registry) CanRead(buf types.Buffer, allowed types.FileTypeSet) bool {
	magic := types.IdentifyMagic(buf.Data)
	for _, reader := range r.readers {
		if reader.CanRead(magic, buf, allowed) {
			return true
		}
	}
	return false
}

// FileType identifies the buffer's concrete format. Readers are asked in
// registration order; the first non-Invalid answer wins. A reader's
// detection failure propagates immediately: a recognized-but-corrupt
// header is not the same as "no match". When no reader recognizes the
// buffer the result is (TypeInvalid, nil) — an unrecognized format is a
// successful outcome, not an error.
func (r *Registry) FileType(buf types.Buffer) (types.FileType, error) {
	magic := types.IdentifyMagic(buf.Data)
	for _, reader := range r.readers {
		ft, err := reader.FileType(magic, buf)
		if err != nil {
			return types.TypeInvalid, err
		}
		if ft != types.TypeInvalid {
			return ft, nil
		}
	}
	return types.TypeInvalid, nil
}

// ReadFile decodes the buffer with the first reader that claims it. The
// claiming reader's result — success or its own decode error — is
// returned directly; later readers are never consulted. When no reader
// claims the buffer, ReadFile fails with UnsupportedFormatError.
func (r *Registry) ReadFile(buf types.Buffer, flags types.ReadFlags, archs types.ArchitectureSet) (*types.File, error) {
	magic := types.IdentifyMagic(buf.Data)
	for _, reader := range r.readers {
		if !reader.CanRead(magic, buf, types.AllTypes) {
			continue
		}
		return reader.ReadFile(buf, flags, archs)
	}
	return nil, &types.UnsupportedFormatError{
		Path:   buf.Path,
		Reason: "no registered reader for this file",
	}
}

// CanWrite reports whether any registered writer can serialize the
// description.
func (r *Registry) CanWrite(file *types.File) bool {
	for _, writer := range r.writers {
		if writer.CanWrite(file) {
			return true
		}
	}
	return false
}

// WriteTo serializes the description to out using the first writer that
// claims it. The claiming writer's result is returned directly. When no
// writer claims the description, WriteTo fails with
// UnsupportedWriteError.
func (r *Registry) WriteTo(out io.Writer, file *types.File) error {
	for _, writer := range r.writers {
		if !writer.CanWrite(file) {
			continue
		}
		return writer.WriteFile(out, file)
	}
	return &types.UnsupportedWriteError{
		Type:   file.Type,
		Reason: "no registered writer for this description",
	}
}

// WriteFile serializes the description to its recorded path. The output
// file is created before any format logic runs, so an open failure is
// surfaced as plain I/O error, and it is closed on every exit path. A
// close failure after a successful emission is reported.
func (r *Registry) WriteFile(file *types.File) error {
	out, err := os.Create(file.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", file.Path, err)
	}
	werr := r.WriteTo(out, file)
	cerr := out.Close()
	if werr != nil {
		return werr
	}
	if cerr != nil {
		return fmt.Errorf("close %s: %w", file.Path, cerr)
	}
	return nil
}
