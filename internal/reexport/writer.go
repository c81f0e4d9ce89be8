// Package reexport implements the single-purpose writer that emits a
// flat re-export symbol list for the linker.
package reexport

import (
	"bufio"
	"fmt"
	"io"

	"github.com/stubkit/stubkit/internal/types"
)

// FileWriter writes re-export lists. It claims only descriptions whose
// type is TypeReexport; callers opt a description in by setting that
// type before dispatch.
type FileWriter struct{}

// NewFileWriter returns the re-export list writer.
func NewFileWriter() *FileWriter {
	return &FileWriter{}
}

// CanWrite claims re-export descriptions.
func (w *FileWriter) CanWrite(file *types.File) bool {
	return file.Type == types.TypeReexport
}

// WriteFile emits one exported symbol per line, preceded by the install
// name as a comment. The linker consumes this format directly.
func (w *FileWriter) WriteFile(out io.Writer, file *types.File) error {
	bw := bufio.NewWriter(out)
	if file.InstallName != "" {
		if _, err := fmt.Fprintf(bw, "# re-exported from %s\n", file.InstallName); err != nil {
			return err
		}
	}
	for _, sym := range file.ExportedSymbols() {
		if _, err := fmt.Fprintln(bw, sym); err != nil {
			return err
		}
	}
	return bw.Flush()
}
