package stubkit

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	apiv1 "github.com/stubkit/stubkit/internal/apifile/v1"
	configv1 "github.com/stubkit/stubkit/internal/configfile/v1"
	"github.com/stubkit/stubkit/internal/macho"
	"github.com/stubkit/stubkit/internal/reexport"
	"github.com/stubkit/stubkit/internal/registry"
	stubv1 "github.com/stubkit/stubkit/internal/stub/v1"
	stubv2 "github.com/stubkit/stubkit/internal/stub/v2"
	"github.com/stubkit/stubkit/internal/yamldoc"
)

// Reader is an alias to registry.Reader, the capability a format reader
// contributes to a Registry.
type Reader = registry.Reader

// Writer is an alias to registry.Writer.
type Writer = registry.Writer

// DocumentHandler is an alias to yamldoc.DocumentHandler, the nested
// capability composite text readers and writers dispatch to.
type DocumentHandler = yamldoc.DocumentHandler

// Registry dispatches reads and writes across an ordered chain of format
// readers and writers. Construct one, populate it with the Add*
// assembly methods (or custom readers and writers), and use it from as
// many goroutines as you like once population is done.
type Registry struct {
	*registry.Registry
}

// NewRegistry returns an empty registry. Population order is dispatch
// priority; there is no other tie-break.
func NewRegistry() *Registry {
	return &Registry{registry.New()}
}

// NewDefaultRegistry returns a registry with the standard capability
// groups: the binary reader, the YAML readers and writers, and the
// re-export writer.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.AddBinaryReaders()
	r.AddYAMLReaders()
	r.AddYAMLWriters()
	r.AddReexportWriters()
	return r
}

// AddBinaryReaders registers the Mach-O dylib reader.
func (r *Registry) AddBinaryReaders() {
	r.AddReader(macho.NewDylibReader())
}

// AddYAMLReaders registers the composite YAML reader with the standard
// document handlers. Handler order matters: stub v1 accepts untagged
// documents and the later variants are tag-matched, mirroring the order
// new schema versions were introduced.
func (r *Registry) AddYAMLReaders() {
	reader := yamldoc.NewReader(
		stubv1.NewDocumentHandler(),
		stubv2.NewDocumentHandler(),
		apiv1.NewDocumentHandler(),
		configv1.NewDocumentHandler(),
	)
	r.AddReader(reader)
}

// AddYAMLWriters registers the composite YAML writer with the standard
// document handlers. Configuration documents are read-only and have no
// writer-side handler.
func (r *Registry) AddYAMLWriters() {
	writer := yamldoc.NewWriter(
		stubv1.NewDocumentHandler(),
		stubv2.NewDocumentHandler(),
		apiv1.NewDocumentHandler(),
	)
	r.AddWriter(writer)
}

// AddReexportWriters registers the re-export list writer.
func (r *Registry) AddReexportWriters() {
	r.AddWriter(reexport.NewFileWriter())
}

// Open reads the file at path into memory and dispatches it through
// ReadFile.
func (r *Registry) Open(path string, flags ReadFlags, archs ArchitectureSet) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return r.ReadFile(Buffer{Path: path, Data: data}, flags, archs)
}

// ReadFiles opens multiple paths concurrently, up to runtime.NumCPU() at
// a time. Results keep the order of the input paths. The first failure
// cancels the remaining work and is returned with its path attached.
func (r *Registry) ReadFiles(ctx context.Context, flags ReadFlags, archs ArchitectureSet, paths ...string) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			file, err := r.Open(path, flags, archs)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
