// Package v1 implements the document handler for version 1 configuration
// documents. Configuration files are read-only: they are recognized and
// parsed but never emitted, so the handler is registered with readers
// only.
package v1

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/stubkit/stubkit/internal/types"
)

// Tag is the document tag for this schema version.
const Tag = "!tapi-configuration-v1"

type configDoc struct {
	Version        string   `yaml:"version,omitempty"`
	Platform       string   `yaml:"platform,omitempty"`
	Macros         []string `yaml:"macros,omitempty"`
	IncludePaths   []string `yaml:"include-paths,omitempty"`
	FrameworkPaths []string `yaml:"framework-paths,omitempty"`
	PublicHeaders  []string `yaml:"public-headers,omitempty"`
}

// DocumentHandler reads version 1 configuration documents.
type DocumentHandler struct{}

// NewDocumentHandler returns the version 1 configuration handler.
func NewDocumentHandler() *DocumentHandler {
	return &DocumentHandler{}
}

// Type returns the file type this handler assigns.
func (h *DocumentHandler) Type() types.FileType {
	return types.TypeConfigurationV1
}

// CanRead claims only documents tagged with the configuration v1 tag.
func (h *DocumentHandler) CanRead(doc *yaml.Node) bool {
	return doc.Kind == yaml.MappingNode && doc.Tag == Tag
}

// ReadDocument decodes a claimed document into a description.
func (h *DocumentHandler) ReadDocument(doc *yaml.Node, buf types.Buffer, _ types.ReadFlags, _ types.ArchitectureSet) (*types.File, error) {
	var cd configDoc
	clone := *doc
	clone.Tag = "!!map"
	if err := clone.Decode(&cd); err != nil {
		return nil, &types.MalformedFileError{
			Path:   buf.Path,
			Reason: fmt.Sprintf("configuration v1: %v", err),
		}
	}

	return &types.File{
		Path:     buf.Path,
		Type:     types.TypeConfigurationV1,
		Platform: types.ParsePlatform(cd.Platform),
		Config: &types.Configuration{
			Version:        cd.Version,
			Macros:         cd.Macros,
			IncludePaths:   cd.IncludePaths,
			FrameworkPaths: cd.FrameworkPaths,
			PublicHeaders:  cd.PublicHeaders,
		},
	}, nil
}

// CanWrite always reports false: configuration documents are input only.
func (h *DocumentHandler) CanWrite(*types.File) bool {
	return false
}

// WriteDocument is never reachable through dispatch because CanWrite
// reports false; it returns an error for direct callers.
func (h *DocumentHandler) WriteDocument(file *types.File) (*yaml.Node, error) {
	return nil, &types.UnsupportedWriteError{
		Type:   file.Type,
		Reason: "configuration documents are read-only",
	}
}
