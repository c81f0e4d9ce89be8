// Package yamldoc implements the composite text reader and writer. Both
// parse or emit at the generic YAML syntax level and delegate schema
// semantics to an ordered list of document handlers, so new schema
// versions plug in without touching the registry or each other.
package yamldoc

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stubkit/stubkit/internal/types"
)

// DocumentHandler handles one schema variant of the shared YAML syntax.
// Handlers match on parsed document content (the document tag and key
// shape), never on raw bytes; the owning reader or writer has already
// done the syntax-level work.
type DocumentHandler interface {
	// Type is the file type this handler assigns.
	Type() types.FileType

	// CanRead reports whether this handler claims the parsed document.
	CanRead(doc *yaml.Node) bool

	// ReadDocument decodes a claimed document into a description.
	ReadDocument(doc *yaml.Node, buf types.Buffer, flags types.ReadFlags, archs types.ArchitectureSet) (*types.File, error)

	// CanWrite reports whether this handler can render the description.
	CanWrite(file *types.File) bool

	// WriteDocument renders a claimed description into a document node.
	// The node's tag, if any, becomes the emitted document tag.
	WriteDocument(file *types.File) (*yaml.Node, error)
}

// Reader is the composite text reader: one registry-level reader that
// fans a parsed document out to its handlers, first match wins.
type Reader struct {
	handlers []DocumentHandler
}

// NewReader returns a reader with the given handlers, in priority order.
func NewReader(handlers ...DocumentHandler) *Reader {
	return &Reader{handlers: handlers}
}

// Add appends a handler. Earlier handlers take precedence, so
// most-specific variants must be registered first.
func (r *Reader) Add(h DocumentHandler) {
	r.handlers = append(r.handlers, h)
}

// CanRead reports whether the buffer parses as YAML and some handler
// claims the resulting document for an allowed type.
func (r *Reader) CanRead(magic types.Magic, buf types.Buffer, allowed types.FileTypeSet) bool {
	if magic != types.MagicYAMLDocument {
		return false
	}
	doc, err := parseDocument(buf.Data)
	if err != nil {
		return false
	}
	for _, h := range r.handlers {
		if allowed.Has(h.Type()) && h.CanRead(doc) {
			return true
		}
	}
	return false
}

// FileType reports the type of the first handler that claims the
// document. A YAML-marked buffer that fails the syntax-level parse is a
// detection failure, not a miss: the error propagates.
func (r *Reader) FileType(magic types.Magic, buf types.Buffer) (types.FileType, error) {
	if magic != types.MagicYAMLDocument {
		return types.TypeInvalid, nil
	}
	doc, err := parseDocument(buf.Data)
	if err != nil {
		return types.TypeInvalid, &types.MalformedFileError{
			Path:   buf.Path,
			Reason: fmt.Sprintf("invalid YAML syntax: %v", err),
		}
	}
	for _, h := range r.handlers {
		if h.CanRead(doc) {
			return h.Type(), nil
		}
	}
	return types.TypeInvalid, nil
}

// ReadFile parses the buffer at the syntax level, then delegates to the
// first handler that claims the document.
func (r *Reader) ReadFile(buf types.Buffer, flags types.ReadFlags, archs types.ArchitectureSet) (*types.File, error) {
	doc, err := parseDocument(buf.Data)
	if err != nil {
		return nil, &types.MalformedFileError{
			Path:   buf.Path,
			Reason: fmt.Sprintf("invalid YAML syntax: %v", err),
		}
	}
	for _, h := range r.handlers {
		if h.CanRead(doc) {
			return h.ReadDocument(doc, buf, flags, archs)
		}
	}
	return nil, &types.UnsupportedFormatError{
		Path:   buf.Path,
		Reason: "no document handler for this schema",
	}
}

// Writer is the composite text writer, mirror of Reader: the first
// handler that claims a description renders the document, which the
// writer serializes at the syntax level.
type Writer struct {
	handlers []DocumentHandler
}

// NewWriter returns a writer with the given handlers, in priority order.
func NewWriter(handlers ...DocumentHandler) *Writer {
	return &Writer{handlers: handlers}
}

// Add appends a handler. Earlier handlers take precedence.
func (w *Writer) Add(h DocumentHandler) {
	w.handlers = append(w.handlers, h)
}

// CanWrite reports whether some handler can render the description.
func (w *Writer) CanWrite(file *types.File) bool {
	for _, h := range w.handlers {
		if h.CanWrite(file) {
			return true
		}
	}
	return false
}

// WriteFile renders the description with the first handler that claims
// it and emits the document.
func (w *Writer) WriteFile(out io.Writer, file *types.File) error {
	for _, h := range w.handlers {
		if !h.CanWrite(file) {
			continue
		}
		doc, err := h.WriteDocument(file)
		if err != nil {
			return err
		}
		return encodeDocument(out, doc)
	}
	return &types.UnsupportedWriteError{
		Type:   file.Type,
		Reason: "no document handler for this description",
	}
}

// parseDocument decodes one YAML document and returns its root content
// node, with any document-level tag attached.
func parseDocument(data []byte) (*yaml.Node, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	root := &node
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("empty document")
		}
		root = root.Content[0]
	}
	return root, nil
}

// encodeDocument serializes the document node with an explicit document
// start marker carrying the schema tag, and an end marker. The start
// marker doubles as the text-format magic.
func encodeDocument(out io.Writer, doc *yaml.Node) error {
	marker := "---\n"
	if isSchemaTag(doc.Tag) {
		marker = "--- " + doc.Tag + "\n"
		clone := *doc
		clone.Tag = ""
		doc = &clone
	}
	if _, err := io.WriteString(out, marker); err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		enc.Close()
		return fmt.Errorf("encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err := io.WriteString(out, "...\n")
	return err
}

// isSchemaTag reports whether tag is an application schema tag rather
// than a standard YAML type tag.
func isSchemaTag(tag string) bool {
	return strings.HasPrefix(tag, "!") && !strings.HasPrefix(tag, "!!")
}
