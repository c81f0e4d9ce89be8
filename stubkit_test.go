package stubkit_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stubkit/stubkit"
)

const stubV1Doc = `--- !tapi-tbd-v1
archs: [ x86_64, arm64 ]
platform: macosx
install-name: /usr/lib/libintegration.dylib
current-version: 1.2.3
compatibility-version: 1.0
exports:
  - archs: [ x86_64, arm64 ]
    symbols: [ _integration_init, _integration_free ]
`

const stubV2Doc = `--- !tapi-tbd-v2
archs: [ arm64 ]
platform: ios
install-name: /usr/lib/libintegration.dylib
current-version: 2.0
exports:
  - archs: [ arm64 ]
    symbols: [ _integration_init ]
`

const apiV1Doc = `--- !tapi-api-v1
archs: [ arm64 ]
platform: ios
install-name: /System/Library/Frameworks/Sample.framework/Sample
globals:
  - archs: [ arm64 ]
    names: [ _sample_global ]
`

const configDoc = `--- !tapi-configuration-v1
version: "1"
platform: macosx
include-paths: [ /usr/local/include ]
`

func buffer(path, data string) stubkit.Buffer {
	return stubkit.Buffer{Path: path, Data: []byte(data)}
}

func TestFileTypeDispatch(t *testing.T) {
	r := stubkit.NewDefaultRegistry()

	tests := []struct {
		name string
		doc  string
		want stubkit.FileType
	}{
		{"stub v1", stubV1Doc, stubkit.TypeStubV1},
		{"stub v2", stubV2Doc, stubkit.TypeStubV2},
		{"api v1", apiV1Doc, stubkit.TypeAPIV1},
		{"configuration v1", configDoc, stubkit.TypeConfigurationV1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft, err := r.FileType(buffer("input.yaml", tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ft)
		})
	}
}

func TestUnrecognizedInput(t *testing.T) {
	r := stubkit.NewDefaultRegistry()

	// Unrecognized and empty inputs identify as Invalid without error;
	// only an actual read attempt fails.
	for _, data := range []string{"", "plain text, no marker"} {
		buf := buffer("input", data)

		assert.False(t, r.CanRead(buf, stubkit.AllTypes))

		ft, err := r.FileType(buf)
		require.NoError(t, err)
		assert.Equal(t, stubkit.TypeInvalid, ft)

		_, err = r.ReadFile(buf, stubkit.ReadAll, stubkit.AllArchitectures)
		var ufe *stubkit.UnsupportedFormatError
		require.ErrorAs(t, err, &ufe)
	}
}

func TestTruncatedBinaryClaimFails(t *testing.T) {
	r := stubkit.NewDefaultRegistry()

	// A recognized Mach-O magic over a cut-off header: the claim is made,
	// so the outcome is a malformed-file error rather than a fallback to
	// other readers.
	buf := buffer("libbroken.dylib", "\xcf\xfa\xed\xfe\x0c\x00")

	assert.True(t, r.CanRead(buf, stubkit.AllTypes))

	_, err := r.FileType(buf)
	var mfe *stubkit.MalformedFileError
	require.ErrorAs(t, err, &mfe)

	_, err = r.ReadFile(buf, stubkit.ReadAll, stubkit.AllArchitectures)
	require.ErrorAs(t, err, &mfe)
}

func TestStubRoundTrip(t *testing.T) {
	r := stubkit.NewDefaultRegistry()

	original, err := r.ReadFile(buffer("libintegration.tbd", stubV2Doc), stubkit.ReadAll, stubkit.AllArchitectures)
	require.NoError(t, err)
	require.Equal(t, stubkit.TypeStubV2, original.Type)

	var out bytes.Buffer
	require.NoError(t, r.WriteTo(&out, original))
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("--- !tapi-tbd-v2")))

	ft, err := r.FileType(buffer("rendered.tbd", out.String()))
	require.NoError(t, err)
	assert.Equal(t, stubkit.TypeStubV2, ft)

	reread, err := r.ReadFile(buffer("rendered.tbd", out.String()), stubkit.ReadAll, stubkit.AllArchitectures)
	require.NoError(t, err)
	assert.Equal(t, original.InstallName, reread.InstallName)
	assert.Equal(t, original.Archs, reread.Archs)
	assert.Equal(t, original.Platform, reread.Platform)
	assert.Equal(t, original.CurrentVersion, reread.CurrentVersion)
	assert.Equal(t, original.ExportedSymbols(), reread.ExportedSymbols())
}

func TestWriteFileAndOpen(t *testing.T) {
	r := stubkit.NewDefaultRegistry()

	file, err := r.ReadFile(buffer("libintegration.tbd", stubV1Doc), stubkit.ReadAll, stubkit.AllArchitectures)
	require.NoError(t, err)

	file.Path = filepath.Join(t.TempDir(), "libintegration.tbd")
	require.NoError(t, r.WriteFile(file))

	reread, err := r.Open(file.Path, stubkit.ReadAll, stubkit.AllArchitectures)
	require.NoError(t, err)
	assert.Equal(t, file.InstallName, reread.InstallName)
	assert.Equal(t, file.Archs, reread.Archs)
}

func TestWriteFile_OpenFailure(t *testing.T) {
	r := stubkit.NewDefaultRegistry()

	file, err := r.ReadFile(buffer("libintegration.tbd", stubV1Doc), stubkit.ReadAll, stubkit.AllArchitectures)
	require.NoError(t, err)

	file.Path = filepath.Join(t.TempDir(), "missing", "libintegration.tbd")
	err = r.WriteFile(file)
	require.Error(t, err)

	// The failure is plain I/O, not a format decision.
	var uwe *stubkit.UnsupportedWriteError
	assert.False(t, errors.As(err, &uwe))
}

func TestConfigurationIsReadOnly(t *testing.T) {
	r := stubkit.NewDefaultRegistry()

	file, err := r.ReadFile(buffer("project.yaml", configDoc), stubkit.ReadAll, stubkit.AllArchitectures)
	require.NoError(t, err)
	require.Equal(t, stubkit.TypeConfigurationV1, file.Type)

	assert.False(t, r.CanWrite(file))

	var out bytes.Buffer
	err = r.WriteTo(&out, file)
	var uwe *stubkit.UnsupportedWriteError
	require.ErrorAs(t, err, &uwe)
}

func TestReexportList(t *testing.T) {
	r := stubkit.NewDefaultRegistry()

	file, err := r.ReadFile(buffer("libintegration.tbd", stubV1Doc), stubkit.ReadAll, stubkit.AllArchitectures)
	require.NoError(t, err)

	file.Type = stubkit.TypeReexport
	var out bytes.Buffer
	require.NoError(t, r.WriteTo(&out, file))

	assert.Contains(t, out.String(), "_integration_init\n")
	assert.Contains(t, out.String(), "_integration_free\n")
}

func TestReadFiles(t *testing.T) {
	r := stubkit.NewDefaultRegistry()
	dir := t.TempDir()

	docs := map[string]string{
		"a.tbd":        stubV1Doc,
		"b.tbd":        stubV2Doc,
		"project.yaml": configDoc,
	}
	paths := []string{
		filepath.Join(dir, "a.tbd"),
		filepath.Join(dir, "b.tbd"),
		filepath.Join(dir, "project.yaml"),
	}
	for name, doc := range docs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(doc), 0o644))
	}

	files, err := r.ReadFiles(context.Background(), stubkit.ReadAll, stubkit.AllArchitectures, paths...)
	require.NoError(t, err)
	require.Len(t, files, 3)

	// Results keep input order regardless of completion order.
	assert.Equal(t, stubkit.TypeStubV1, files[0].Type)
	assert.Equal(t, stubkit.TypeStubV2, files[1].Type)
	assert.Equal(t, stubkit.TypeConfigurationV1, files[2].Type)

	_, err = r.ReadFiles(context.Background(), stubkit.ReadAll, stubkit.AllArchitectures,
		paths[0], filepath.Join(dir, "absent.tbd"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.tbd")
}

func TestReaderPriorityFollowsRegistrationOrder(t *testing.T) {
	// An empty registry claims nothing; population order is the only
	// dispatch priority, so a registry with just the YAML chain resolves
	// documents but leaves binaries unclaimed.
	r := stubkit.NewRegistry()
	assert.False(t, r.CanRead(buffer("libx.tbd", stubV1Doc), stubkit.AllTypes))

	r.AddYAMLReaders()
	assert.True(t, r.CanRead(buffer("libx.tbd", stubV1Doc), stubkit.AllTypes))
	assert.False(t, r.CanRead(buffer("libx.dylib", "\xcf\xfa\xed\xfe"), stubkit.AllTypes))
}
