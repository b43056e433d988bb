package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMedia(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestProbeVersion_ReleaseFileIsAuthoritative(t *testing.T) {
	t.Parallel()

	dir := writeMedia(t, map[string]string{
		"metadata/release.yaml": "version: 6.5.0.10000\n",
		"README.txt":            "Management Appliance, Version 6.0.0\n",
	})

	v, err := ProbeVersion(dir)
	require.NoError(t, err)
	assert.Equal(t, 6, v.Segments()[0])
	assert.Equal(t, 5, v.Segments()[1])
}

func TestProbeVersion_FallsBackToReadme(t *testing.T) {
	t.Parallel()

	dir := writeMedia(t, map[string]string{
		"README.txt": "Release notes.\nManagement Appliance version 6.0.3 build 12345\n",
	})

	v, err := ProbeVersion(dir)
	require.NoError(t, err)
	assert.Equal(t, "6.0.3", v.String())
}

func TestProbeVersion_MalformedReleaseFallsBackToReadme(t *testing.T) {
	t.Parallel()

	dir := writeMedia(t, map[string]string{
		"metadata/release.yaml": "version: [not a version\n",
		"README.txt":            "Version 6.7\n",
	})

	v, err := ProbeVersion(dir)
	require.NoError(t, err)
	assert.Equal(t, "6.7.0", v.Core().String())
}

func TestProbeVersion_NoSourceIsUnsupportedMedia(t *testing.T) {
	t.Parallel()

	dir := writeMedia(t, map[string]string{
		"README.txt": "no usable token here\n",
	})

	_, err := ProbeVersion(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestProbeVersion_EmptyDirIsUnsupportedMedia(t *testing.T) {
	t.Parallel()

	_, err := ProbeVersion(t.TempDir())
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}
