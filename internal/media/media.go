// Package media determines the management-appliance software version from
// install media metadata.
//
// The version drives which installer config schema generation applies, so
// it must be resolved before anything else happens; an undeterminable
// version aborts the run before any connection is made.
package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	version "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedMedia indicates the install-media version could not be
// determined from any known source.
var ErrUnsupportedMedia = errors.New("unsupported install media")

const (
	// releaseFile is the authoritative structured metadata file.
	releaseFile = "metadata/release.yaml"
	// readmeFile is the secondary free-text source.
	readmeFile = "README.txt"
)

var readmeVersionRE = regexp.MustCompile(`(?i)\bversion\s+(\d+\.\d+(?:\.\d+)?)`)

// ProbeVersion resolves the software version of the install media rooted
// at dir. The structured release file wins; the readme is consulted only
// when the release file is absent or unparseable.
func ProbeVersion(dir string) (*version.Version, error) {
	if v, err := fromRelease(filepath.Join(dir, releaseFile)); err == nil {
		return v, nil
	}

	if v, err := fromReadme(filepath.Join(dir, readmeFile)); err == nil {
		return v, nil
	}

	return nil, fmt.Errorf("%w: no parseable version in %s or %s under %s", ErrUnsupportedMedia, releaseFile, readmeFile, dir)
}

func fromRelease(path string) (*version.Version, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var release struct {
		Version string `yaml:"version"`
	}
	if err := yaml.Unmarshal(data, &release); err != nil {
		return nil, err
	}
	if release.Version == "" {
		return nil, errors.New("release metadata has no version field")
	}

	v, err := version.NewVersion(release.Version)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func fromReadme(path string) (*version.Version, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m := readmeVersionRE.FindSubmatch(data)
	if m == nil {
		return nil, errors.New("no version token in readme")
	}

	v, err := version.NewVersion(string(m[1]))
	if err != nil {
		return nil, err
	}
	return v, nil
}
