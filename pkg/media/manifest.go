package media

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/lightbox/pkg/errors"
)

// Manifest is a titled list of media items.
type Manifest struct {
	Title string `json:"title,omitempty" toml:"title" yaml:"title,omitempty"`
	Items []Item `json:"items" toml:"items" yaml:"items"`
}

// Format identifies a manifest encoding.
type Format string

// Supported manifest formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath infers the manifest format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported manifest extension %q (want .toml, .yaml, .yml or .json)", filepath.Ext(path))
	}
}

// Decode parses a manifest in the given format and validates its items.
func Decode(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&m)
	case FormatYAML:
		err = yaml.Unmarshal(data, &m)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&m)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported manifest format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode %s manifest", format)
	}
	if err := Validate(m.Items); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads and decodes a manifest file, inferring the format from its
// extension.
func LoadFile(path string) (*Manifest, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read manifest %s", path)
	}
	return Decode(data, format)
}
