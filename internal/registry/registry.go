// Package registry loads the slash command registry from a declarative file.
//
// Supported formats are selected by file extension:
//
//	.yaml, .yml  parsed with koanf's YAML parser
//	.toml        parsed with BurntSushi/toml
//
// Both formats share one document shape:
//
//	commands:
//	  /set-bin:
//	    min_args: 1
//	    max_args: 2
//	    usage: "Usage: `/set-bin <exe> [alias]`"
//
// Any failure to read or parse the file, or a file with no commands, is
// reported as ErrRegistryUnavailable. There is no built-in fallback command
// set: callers must reject every command when loading fails.
package registry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/chatops/internal/command"
)

// ErrRegistryUnavailable wraps every load failure.
var ErrRegistryUnavailable = errors.New("command registry unavailable")

// ErrUnsupportedFormat is returned for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported registry format")

const maxRegistryFileSize = 1024 * 1024 // 1MB

// DefaultPath is the registry location used when none is configured.
const DefaultPath = ".github/chatops/commands.yaml"

// Format identifies a registry document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// commandEntry is the on-disk shape of one command.
type commandEntry struct {
	MinArgs *int   `koanf:"min_args" toml:"min_args"`
	MaxArgs *int   `koanf:"max_args" toml:"max_args"`
	Usage   string `koanf:"usage" toml:"usage"`
}

type document struct {
	Commands map[string]commandEntry `koanf:"commands" toml:"commands"`
}

// Load reads and parses the registry file at path.
func Load(path string) (*command.Registry, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, unavailable(path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, unavailable(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, unavailable(path, err)
	}
	if info.Size() > maxRegistryFileSize {
		return nil, unavailable(path, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), maxRegistryFileSize))
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, unavailable(path, err)
	}

	reg, err := Parse(data, format)
	if err != nil {
		return nil, unavailable(path, err)
	}
	return reg, nil
}

// Parse decodes a registry document.
func Parse(data []byte, format Format) (*command.Registry, error) {
	var (
		doc document
		err error
	)

	switch format {
	case FormatYAML:
		err = decodeYAML(data, &doc)
	case FormatTOML:
		err = decodeTOML(data, &doc)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if len(doc.Commands) == 0 {
		return nil, errors.New("no commands defined")
	}

	specs := make([]command.Spec, 0, len(doc.Commands))
	for name, entry := range doc.Commands {
		specs = append(specs, command.Spec{
			Name:    name,
			MinArgs: entry.MinArgs,
			MaxArgs: entry.MaxArgs,
			Usage:   entry.Usage,
		})
	}

	return command.NewRegistry(specs...)
}

func decodeYAML(data []byte, doc *document) error {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	// Unknown keys are an error so a misspelled bound never loads as unbounded.
	if err := k.UnmarshalWithConf("", doc, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           doc,
			TagName:          "koanf",
			ErrorUnused:      true,
			WeaklyTypedInput: true,
		},
	}); err != nil {
		return fmt.Errorf("decoding yaml: %w", err)
	}
	return nil
}

func decodeTOML(data []byte, doc *document) error {
	md, err := toml.Decode(string(data), doc)
	if err != nil {
		return fmt.Errorf("parsing toml: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in toml: %v", undecoded)
	}
	return nil
}

func unavailable(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRegistryUnavailable, path, err)
}
