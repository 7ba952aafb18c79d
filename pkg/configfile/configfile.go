// Package configfile loads the desired-state file: a list of command
// entries, optionally wrapped in {version, description, commands}.
//
// The format is chosen by extension: .json, .toml, .yaml or .yml.
// TOML has no top-level arrays, so TOML files always use the wrapped form
// with [[commands]] tables.
package configfile

import (
	stderrors "errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/archx/pkg/commands"
	"github.com/arthur-debert/archx/pkg/errors"
	"github.com/arthur-debert/archx/pkg/filesystem"
	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// File is a loaded desired-state file
type File struct {
	Path        string
	Version     *int
	Description string
	Commands    []commands.Entry
}

// Load reads and normalizes the file at path from the OS filesystem
func Load(path string) (*File, error) {
	return LoadFS(filesystem.NewOS(), path)
}

// LoadFS reads and normalizes the file at path from fsys
func LoadFS(fsys filesystem.FS, path string) (*File, error) {
	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", path).
			WithDetail("path", path)
	}

	raw, err := decode(data, path)
	if err != nil {
		return nil, err
	}

	f, err := normalize(raw, path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

type decoder func(data []byte, path string) (interface{}, error)

func decoderFor(path string) (decoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decodeJSON, nil
	case ".toml":
		return decodeTOML, nil
	case ".yaml", ".yml":
		return decodeYAML, nil
	}
	return nil, errors.Newf(errors.ErrConfigLoad,
		"Unsupported config format for %s (expected .json, .toml, .yaml, .yml).", path).
		WithDetail("path", path)
}

func decodeJSON(data []byte, path string) (interface{}, error) {
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		var syntax *json.SyntaxError
		if stderrors.As(err, &syntax) {
			line, col := position(data, syntax.Offset)
			return nil, parseError(err, "JSON", path, line, col)
		}
		return nil, parseError(err, "JSON", path, 0, 0)
	}
	return out, nil
}

func decodeTOML(data []byte, path string) (interface{}, error) {
	var out map[string]interface{}
	if err := toml.Unmarshal(data, &out); err != nil {
		var decodeErr *toml.DecodeError
		if stderrors.As(err, &decodeErr) {
			line, col := decodeErr.Position()
			return nil, parseError(err, "TOML", path, line, col)
		}
		return nil, parseError(err, "TOML", path, 0, 0)
	}
	return out, nil
}

func decodeYAML(data []byte, path string) (interface{}, error) {
	var out interface{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		// yaml.v3 puts the line into the message itself
		return nil, parseError(err, "YAML", path, 0, 0)
	}
	return out, nil
}

func parseError(err error, format, path string, line, col int) error {
	var e *errors.Error
	if line > 0 {
		e = errors.Wrapf(err, errors.ErrConfigParse, "Invalid %s in %s at line %d, column %d", format, path, line, col).
			WithDetail("line", line).
			WithDetail("column", col)
	} else {
		e = errors.Wrapf(err, errors.ErrConfigParse, "Invalid %s in %s", format, path)
	}
	return e.WithDetail("path", path)
}

// position converts a byte offset into a 1-based line and column
func position(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

func normalize(raw interface{}, path string) (*File, error) {
	f := &File{Path: path}

	var items []interface{}
	switch top := raw.(type) {
	case []interface{}:
		items = top
	case map[string]interface{}:
		cmds, ok := top["commands"].([]interface{})
		if !ok {
			return nil, shapeError(path)
		}
		items = cmds

		if v, present := top["version"]; present && v != nil {
			version, ok := asInt(v)
			if !ok {
				return nil, errors.Newf(errors.ErrConfigValid, "'version' must be an integer if present in %s", path).
					WithDetail("path", path)
			}
			f.Version = &version
		}
		if d, present := top["description"]; present && d != nil {
			desc, ok := d.(string)
			if !ok {
				return nil, errors.Newf(errors.ErrConfigValid, "'description' must be a string if present in %s", path).
					WithDetail("path", path)
			}
			f.Description = desc
		}
	default:
		return nil, shapeError(path)
	}

	f.Commands = make([]commands.Entry, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigValid, "Command must be an object in %s", path).
				WithDetail("path", path).
				WithDetail("index", i)
		}
		f.Commands = append(f.Commands, commands.Entry(m))
	}
	return f, nil
}

func shapeError(path string) error {
	return errors.New(errors.ErrConfigValid,
		"Config must be a list of command objects or {version, commands:[...]}.").
		WithDetail("path", path)
}

// asInt accepts any integral number the decoders produce
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// String describes the file for logs
func (f *File) String() string {
	if f.Description != "" {
		return fmt.Sprintf("%s (%s, %d commands)", f.Path, f.Description, len(f.Commands))
	}
	return fmt.Sprintf("%s (%d commands)", f.Path, len(f.Commands))
}
