// Package config loads and validates the tiling configuration.
//
// A configuration names the region, the coverage radius and the placement
// tuning knobs:
//
//	{
//	  "length": 40, "width": 25, "radius": 8, "attempts": 100,
//	  "density_factor": 1.5, "rows_per_radius": 1, "cols_per_radius": 1
//	}
//
// Files may be JSON, YAML (.yaml, .yml) or TOML (.toml). Every document is
// checked against an embedded JSON Schema before it is decoded, so the same
// rules apply regardless of the source format. Keys the schema does not know
// are kept in [Config.Raw] and carried into the output document.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/anchortile/pkg/cache"
	"github.com/matzehuels/anchortile/pkg/errors"
	"github.com/matzehuels/anchortile/pkg/geom"
	"github.com/matzehuels/anchortile/pkg/tiling"
)

//go:embed schema.json
var schemaJSON []byte

// Supported source formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// MaxFileSize caps configuration files at 1 MiB.
const MaxFileSize = 1 << 20

// Config is the input of a tiling run.
type Config struct {
	Length        float64 `json:"length"`
	Width         float64 `json:"width"`
	Radius        float64 `json:"radius"`
	Attempts      int     `json:"attempts"`
	DensityFactor float64 `json:"density_factor"`
	RowsPerRadius float64 `json:"rows_per_radius"`
	ColsPerRadius float64 `json:"cols_per_radius"`

	// Seed makes placement reproducible. Zero means unseeded.
	Seed uint64 `json:"seed,omitempty"`

	// Raw is the decoded source document, including unknown keys.
	Raw map[string]any `json:"-"`
}

// Region returns the area to cover.
func (c *Config) Region() geom.Region {
	return geom.Region{Length: c.Length, Width: c.Width}
}

// Params returns the placement parameters.
func (c *Config) Params() tiling.Params {
	return tiling.Params{
		Radius:        c.Radius,
		DensityFactor: c.DensityFactor,
		RowsPerRadius: c.RowsPerRadius,
		ColsPerRadius: c.ColsPerRadius,
		Attempts:      c.Attempts,
	}
}

// Validate applies the same rules as the schema to an in-memory Config, plus
// the derived grid-step check of the placement engine.
func (c *Config) Validate() error {
	if err := c.Region().Validate(); err != nil {
		return err
	}
	if err := errors.ValidatePositiveInt("attempts", c.Attempts); err != nil {
		return err
	}
	return c.Params().Validate()
}

// Hash fingerprints the placement-relevant fields. Seed and unknown keys are
// excluded, so two files that differ only in comments or extras share a hash.
func (c *Config) Hash() string {
	data, _ := json.Marshal(struct {
		Length, Width, Radius float64
		Attempts              int
		DensityFactor         float64
		RowsPerRadius         float64
		ColsPerRadius         float64
	}{c.Length, c.Width, c.Radius, c.Attempts, c.DensityFactor, c.RowsPerRadius, c.ColsPerRadius})
	return cache.Hash(data)
}

// Document returns the configuration as a generic map suitable for embedding
// in an output document. Unknown source keys are preserved.
func (c *Config) Document() map[string]any {
	doc := make(map[string]any, len(c.Raw)+8)
	for k, v := range c.Raw {
		doc[k] = v
	}
	doc["length"] = c.Length
	doc["width"] = c.Width
	doc["radius"] = c.Radius
	doc["attempts"] = c.Attempts
	doc["density_factor"] = c.DensityFactor
	doc["rows_per_radius"] = c.RowsPerRadius
	doc["cols_per_radius"] = c.ColsPerRadius
	return doc
}

// FormatFromPath infers the source format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"unsupported config extension %q (want .json, .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	cleanPath := filepath.Clean(path)
	format, err := FormatFromPath(cleanPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(cleanPath)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", cleanPath)
	}
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"config file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cleanPath, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format, validates it against the schema
// and returns the typed configuration.
func Parse(data []byte, format string) (*Config, error) {
	raw, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	if err := normalizeSeed(raw); err != nil {
		return nil, err
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	// Round-trip through JSON so every source format shares one decoder.
	canonical, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "normalize config")
	}
	var cfg Config
	if err := json.Unmarshal(canonical, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	cfg.Raw = raw

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(data []byte, format string) (map[string]any, error) {
	raw := map[string]any{}
	var err error
	switch format {
	case FormatJSON:
		raw, err = DecodeObject(bytes.NewReader(data))
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown config format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s config", format)
	}
	return raw, nil
}

// DecodeObject decodes a JSON object. Integer literals become int64, or uint64
// when they exceed int64, so 64-bit seeds survive exactly. Other numbers
// become float64.
func DecodeObject(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		obj = map[string]any{}
	}
	for k, v := range obj {
		obj[k] = exactNumbers(v)
	}
	return obj, nil
}

func exactNumbers(v any) any {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(v.String(), 10, 64); err == nil {
			return u
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		for k, e := range v {
			v[k] = exactNumbers(e)
		}
	case []any:
		for i, e := range v {
			v[i] = exactNumbers(e)
		}
	}
	return v
}

// normalizeSeed accepts a decimal string seed, which TOML needs for values
// above the int64 range.
func normalizeSeed(raw map[string]any) error {
	s, ok := raw["seed"].(string)
	if !ok {
		return nil
	}
	u, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "seed %q", s)
	}
	raw["seed"] = u
	return nil
}

func validateSchema(doc map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "schema validation")
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return errors.New(errors.ErrCodeInvalidConfig, "invalid config: %s", strings.Join(msgs, "; "))
	}
	return nil
}
