package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/matzehuels/anchortile/pkg/config"
	"github.com/matzehuels/anchortile/pkg/errors"
	"github.com/matzehuels/anchortile/pkg/tiling"
)

// Document keys.
const (
	KeyAnchors       = "anchors"
	KeyTilingConfig  = "tiling_config"
	KeyPlotFile      = "plot_file"
	KeyLogFile       = "log_file"
	KeyRunID         = "run_id"
	KeySeed          = "seed"
	KeyCoverageStats = "coverage_stats"
)

// RunInfo names the artifacts and identity of a run.
type RunInfo struct {
	PlotFile string
	LogFile  string
	RunID    string
	Seed     uint64
}

// DocAnchor is an anchor as written to the output document.
type DocAnchor struct {
	ID   int    `json:"id"`
	X    string `json:"x"`
	Y    string `json:"y"`
	Loop int    `json:"loop,omitempty"`
}

// CoverageStats marshals with keys in numeric order.
type CoverageStats map[string]float64

// MarshalJSON implements json.Marshaler.
func (s CoverageStats) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		vb, err := json.Marshal(s[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NewDocument merges a run into a copy of template. The template is not
// modified.
func NewDocument(template map[string]any, cfg *config.Config, anchors []tiling.Anchor, stats map[string]float64, run RunInfo) map[string]any {
	doc := make(map[string]any, len(template)+2)
	for k, v := range template {
		doc[k] = v
	}

	docAnchors := make([]DocAnchor, len(anchors))
	for i, a := range anchors {
		docAnchors[i] = DocAnchor{
			ID:   i + 1,
			X:    fmt.Sprintf("%.2f", a.X),
			Y:    fmt.Sprintf("%.2f", a.Y),
			Loop: a.Loop,
		}
	}
	doc[KeyAnchors] = docAnchors

	tc := cfg.Document()
	tc[KeyPlotFile] = run.PlotFile
	tc[KeyLogFile] = run.LogFile
	if run.RunID != "" {
		tc[KeyRunID] = run.RunID
	}
	tc[KeySeed] = run.Seed
	tc[KeyCoverageStats] = CoverageStats(stats)
	doc[KeyTilingConfig] = tc
	return doc
}

// WriteDocument encodes doc as indented JSON.
func WriteDocument(w io.Writer, doc map[string]any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportDocument writes doc to path.
func ExportDocument(path string, doc map[string]any) error {
	return writeFile(path, func(w io.Writer) error { return WriteDocument(w, doc) })
}

// Loaded is a previously written output document.
type Loaded struct {
	Config  *config.Config
	Anchors []tiling.Anchor
	Doc     map[string]any
}

// ReadDocument decodes an output document and recovers its anchors and
// tiling configuration.
func ReadDocument(r io.Reader) (*Loaded, error) {
	doc, err := config.DecodeObject(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode document")
	}

	tcRaw, ok := doc[KeyTilingConfig]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document has no %q", KeyTilingConfig)
	}
	tcJSON, err := json.Marshal(tcRaw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "re-encode %s", KeyTilingConfig)
	}
	cfg, err := config.Parse(tcJSON, config.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyTilingConfig, err)
	}

	anchorsRaw, ok := doc[KeyAnchors]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "document has no %q", KeyAnchors)
	}
	anchorsJSON, err := json.Marshal(anchorsRaw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "re-encode anchors")
	}
	var docAnchors []DocAnchor
	if err := json.Unmarshal(anchorsJSON, &docAnchors); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode anchors")
	}

	anchors := make([]tiling.Anchor, len(docAnchors))
	for i, a := range docAnchors {
		x, err := strconv.ParseFloat(a.X, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "anchor %d: x", a.ID)
		}
		y, err := strconv.ParseFloat(a.Y, 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "anchor %d: y", a.ID)
		}
		anchors[i] = tiling.Anchor{X: x, Y: y, Loop: a.Loop}
	}

	return &Loaded{Config: cfg, Anchors: anchors, Doc: doc}, nil
}

// ImportDocument reads an output document from path.
func ImportDocument(path string) (*Loaded, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDocument(f)
}

func open(path string) (*os.File, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Clean(path))
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
