package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/milk9111/tiltmaze/maze"
)

//go:embed *.levelpack.json
var PacksFS embed.FS

const (
	DefaultPack = "main"
	packSuffix  = ".levelpack.json"
)

var ErrEmptyPack = errors.New("levels: pack has no levels")

type Pack struct {
	Requirements Requirements `json:"requirements"`
	Levels       []Level      `json:"levels"`

	// Digest identifies the raw pack contents.
	Digest uint64 `json:"-"`
}

type Requirements struct {
	Window Window `json:"window"`
	Ball   Radius `json:"ball"`
	Hole   Radius `json:"hole"`
	Key    Radius `json:"key"`
	Box    BoxReq `json:"box"`
}

type Window struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Radius struct {
	Radius int `json:"radius"`
}

type BoxReq struct {
	Shadow int `json:"shadow"`
}

type Level struct {
	Boxes       []Box   `json:"boxes"`
	Holes       []Point `json:"holes"`
	Keys        []Point `json:"keys"`
	Checkpoints []Point `json:"checkpoints"`
	Init        Point   `json:"init"`
}

type Box struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func Parse(data []byte) (*Pack, error) {
	var p Pack
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("levels: unmarshal pack: %w", err)
	}
	p.Digest = Digest(data)
	return &p, nil
}

// Load reads a pack from disk.
func Load(filename string) (*Pack, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("levels: load %s: %w", filename, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", filename, err)
	}
	return p, nil
}

// LoadEmbedded reads one of the packs shipped with the binary by name,
// e.g. "main".
func LoadEmbedded(name string) (*Pack, error) {
	data, err := fs.ReadFile(PacksFS, embeddedName(name))
	if err != nil {
		return nil, fmt.Errorf("levels: load embedded %s: %w", name, err)
	}
	return Parse(data)
}

// Open prefers a pack file on disk and falls back to the embedded pack of
// the same name.
func Open(nameOrPath string) (*Pack, error) {
	if _, err := os.Stat(nameOrPath); err == nil {
		return Load(nameOrPath)
	}
	return LoadEmbedded(nameOrPath)
}

// Names lists the embedded packs.
func Names() []string {
	entries, err := fs.ReadDir(PacksFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), packSuffix))
	}
	return names
}

func embeddedName(name string) string {
	name = path.Base(name)
	if strings.HasSuffix(name, packSuffix) {
		return name
	}
	return name + packSuffix
}

func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}

func (p *Pack) Config() maze.Config {
	r := p.Requirements
	return maze.Config{
		WindowW: r.Window.Width,
		WindowH: r.Window.Height,
		BallR:   r.Ball.Radius,
		HoleR:   r.Hole.Radius,
		KeyR:    r.Key.Radius,
		Shadow:  r.Box.Shadow,
	}
}

func (p *Pack) MazeLevels() []maze.Level {
	out := make([]maze.Level, len(p.Levels))
	for i, l := range p.Levels {
		ml := maze.Level{
			Boxes:       make([]maze.Box, len(l.Boxes)),
			Holes:       toPoints(l.Holes),
			Checkpoints: toPoints(l.Checkpoints),
			Keys:        toPoints(l.Keys),
			Start:       maze.Point(l.Init),
		}
		for j, b := range l.Boxes {
			ml.Boxes[j] = maze.Box(b)
		}
		out[i] = ml
	}
	return out
}

func toPoints(ps []Point) []maze.Point {
	out := make([]maze.Point, len(ps))
	for i, p := range ps {
		out[i] = maze.Point(p)
	}
	return out
}

// Validate checks the pack against what the simulation accepts.
func (p *Pack) Validate() error {
	if err := p.Config().Validate(); err != nil {
		return fmt.Errorf("levels: requirements: %w", err)
	}
	if len(p.Levels) == 0 {
		return ErrEmptyPack
	}
	var errs []error
	for i, l := range p.MazeLevels() {
		if err := l.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("levels: level %d: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}
