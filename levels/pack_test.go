package levels

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/tiltmaze/maze"
)

const smallPack = `{
  "requirements": {
    "window": {"width": 320, "height": 240},
    "ball": {"radius": 8},
    "hole": {"radius": 16},
    "key": {"radius": 10},
    "box": {"shadow": 3}
  },
  "levels": [
    {
      "boxes": [{"x1": 10, "y1": 20, "x2": 30, "y2": 200}],
      "holes": [{"x": 100, "y": 100}],
      "keys": [{"x": 200, "y": 50}],
      "checkpoints": [{"x": 280, "y": 200}, {"x": 150, "y": 150}],
      "init": {"x": 50, "y": 50}
    }
  ]
}`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(smallPack))
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	assert.Equal(t, maze.Config{WindowW: 320, WindowH: 240, BallR: 8, HoleR: 16, KeyR: 10, Shadow: 3}, p.Config())
	assert.Equal(t, Digest([]byte(smallPack)), p.Digest)

	lvls := p.MazeLevels()
	require.Len(t, lvls, 1)
	assert.Equal(t, maze.Level{
		Boxes:       []maze.Box{{X1: 10, Y1: 20, X2: 30, Y2: 200}},
		Holes:       []maze.Point{{X: 100, Y: 100}},
		Checkpoints: []maze.Point{{X: 280, Y: 200}, {X: 150, Y: 150}},
		Keys:        []maze.Point{{X: 200, Y: 50}},
		Start:       maze.Point{X: 50, Y: 50},
	}, lvls[0])
	assert.Equal(t, maze.Point{X: 280, Y: 200}, lvls[0].Goal())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		pack Pack
		want error
	}{
		{
			name: "zero radius",
			pack: Pack{Requirements: Requirements{Window: Window{320, 240}, Ball: Radius{0}, Hole: Radius{16}, Key: Radius{10}}},
			want: maze.ErrInvalidConfig,
		},
		{
			name: "no levels",
			pack: Pack{Requirements: Requirements{Window: Window{320, 240}, Ball: Radius{8}, Hole: Radius{16}, Key: Radius{10}}},
			want: ErrEmptyPack,
		},
		{
			name: "missing goal",
			pack: Pack{
				Requirements: Requirements{Window: Window{320, 240}, Ball: Radius{8}, Hole: Radius{16}, Key: Radius{10}},
				Levels:       []Level{{Init: Point{10, 10}}},
			},
			want: maze.ErrInvalidLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.pack.Validate(), tc.want)
		})
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte(`{"levels": [`))
	assert.Error(t, err)
}

func TestEmbeddedPackIsPlayable(t *testing.T) {
	assert.Contains(t, Names(), DefaultPack)

	p, err := LoadEmbedded(DefaultPack)
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	s := maze.NewSession()
	s.SetLevelsData(p.MazeLevels())
	require.NoError(t, s.SetConfig(p.Config()))
	for i := range p.Levels {
		require.NoError(t, s.SetLevel(i), "level %d", i)
		for j := 0; j < 20; j++ {
			require.Equal(t, maze.StateNormal, s.Step(16), "level %d", i)
		}
	}
}

func TestOpenPrefersDisk(t *testing.T) {
	file := filepath.Join(t.TempDir(), "custom.levelpack.json")
	require.NoError(t, os.WriteFile(file, []byte(smallPack), 0o644))

	p, err := Open(file)
	require.NoError(t, err)
	assert.Equal(t, 320, p.Requirements.Window.Width)

	p, err = Open(DefaultPack)
	require.NoError(t, err)
	assert.Equal(t, 480, p.Requirements.Window.Width)

	_, err = Open("does-not-exist")
	assert.Error(t, err)
}

func nextReload(t *testing.T, pw *PackWatcher) Reload {
	t.Helper()
	select {
	case r := <-pw.Reloads:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("no reload for pack file")
		return Reload{}
	}
}

func TestPackWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.levelpack.json")
	require.NoError(t, os.WriteFile(file, []byte(smallPack), 0o644))

	pw, err := WatchPack(file)
	require.NoError(t, err)
	defer pw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.levelpack.json"), []byte(smallPack), 0o644))
	edited := strings.Replace(smallPack, `"width": 320`, `"width": 400`, 1)
	require.NoError(t, os.WriteFile(file, []byte(edited), 0o644))

	r := nextReload(t, pw)
	require.NoError(t, r.Err)
	assert.Equal(t, 400, r.Pack.Requirements.Window.Width)
	assert.Equal(t, Digest([]byte(edited)), r.Pack.Digest)

	require.NoError(t, os.WriteFile(file, []byte(`{"levels": [`), 0o644))
	r = nextReload(t, pw)
	assert.Error(t, r.Err)
	assert.Nil(t, r.Pack)

	require.NoError(t, pw.Close())
	require.NoError(t, pw.Close())
}
