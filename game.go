package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/tiltmaze/haptics"
	"github.com/milk9111/tiltmaze/input"
	"github.com/milk9111/tiltmaze/levels"
	"github.com/milk9111/tiltmaze/maze"
	"github.com/milk9111/tiltmaze/settings"
	"github.com/milk9111/tiltmaze/storage"
)

// calibrationSamples is how many resting readings are averaged into a new
// tilt calibration.
const calibrationSamples = 60

type GameOptions struct {
	Pack         *levels.Pack
	PackPath     string
	Settings     *settings.Settings
	SettingsPath string
	Tilt         input.TiltSource
	Vibrator     *haptics.Vibrator
	Store        *storage.Store
	Log          *log.Logger
}

type Game struct {
	opts GameOptions
	log  *log.Logger

	pack    *levels.Pack
	session *maze.Session
	board   *board

	watcher *levels.PackWatcher

	calibSrc *input.Calibrated
	calib    *input.Calibrator

	paused   bool
	quit     bool
	message  string
	pauseUI  *ebitenui.UI
	msgUI    *ebitenui.UI
	msgLabel func(string)

	lastTick time.Time
}

func NewGame(opts GameOptions) (*Game, error) {
	g := &Game{
		opts: opts,
		log:  opts.Log,
		pack: opts.Pack,
	}
	g.session = maze.NewSession(maze.WithLogger(opts.Log.WithPrefix("maze")))
	g.session.SetHaptics(opts.Vibrator)
	if c, ok := opts.Tilt.(*input.Calibrated); ok {
		g.calibSrc = c
	}

	if err := g.loadPack(opts.Pack, opts.Settings.StartLevel(len(opts.Pack.Levels))); err != nil {
		return nil, err
	}

	g.pauseUI = NewPauseUI(g)
	g.msgUI, g.msgLabel = NewMessageUI(g)
	g.showMessage(g.levelTitle())

	g.watchPack(opts.PackPath)
	return g, nil
}

func (g *Game) loadPack(pack *levels.Pack, start int) error {
	g.session.SetLevelsData(pack.MazeLevels())
	if err := g.session.SetConfig(pack.Config()); err != nil {
		return fmt.Errorf("levelpack config: %w", err)
	}
	if err := g.session.SetLevel(start); err != nil {
		return fmt.Errorf("start level %d: %w", start+1, err)
	}
	g.pack = pack
	g.board = newBoard(pack.Config(), g.session.CurrentLevel())
	return nil
}

// watchPack reloads the pack when its file changes on disk. Embedded packs
// are not watched.
func (g *Game) watchPack(path string) {
	if filepath.Ext(path) != ".json" {
		return
	}
	w, err := levels.WatchPack(path)
	if err != nil {
		g.log.Warn("levelpack hot reload disabled", "err", err)
		return
	}
	g.watcher = w
}

func (g *Game) pollPackChanges() {
	if g.watcher == nil {
		return
	}
	select {
	case r, ok := <-g.watcher.Reloads:
		if !ok {
			g.watcher = nil
			return
		}
		g.applyReload(r)
	default:
	}
}

func (g *Game) applyReload(r levels.Reload) {
	path := g.watcher.Path()
	if r.Err != nil {
		g.log.Error("levelpack reload failed", "path", path, "err", r.Err)
		return
	}
	cur := min(g.session.Level(), len(r.Pack.Levels)-1)
	if err := g.loadPack(r.Pack, cur); err != nil {
		g.log.Error("levelpack reload failed", "path", path, "err", err)
		return
	}
	g.log.Info("levelpack reloaded", "path", path, "levels", len(r.Pack.Levels))
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.pollPackChanges()

	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		g.lastTick = time.Time{}
		return nil
	}

	if g.calib != nil {
		g.calibrate()
		g.lastTick = time.Time{}
		return nil
	}

	if g.message != "" {
		g.msgUI.Update()
		if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
			inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			g.message = ""
		}
		g.lastTick = time.Time{}
		return nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		g.changeLevel(g.session.Level() + 1)
		return nil
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.changeLevel(g.session.Level() - 1)
		return nil
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.session.RestartLevel()
		return nil
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.startCalibration()
		return nil
	}

	g.step()
	return nil
}

func (g *Game) step() {
	now := time.Now()
	elapsed := 0
	if !g.lastTick.IsZero() {
		elapsed = int(now.Sub(g.lastTick) / time.Millisecond)
	}
	g.lastTick = now

	x, y, z := g.opts.Tilt.Read()
	g.session.SetForces(x, y, z)

	state := g.session.Step(elapsed)
	if state == maze.StateNormal {
		return
	}

	cur := g.session.Level()
	g.record(cur, state)
	switch state {
	case maze.StateFailed:
		g.session.RestartLevel()
	case maze.StateSaved:
		g.session.ReloadLevel()
	case maze.StateWin:
		if cur+1 < g.session.LevelCount() {
			g.changeLevel(cur + 1)
			return
		}
		g.session.RestartLevel()
		g.showMessage("All levels complete!")
	}
}

// startCalibration samples the tilt source at rest for the next
// calibrationSamples frames.
func (g *Game) startCalibration() {
	g.paused = false
	if g.calibSrc == nil {
		g.showMessage("This input can not be calibrated")
		return
	}
	g.calib = &input.Calibrator{}
	g.showMessage("Calibrating...\nhold the device still")
}

func (g *Game) calibrate() {
	if !g.calibSrc.Recalibrate(g.calib, calibrationSamples) {
		return
	}
	g.calib = nil

	cal := g.calibSrc.Calibration.Settings()
	g.opts.Settings.Input.Calibration = cal
	if err := g.opts.Settings.Save(g.opts.SettingsPath); err != nil {
		g.log.Warn("failed to save settings", "err", err)
	}
	g.log.Info("tilt calibrated", "cal_x", cal.CalX, "cal_y", cal.CalY)
	g.showMessage("Calibration saved")
}

func (g *Game) record(level int, state maze.GameState) {
	g.log.Info("level finished", "level", level+1, "state", state)
	if g.opts.Store == nil {
		return
	}
	if err := g.opts.Store.RecordOutcome(g.pack.Digest, level, state); err != nil {
		g.log.Error("failed to record outcome", "err", err)
	}
}

func (g *Game) changeLevel(n int) {
	if n < 0 || n >= g.session.LevelCount() {
		return
	}
	if err := g.session.SetLevel(n); err != nil {
		g.log.Error("failed to change level", "level", n+1, "err", err)
		return
	}
	g.board = newBoard(g.pack.Config(), g.session.CurrentLevel())

	g.opts.Settings.SetLevel(n)
	if err := g.opts.Settings.Save(g.opts.SettingsPath); err != nil {
		g.log.Warn("failed to save settings", "err", err)
	}
	g.showMessage(g.levelTitle())
}

func (g *Game) levelTitle() string {
	return fmt.Sprintf("Level %d/%d", g.session.Level()+1, g.session.LevelCount())
}

func (g *Game) showMessage(msg string) {
	g.message = msg
	g.msgLabel(msg)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.board.draw(screen, g.session)

	switch {
	case g.paused:
		g.pauseUI.Draw(screen)
	case g.message != "":
		g.msgUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	cfg := g.session.Config()
	return float64(cfg.WindowW), float64(cfg.WindowH)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() error {
	if g.watcher != nil {
		return g.watcher.Close()
	}
	return nil
}
