package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/tiltmaze/haptics"
	"github.com/milk9111/tiltmaze/hooks"
	"github.com/milk9111/tiltmaze/input"
	"github.com/milk9111/tiltmaze/levels"
	"github.com/milk9111/tiltmaze/settings"
	"github.com/milk9111/tiltmaze/storage"
)

func main() {
	defaultSettings, err := settings.DefaultPath()
	if err != nil {
		defaultSettings = "settings.yaml"
	}

	settingsPath := flag.String("settings", defaultSettings, "path to the settings file")
	packName := flag.String("levelpack", "", "levelpack name or path to a .levelpack.json file")
	level := flag.Int("level", 0, "start level, 1-based (0 keeps the saved level)")
	inputType := flag.String("input", "", "input type: dummy, keyboard, gamepad or joystick")
	vibroType := flag.String("vibro", "", "vibration type: none or freerunner")
	fullscreen := flag.Bool("fullscreen", false, "start in fullscreen")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn or error")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "tiltmaze",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})

	user, err := settings.Load(*settingsPath)
	if err != nil {
		logger.Fatal("failed to load settings", "err", err)
	}
	if *packName != "" {
		user.Levelpack = *packName
	}
	if *level > 0 {
		user.Level = *level
	}
	if *inputType != "" {
		user.Input.Type = *inputType
	}
	if *vibroType != "" {
		user.Vibro.Type = *vibroType
	}
	if *fullscreen {
		user.Fullscreen = true
	}
	if *logLevel != "" {
		user.LogLevel = *logLevel
	}
	if lvl, err := log.ParseLevel(user.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	// the init script may pick a different levelpack or level
	ctx := context.Background()
	if res := runHook(ctx, user.Hooks.Init, user, logger); res != nil {
		if name := res.String("levelpack"); name != "" {
			user.Levelpack = name
		}
		if n := res.Int("level"); n > 0 {
			user.Level = n
		}
	}

	pack, err := levels.Open(user.Levelpack)
	if err != nil {
		logger.Fatal("failed to load levelpack", "levelpack", user.Levelpack, "err", err)
	}
	if err := pack.Validate(); err != nil {
		logger.Fatal("invalid levelpack", "levelpack", user.Levelpack, "err", err)
	}

	tilt, err := input.New(user.Input, logger.WithPrefix("input"))
	if err != nil {
		logger.Fatal("failed to create input", "err", err)
	}
	if err := tilt.Init(); err != nil {
		logger.Warn("input device unavailable, falling back to keyboard", "err", err)
		tilt = &input.Calibrated{Source: &input.Keyboard{G: 0.5}, Calibration: &input.Calibration{Sensitivity: 1}}
	}
	defer tilt.Close()

	vib, err := haptics.New(user.Vibro, logger.WithPrefix("vibro"))
	if err != nil {
		logger.Fatal("failed to create vibrator", "err", err)
	}
	defer vib.Close()

	store, err := storage.Open(user.ProgressDB)
	if err != nil {
		logger.Warn("progress will not be recorded", "err", err)
	} else {
		defer store.Close()
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	cfg := pack.Config()
	ebiten.SetWindowSize(cfg.WindowW, cfg.WindowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("tiltmaze")
	ebiten.SetFullscreen(user.Fullscreen)
	if user.FrameDelay > 0 {
		ebiten.SetTPS(max(1, 1000/user.FrameDelay))
	}

	game, err := NewGame(GameOptions{
		Pack:         pack,
		PackPath:     user.Levelpack,
		Settings:     user,
		SettingsPath: *settingsPath,
		Tilt:         tilt,
		Vibrator:     vib,
		Store:        store,
		Log:          logger,
	})
	if err != nil {
		logger.Fatal("failed to start game", "err", err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		logger.Error("game exited", "err", err)
	}

	runHook(ctx, user.Hooks.Final, user, logger)
	if err := user.Save(*settingsPath); err != nil {
		logger.Error("failed to save settings", "err", err)
	}
}

func runHook(ctx context.Context, path string, user *settings.Settings, logger *log.Logger) *hooks.Result {
	if path == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	res, err := hooks.Run(ctx, path, map[string]interface{}{
		"levelpack": user.Levelpack,
		"level":     user.Level,
	}, logger.WithPrefix("hooks"))
	if err != nil {
		logger.Error("hook failed", "path", path, "err", err)
		return nil
	}
	return res
}
