// Package hooks runs the user's init and final scripts around a play
// session. Scripts are tengo sources with the standard modules available.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/tiltmaze/settings"
)

// Result holds the globals a script left behind.
type Result struct {
	compiled *tengo.Compiled
}

func (r *Result) String(name string) string {
	if r == nil || r.compiled == nil || !r.compiled.IsDefined(name) {
		return ""
	}
	return r.compiled.Get(name).String()
}

func (r *Result) Int(name string) int {
	if r == nil || r.compiled == nil || !r.compiled.IsDefined(name) {
		return 0
	}
	return r.compiled.Get(name).Int()
}

// Run executes the script at path with vars defined as globals. An empty
// path or a missing file is not an error and yields a nil Result.
func Run(ctx context.Context, path string, vars map[string]interface{}, logger *log.Logger) (*Result, error) {
	if path == "" {
		return nil, nil
	}
	path, err := settings.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("hook script not found", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hooks: load %s: %w", path, err)
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	for name, v := range vars {
		if err := script.Add(name, v); err != nil {
			return nil, fmt.Errorf("hooks: %s: add %s: %w", path, name, err)
		}
	}
	if err := script.Add("log", logFunc(logger)); err != nil {
		return nil, fmt.Errorf("hooks: %s: add log: %w", path, err)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("hooks: compile %s: %w", path, err)
	}
	if err := compiled.RunContext(ctx); err != nil {
		return nil, fmt.Errorf("hooks: run %s: %w", path, err)
	}
	logger.Debug("hook script finished", "path", path)
	return &Result{compiled: compiled}, nil
}

func logFunc(logger *log.Logger) *tengo.UserFunction {
	return &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]interface{}, 0, len(args))
		for _, a := range args {
			if s, ok := tengo.ToString(a); ok {
				parts = append(parts, s)
			}
		}
		logger.Info(fmt.Sprint(parts...))
		return tengo.UndefinedValue, nil
	}}
}
