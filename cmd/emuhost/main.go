// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command emuhost runs a demo engine under the emuhost execution
// controller, presenting in the terminal.
//
// Keys: s start, p pause, c screenshot, space forwarded to the engine,
// q or Esc quit. Without a terminal, or with -headless, it runs for
// -duration and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"golang.org/x/term"

	"github.com/gogpu/emuhost"
	"github.com/gogpu/emuhost/settings"
	"github.com/gogpu/emuhost/window"

	_ "github.com/gogpu/emuhost/gfx/software"
	_ "github.com/gogpu/emuhost/gfx/wgpu"
)

func init() {
	// The interactive thread owns the presentation context.
	runtime.LockOSThread()
}

type config struct {
	values     settings.Values
	headless   bool
	duration   time.Duration
	shotDir    string
	failAfter  uint64
	shaders    int
	frameDelay time.Duration
}

func main() {
	os.Exit(realMain())
}

func realMain() int {
	var (
		backend   = flag.String("backend", "", "renderer backend: opengl, vulkan or none")
		glDriver  = flag.String("gl-driver", "", "gfx driver for the opengl backend")
		docked    = flag.Bool("docked", false, "use the docked screen size for screenshots")
		dbPath    = flag.String("settings", "", "settings database (empty keeps settings in memory)")
		save      = flag.Bool("save", false, "persist flag overrides to -settings")
		headless  = flag.Bool("headless", false, "run without the terminal UI")
		duration  = flag.Duration("duration", 2*time.Second, "headless run time")
		shotDir   = flag.String("screenshot-dir", ".", "directory for screenshots")
		shotScale = flag.Uint("screenshot-scale", 0, "screenshot resolution scale (0 follows the renderer)")
		failAfter = flag.Uint64("fail-after", 0, "make the demo engine fail after N frames")
		logPath   = flag.String("log", "", "log file (default stderr in headless mode, discarded otherwise)")
		debug     = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	interactive := !*headless && term.IsTerminal(int(os.Stdout.Fd()))
	closeLog, err := setupLogger(*logPath, *debug, interactive)
	if err != nil {
		fmt.Fprintln(os.Stderr, "emuhost:", err)
		return 1
	}
	defer closeLog()

	ctx := context.Background()
	values, db, err := loadSettings(ctx, *dbPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "emuhost:", err)
		return 1
	}
	if db != nil {
		defer db.Close()
	}

	var overrideErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			b, err := settings.ParseBackend(*backend)
			if err != nil {
				overrideErr = err
				return
			}
			values.Backend = b
		case "gl-driver":
			values.GLDriver = *glDriver
		case "docked":
			values.Docked = *docked
		case "screenshot-scale":
			values.ResolutionScale = uint32(*shotScale)
		}
	})
	if overrideErr != nil {
		fmt.Fprintln(os.Stderr, "emuhost:", overrideErr)
		return 2
	}
	if *save && db != nil {
		if err := db.Save(ctx, values); err != nil {
			fmt.Fprintln(os.Stderr, "emuhost:", err)
			return 1
		}
	}

	cfg := config{
		values:     values,
		headless:   !interactive,
		duration:   *duration,
		shotDir:    *shotDir,
		failAfter:  *failAfter,
		shaders:    24,
		frameDelay: 16 * time.Millisecond,
	}
	if err := run(ctx, cfg); err != nil {
		report(err)
		return 1
	}
	return 0
}

func report(err error) {
	var ie *window.InitError
	if !errors.As(err, &ie) {
		fmt.Fprintln(os.Stderr, "emuhost:", err)
		return
	}
	fmt.Fprintf(os.Stderr, "%s\n%s\n", ie.Title, ie.Message)
	for _, ext := range ie.Missing {
		fmt.Fprintln(os.Stderr, "  unsupported:", ext)
	}
	if ie.Err != nil {
		fmt.Fprintln(os.Stderr, "  cause:", ie.Err)
	}
}

func setupLogger(path string, debug, interactive bool) (func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		emuhost.SetLogger(slog.New(slog.NewTextHandler(f, opts)))
		return func() { _ = f.Close() }, nil
	case !interactive:
		emuhost.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, opts)))
	}
	return func() {}, nil
}

// loadSettings returns the stored settings and, when a database is used,
// the store to persist overrides to.
func loadSettings(ctx context.Context, path string) (settings.Values, *settings.SQLiteStore, error) {
	if path == "" {
		return settings.Defaults(), nil, nil
	}
	db, err := settings.OpenSQLite(path)
	if err != nil {
		return settings.Values{}, nil, err
	}
	v, err := db.Load(ctx)
	if err != nil {
		_ = db.Close()
		return settings.Values{}, nil, err
	}
	return v, db, nil
}
