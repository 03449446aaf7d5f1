// turtlerun evaluates a turtle scene document and exports the meshes it
// produces.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/loamstudio/turtlemesh/internal/config"
	"github.com/loamstudio/turtlemesh/internal/document"
	"github.com/loamstudio/turtlemesh/internal/export"
	"github.com/loamstudio/turtlemesh/internal/logger"
	"github.com/loamstudio/turtlemesh/internal/registry"
	"github.com/loamstudio/turtlemesh/internal/scene"
	"github.com/loamstudio/turtlemesh/internal/watcher"
	"github.com/loamstudio/turtlemesh/pkg/turtle"
)

func main() {
	config.ParseFlags()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	if flag.Arg(0) == "init-config" {
		cfg := config.Default()
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default config to %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, flag.Arg(0)); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`turtlerun - evaluate turtle scene documents into meshes

Usage:
  turtlerun [flags] <scene.yaml>
  turtlerun init-config

Flags:
  -config <path>     Config file (default: ./turtlemesh.yaml, then user config dir)
  -format <stl|obj>  Export format
  -out <dir>         Export directory ("-" streams meshes to stdout)
  -registry <path>   Mesh registry database
  -watch             Re-run the document when it changes
  -debug             Enable debug logging

Examples:
  turtlerun bracket.yaml
  turtlerun -format obj -out build/meshes bracket.yaml
  turtlerun -out - bracket.yaml > bracket.stl
  turtlerun -watch bracket.yaml`)
}

func run(cfg *config.Config, docPath string) error {
	opts, err := evalOptions(cfg)
	if err != nil {
		return err
	}

	reg, err := registry.Open(cfg.Registry.Path)
	if err != nil {
		return fmt.Errorf("opening registry: %w", err)
	}
	defer reg.Close()

	if !cfg.Watch.Enabled {
		return runOnce(cfg, opts, reg, docPath)
	}
	return watchLoop(cfg, opts, reg, docPath)
}

// watchLoop re-runs the document after each debounced change until
// interrupted. A failing run keeps the watch alive.
func watchLoop(cfg *config.Config, opts document.Options, reg *registry.Registry, docPath string) error {
	w, err := watcher.New(docPath, cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()
	w.Start(ctx)

	if err := runOnce(cfg, opts, reg, docPath); err != nil {
		logger.Error("document failed", zap.Error(err))
	}
	logger.Info("watching document", zap.String("path", docPath))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil
		case <-w.C():
			if err := runOnce(cfg, opts, reg, docPath); err != nil {
				logger.Error("document failed", zap.Error(err))
			}
		}
	}
}

func runOnce(cfg *config.Config, opts document.Options, reg *registry.Registry, docPath string) error {
	doc, err := document.Load(docPath)
	if err != nil {
		return err
	}

	acc := scene.NewAccumulator()
	res, err := document.Evaluate(context.Background(), doc, acc, opts)
	if err != nil {
		return err
	}

	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		return err
	}

	toStdout := cfg.Export.Dir == "-"
	stem := docStem(docPath)
	for i, nm := range res.Meshes {
		name := nm.Name
		if name == "" {
			name = fmt.Sprintf("%s_%d", stem, i+1)
		} else if err := reg.Put(name, nm.Mesh); err != nil {
			return fmt.Errorf("registering %s: %w", name, err)
		}

		if nm.Mesh.Warning != "" {
			logger.Warn("mesh has validation warnings",
				zap.String("name", name),
				zap.String("warning", nm.Mesh.Warning))
		}

		if toStdout {
			if err := export.Write(os.Stdout, format, nm.Mesh); err != nil {
				return fmt.Errorf("writing %s: %w", name, err)
			}
			continue
		}

		path := filepath.Join(cfg.Export.Dir, name+format.Extension())
		if err := export.WriteFile(path, format, nm.Mesh); err != nil {
			return err
		}
		fmt.Printf("%s: %d vertices, %d faces, %s -> %s\n",
			name, len(nm.Mesh.Vertices), len(nm.Mesh.Faces), closedLabel(nm.Mesh.Closed), path)
	}

	logger.Info("document finished",
		zap.String("document", docPath),
		zap.Int("items", acc.Len()),
		zap.Int("meshes", len(res.Meshes)))
	return nil
}

// evalOptions maps the configured defaults onto evaluator options.
func evalOptions(cfg *config.Config) (document.Options, error) {
	mode, ok := turtle.ParseJointMode(cfg.Defaults.JointMode)
	if !ok {
		return document.Options{}, fmt.Errorf("unknown joint mode %q in config", cfg.Defaults.JointMode)
	}
	return document.Options{
		Resolution: turtle.Resolution{
			CircleSegments: cfg.Defaults.CircleSegments,
			JointSteps:     cfg.Defaults.JointSteps,
		},
		JointMode:  mode,
		LoftSteps:  cfg.Defaults.LoftSteps,
		PenSize:    cfg.Defaults.PenSize,
		PreserveUp: cfg.Defaults.PreserveUp,
	}, nil
}

// docStem names anonymous meshes after the document file.
func docStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func closedLabel(closed bool) string {
	if closed {
		return "closed"
	}
	return "open"
}
