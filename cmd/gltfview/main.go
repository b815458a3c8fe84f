// gltfview is a headless glTF 2.0 scene evaluator: it loads a model, plays its
// animations and reports transforms, skinning and camera framing.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/gltfview/internal/asset"
	"github.com/Faultbox/gltfview/internal/config"
	"github.com/Faultbox/gltfview/internal/logger"
	"github.com/Faultbox/gltfview/internal/viewer"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
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

	command := args[0]
	rest := args[1:]
	if command == "config" {
		if err := cmdConfig(os.Stdout, cfg, rest); err != nil {
			logger.Error("config failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}
	if len(rest) > 0 {
		cfg.Viewer.Model = rest[0]
		rest = rest[1:]
	}

	switch command {
	case "help", "-h", "--help":
		printUsage()
		return
	case "info", "bounds", "play", "dump", "pick":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if cfg.Viewer.Model == "" {
		fmt.Fprintf(os.Stderr, "Usage: gltfview %s <file.gltf|file.glb>\n", command)
		os.Exit(1)
	}

	logger.Debug("loading model", zap.String("path", cfg.Viewer.Model))
	a, err := asset.Open(cfg.Viewer.Model)
	if err != nil {
		logger.Error("failed to load model", zap.Error(err))
		os.Exit(1)
	}

	if command == "info" {
		cmdInfo(os.Stdout, a)
		return
	}

	v, err := viewer.New(a, cfg, logger.Named("viewer"))
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}

	switch command {
	case "bounds":
		err = cmdBounds(os.Stdout, v)
	case "play":
		err = cmdPlay(os.Stdout, v, cfg.Playback)
	case "dump":
		err = cmdDump(os.Stdout, v, rest)
	case "pick":
		err = cmdPick(os.Stdout, v, rest)
	}
	if err != nil {
		logger.Error(command+" failed", zap.Error(err))
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`gltfview - glTF 2.0 scene evaluator

Usage:
  gltfview [flags] <command> <file.gltf|file.glb> [args]

Commands:
  info   <file>                 Show scenes, nodes, meshes, skins and animations
  bounds <file>                 Show scene extents and the fitted camera
  play   <file>                 Evaluate frames and print a summary per frame
  dump   <file> <node> [time]   Dump one node's evaluated state (index or name)
  pick   <file> <x> <y>         Name the mesh node under a viewport point (0..1)
  config [path]                 Write the effective config (default: user config dir)

Flags:
  -config <path>      Config file (default ./gltfview.yaml)
  -scene <n>          Scene index (default: document scene)
  -animation <sel>    "all", "none", clip index or clip name
  -fps, -frames       Headless playback rate and length
  -speed              Playback speed multiplier
  -yfov, -aspect      Camera field of view (degrees) and aspect ratio
  -debug              Enable debug logging

Examples:
  gltfview info Fox.glb
  gltfview -animation Run -frames 30 play Fox.glb
  gltfview dump CesiumMan.gltf Skeleton_torso_joint_1 0.5`)
}
