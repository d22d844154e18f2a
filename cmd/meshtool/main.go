// meshtool is a CLI utility for loading OBJ meshes and managing their binary caches.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/meshload/internal/assets"
	"github.com/Faultbox/meshload/internal/config"
	"github.com/Faultbox/meshload/internal/logger"
	"github.com/Faultbox/meshload/pkg/formats"
	"github.com/Faultbox/meshload/pkg/mesh"
)

func main() {
	config.ParseFlags()

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

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	var cmdErr error
	switch command {
	case "info":
		cmdErr = cmdInfo(cfg, args)
	case "cache":
		cmdErr = cmdCache(cfg, args)
	case "verify":
		cmdErr = cmdVerify(cfg, args)
	case "load":
		cmdErr = cmdLoad(cfg, args)
	case "config":
		cmdErr = cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if cmdErr == nil {
		return
	}
	// A cache that does not read back as written means the codec is broken.
	// verify reports a stale cache instead.
	if command != "verify" && errors.Is(cmdErr, formats.ErrCacheIntegrity) {
		logger.Fatal("cache integrity check failed", zap.Error(cmdErr))
	}
	logger.Error(command+" failed", zap.Error(cmdErr))
	logger.Sync()
	os.Exit(1)
}

func printUsage() {
	fmt.Println(`meshtool - OBJ mesh loader and binary cache utility

Usage:
  meshtool [flags] <command> [args]

Commands:
  info <file.obj>      Parse a mesh and show counts and bounds
  cache <file.obj>     Parse a mesh and write its binary cache
  verify <file.obj>    Check an existing cache against its source
  load <file.obj>      Load a mesh from its binary cache
  config [path]        Write the effective config as YAML

Flags:
  -config <path>       Config file (default ./meshtool.yaml)
  -debug               Enable debug logging
  -log-file <path>     Also write logs to a rotating file
  -cache               Write the cache after parsing (info)
  -no-verify           Skip read-back verification after writing
  -prefer-cache        Use an up-to-date cache instead of parsing (info)
  -scale <f>           Uniform vertex scale

Examples:
  meshtool info dungeon.obj
  meshtool -scale 0.01 cache dungeon.obj
  meshtool load dungeon.obj`)
}

func newLoader(cfg *config.Config) *mesh.Loader {
	return &mesh.Loader{
		Scale:       cfg.Mesh.Scale,
		WriteCache:  cfg.Cache.Write,
		VerifyCache: cfg.Cache.Verify,
		Logger:      logger.Named("mesh"),
	}
}

func requirePath(command string, args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("usage: meshtool %s <file.obj>", command)
	}
	return args[0], nil
}

func newManager(cfg *config.Config) (*assets.Manager, error) {
	mgr := assets.NewManager(newLoader(cfg), cfg.Cache.Prefer)
	for _, dir := range cfg.Mesh.SearchPaths {
		if err := mgr.AddSearchDir(dir); err != nil {
			return nil, err
		}
	}
	return mgr, nil
}

func cmdInfo(cfg *config.Config, args []string) error {
	name, err := requirePath("info", args)
	if err != nil {
		return err
	}

	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}
	defer mgr.Close()

	path, err := mgr.Resolve(name)
	if err != nil {
		return err
	}
	source := "text"
	if cfg.Cache.Prefer && assets.CacheFresh(path) {
		source = "cache"
	}

	m, err := mgr.Load(path)
	if err != nil {
		return err
	}

	printMesh(os.Stdout, m, source)
	return nil
}

func printMesh(w io.Writer, m *mesh.Mesh, source string) {
	fmt.Fprintf(w, "Mesh:       %s (%s)\n", m.FileName(), source)
	fmt.Fprintf(w, "Vertices:   %d\n", m.VertCount())
	if m.IsEmpty() {
		fmt.Fprintf(w, "Triangles:  0 (empty)\n")
		return
	}
	bmin, bmax := m.Bounds()
	fmt.Fprintf(w, "Triangles:  %d\n", m.TriCount())
	fmt.Fprintf(w, "Degenerate: %d\n", mesh.DegenerateCount(m.Normals()))
	fmt.Fprintf(w, "Bounds:     (%g, %g, %g) - (%g, %g, %g)\n",
		bmin.X, bmin.Y, bmin.Z, bmax.X, bmax.Y, bmax.Z)
}

func cmdCache(cfg *config.Config, args []string) error {
	path, err := requirePath("cache", args)
	if err != nil {
		return err
	}

	l := newLoader(cfg)
	l.WriteCache = true
	m, err := l.Load(path)
	if err != nil {
		return err
	}

	v, i, n := formats.CachePaths(path)
	fmt.Printf("Cached %d vertices, %d triangles\n", m.VertCount(), m.TriCount())
	fmt.Printf("  %s\n  %s\n  %s\n", v, i, n)
	return nil
}

func cmdVerify(cfg *config.Config, args []string) error {
	path, err := requirePath("verify", args)
	if err != nil {
		return err
	}

	l := newLoader(cfg)
	l.WriteCache = false
	m, err := l.Load(path)
	if err != nil {
		return err
	}

	data := &formats.CacheData{
		Vertices: m.Verts(),
		Indices:  m.Tris(),
		Normals:  m.Normals(),
	}
	if err := formats.VerifyCache(path, data); err != nil {
		if errors.Is(err, formats.ErrCacheIntegrity) {
			return fmt.Errorf("cache is stale: %w", err)
		}
		return err
	}

	fmt.Printf("Cache matches %s\n", path)
	return nil
}

func cmdLoad(cfg *config.Config, args []string) error {
	path, err := requirePath("load", args)
	if err != nil {
		return err
	}

	m, err := newLoader(cfg).LoadBinary(path)
	if err != nil {
		return err
	}

	printMesh(os.Stdout, m, "cache")
	return nil
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", args[0])
		return nil
	}

	path, err := cfg.Save()
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
