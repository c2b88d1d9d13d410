// boxtool is a CLI utility for working with box-model documents.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Faultbox/boxedit/internal/assets"
	"github.com/Faultbox/boxedit/internal/config"
	"github.com/Faultbox/boxedit/internal/editor"
	"github.com/Faultbox/boxedit/internal/engine/texture"
	"github.com/Faultbox/boxedit/internal/logger"
	"github.com/Faultbox/boxedit/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "validate", "check":
		cmdValidate(args)
	case "info":
		cmdInfo(args)
	case "roundtrip", "export":
		cmdRoundtrip(args)
	case "uvmap", "uv":
		cmdUVMap(args)
	case "watch":
		cmdWatch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`boxtool - box-model document utility

Usage:
  boxtool <command> [options]

Commands:
  validate <model>              Check a document against the model schema
  info <model>                  Show the pivot tree and cube counts
  roundtrip [options] <model>   Load into a scene and export it again
  uvmap [options] <model>       Draw the UV layout of every cube
  watch [options] <model>       Re-export whenever the model or texture changes

A model may be a file path, an http(s) URL or a data URI.

Examples:
  boxtool validate creeper.json
  boxtool info https://example.com/models/creeper.json
  boxtool roundtrip -pretty -o out.json creeper.json
  boxtool uvmap -scale 8 -o creeper_uv.webp creeper.json`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func initLogging(verbose bool) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		fail(err)
	}
}

func readModel(ctx context.Context, loader *assets.Loader, ref string) (*formats.Model, error) {
	data, err := loader.ReadBytes(ctx, ref)
	if err != nil {
		return nil, err
	}
	return formats.ParseModel(data)
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: boxtool validate <model>...")
		os.Exit(1)
	}
	initLogging(*verbose)
	defer logger.Sync()

	loader := assets.NewLoader()
	failed := 0
	for _, ref := range fs.Args() {
		_, err := readModel(context.Background(), loader, ref)
		if err == nil {
			fmt.Printf("%s: ok\n", ref)
			continue
		}
		failed++

		var perr *formats.ParseError
		if errors.As(err, &perr) && perr.Cause == nil {
			fmt.Printf("%s: %d error(s)\n", ref, len(perr.Errors))
			for _, fe := range perr.Errors {
				fmt.Printf("  %s\n", fe)
			}
			continue
		}
		fmt.Printf("%s: %v\n", ref, err)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: boxtool info <model>")
		os.Exit(1)
	}
	initLogging(*verbose)
	defer logger.Sync()

	m, err := readModel(context.Background(), assets.NewLoader(), fs.Arg(0))
	if err != nil {
		fail(err)
	}

	stats := m.Stats()
	aw, ah := texture.AtlasSize(m)
	tex := m.TextureRef()
	if strings.HasPrefix(tex, "data:") {
		tex = "(embedded)"
	} else if tex == "" {
		tex = "(none)"
	}

	fmt.Printf("Model:     %s\n", m.Name)
	fmt.Printf("Texture:   %s\n", tex)
	fmt.Printf("Atlas:     %dx%d\n", aw, ah)
	fmt.Printf("Origin:    %s\n", m.InitialTranslation)
	fmt.Printf("Pivots:    %d (%d hidden)\n", stats.Renderers, stats.Hidden)
	fmt.Printf("Cubes:     %d\n", stats.Cubes)
	fmt.Printf("Depth:     %d\n", stats.MaxDepth)
	fmt.Println()

	m.Walk(func(r *formats.ModelRenderer, path []string) bool {
		indent := strings.Repeat("  ", len(path)-1)
		hidden := ""
		if !r.Visible {
			hidden = " [hidden]"
		}
		fmt.Printf("%s%s  pivot %s  cubes %d%s\n", indent, r.Name, r.RotationPoint, len(r.Cubes), hidden)
		return true
	})
}

func cmdRoundtrip(args []string) {
	fs := flag.NewFlagSet("roundtrip", flag.ExitOnError)
	output := fs.String("o", "", "Output file (default stdout)")
	tex := fs.String("texture", "", "Texture to use instead of the model's reference")
	pretty := fs.Bool("pretty", false, "Indent the output")
	strict := fs.Bool("strict", false, "Fail when a pivot has lost its name")
	embed := fs.Bool("embed", true, "Embed the texture as a data URI")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: boxtool roundtrip [options] <model>")
		os.Exit(1)
	}
	initLogging(*verbose)
	defer logger.Sync()

	session := editor.NewSession(editor.Options{
		PrettyExport:  *pretty,
		StrictFlatten: *strict,
		EmbedTexture:  *embed,
		FetchTimeout:  30 * time.Second,
	})
	defer session.Close()

	if err := session.Load(context.Background(), fs.Arg(0), *tex); err != nil {
		fail(err)
	}
	data, err := session.Export()
	if err != nil {
		fail(err)
	}
	if err := writeOutput(*output, data); err != nil {
		fail(err)
	}
}

func cmdUVMap(args []string) {
	fs := flag.NewFlagSet("uvmap", flag.ExitOnError)
	output := fs.String("o", "", "Output image, .png or .webp (default <model>_uv.png)")
	tex := fs.String("texture", "", "Texture to draw under the guide")
	bare := fs.Bool("bare", false, "Draw on a transparent atlas even when the model has a texture")
	scale := fs.Int("scale", 4, "Output pixels per atlas pixel")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: boxtool uvmap [options] <model>")
		os.Exit(1)
	}
	initLogging(*verbose)
	defer logger.Sync()

	modelRef := fs.Arg(0)
	session := editor.NewSession(editor.Options{FetchTimeout: 30 * time.Second})
	defer session.Close()

	textureRef := *tex
	if *bare {
		m, err := readModel(context.Background(), session.Loader(), modelRef)
		if err != nil {
			fail(err)
		}
		m.Texture = nil
		if err := session.LoadModel(m, nil); err != nil {
			fail(err)
		}
	} else if err := session.Load(context.Background(), modelRef, textureRef); err != nil {
		fail(err)
	}

	var base image.Image
	if t := session.Texture(); t != nil {
		base = t.Image
	}
	guide := texture.DrawUVGuide(session.Model(), base, texture.GuideOptions{Scale: *scale})

	path := *output
	if path == "" {
		base := filepath.Base(modelRef)
		if assets.KindOf(modelRef) == assets.KindData {
			base = "model"
		}
		path = strings.TrimSuffix(base, filepath.Ext(base)) + "_uv.png"
	}

	f, err := os.Create(path)
	if err != nil {
		fail(err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		err = texture.EncodeWebP(f, guide)
	default:
		err = texture.EncodePNG(f, guide)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fail(err)
	}
	fmt.Printf("Wrote %s (%dx%d)\n", path, guide.Rect.Dx(), guide.Rect.Dy())
}

func cmdWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	output := fs.String("o", "", "Re-export to this file after every reload")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: boxtool watch [options] <model>")
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fail(err)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fail(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := editor.NewSession(editor.OptionsFromConfig(cfg.Editor))
	defer session.Close()

	if err := session.Load(ctx, fs.Arg(0), cfg.Editor.DefaultTexture); err != nil {
		fail(err)
	}

	export := func() {
		if *output == "" {
			return
		}
		data, err := session.Export()
		if err == nil {
			err = writeOutput(*output, data)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "export: %v\n", err)
			return
		}
		fmt.Printf("Exported %s\n", *output)
	}
	export()

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", strings.Join(session.LocalFiles(), ", "))
	err = editor.Live(ctx, session, cfg.Watch.Debounce, func(err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "reload: %v\n", err)
			return
		}
		stats := session.Model().Stats()
		fmt.Printf("Reloaded %s: %d pivots, %d cubes\n", session.Model().Name, stats.Renderers, stats.Cubes)
		export()
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fail(err)
	}
}

func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
