// spinerender renders one posed frame of a skinned 2D skeletal
// character to an offscreen target and writes it as a PNG.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/VeggiesLabs/spinerender/internal/app"
	"github.com/VeggiesLabs/spinerender/internal/config"
	"github.com/VeggiesLabs/spinerender/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	if os.Args[1] != "render" {
		fmt.Fprintf(os.Stderr, "spinerender: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	render, extras, err := config.ParseRender(os.Args[2:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "spinerender:", err)
		os.Exit(1)
	}

	settings, err := config.LoadSettings(extras)
	if err != nil {
		fmt.Fprintln(os.Stderr, "spinerender:", err)
		os.Exit(1)
	}

	if err := logger.Init(settings.Logging.Level, settings.Logging.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, "spinerender:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := app.Run(render, settings); err != nil {
		logger.Error("render failed", zap.Error(err))
		logger.Sync()
		fmt.Fprintln(os.Stderr, "spinerender:", err)
		os.Exit(1)
	}

	logger.Info("capture written", zap.String("out", render.OutPath))
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: spinerender render [flags]

Render one posed frame of a skeletal character to a PNG.

  --json path       skeleton JSON file (exclusive with --bin)
  --bin path        skeleton binary file (exclusive with --json)
  --atlas path      texture atlas file (required)
  --animation name  animation to sample (required)
  --out path        output PNG path (default out.png)
  --base-skin name  base skin to compose first
  --skins a,b,c     overlay skins, applied in order
  --x, --y offset   position offset in world units
  --scale factor    uniform scale, must be positive (default 1.0)
  --loop            capture after one full animation loop
  --cull            discard back-facing triangles
  --runtime name    animation runtime to use (default spine)
  --config path     settings YAML file (default spinerender.yaml)
  --debug           force debug logging
`)
}
