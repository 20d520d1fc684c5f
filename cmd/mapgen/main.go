// Command mapgen generates a single layout offline and prints its debug overlay.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/ugaemi/facilitygen/internal/blueprint"
	"github.com/ugaemi/facilitygen/internal/catalog"
	"github.com/ugaemi/facilitygen/internal/geom"
	"github.com/ugaemi/facilitygen/internal/mapgen"
	"github.com/ugaemi/facilitygen/internal/overlay"
)

func main() {
	var (
		catalogPath = flag.String("catalog", "", "room library JSON (default: built-in set)")
		seed        = flag.Int64("seed", 0, "random seed (0 = time based)")
		maxRooms    = flag.Int("rooms", 20, "maximum number of rooms")
		width       = flag.Float64("width", 20, "cell width")
		height      = flag.Float64("height", 20, "cell height")
		verbose     = flag.Bool("v", false, "log every placement")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*catalogPath, *seed, *maxRooms, *width, *height); err != nil {
		fmt.Fprintln(os.Stderr, "mapgen:", err)
		os.Exit(1)
	}
}

func run(catalogPath string, seed int64, maxRooms int, width, height float64) error {
	lib := catalog.Default()
	if catalogPath != "" {
		var err error
		if lib, err = catalog.LoadFile(catalogPath); err != nil {
			return err
		}
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gen := mapgen.NewGenerator(lib, catalog.NewTemplateSpawner(), mapgen.Config{
		CellWidth:  width,
		CellHeight: height,
		Seed:       seed,
	})
	layout, err := gen.GenerateMap(geom.Zero, maxRooms)
	if err != nil {
		return err
	}

	bp := blueprint.New(layout, seed, blueprint.GenerateCode(rand.New(rand.NewSource(seed)), nil))
	fmt.Printf("seed %d: %d rooms (%s, %d discarded)\n", seed, len(bp.Rooms), bp.StopReason, bp.Discarded)
	return overlay.Render(os.Stdout, bp, overlay.Bounds(bp))
}
