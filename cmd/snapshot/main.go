// Command snapshot renders the scene on the CPU without a window. It writes
// PNG or ASCII previews and can dump or load the grass instances.
package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"math"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"meadow/internal/logger"
	"meadow/pkg/config"
	"meadow/pkg/grass"
	"meadow/pkg/preview"
	"meadow/pkg/scene"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	mode := flag.String("mode", "sky", "What to render: sky, blob or grass")
	elapsed := flag.Float64("time", 0, "Elapsed time in milliseconds")
	tod := flag.Float64("tod", -1, "Time of day in [0,1); negative derives it from -time")
	px := flag.Float64("px", 0, "Pointer x in surface coordinates")
	py := flag.Float64("py", 0, "Pointer y in surface coordinates")
	out := flag.String("out", "", "PNG output path")
	ascii := flag.Bool("ascii", false, "Print an ASCII rendering to stdout")
	cols := flag.Int("cols", 80, "ASCII columns")
	rows := flag.Int("rows", 24, "ASCII rows")
	dumpPath := flag.String("instances", "", "Write the grass instances to this file")
	loadPath := flag.String("load", "", "Read grass instances from this file instead of generating them")
	flag.Parse()

	cfg, cfgErr := config.LoadConfig(*configPath)
	appLogger := logger.New(cfg.Log.Level, os.Stderr)
	if cfgErr != nil {
		appLogger.Warnf("%v", cfgErr)
	}

	frame := scene.Frame{
		ElapsedMs: *elapsed,
		TimeOfDay: timeOfDay(*tod, *elapsed, cfg.Clock.DayLength),
		Pointer:   mgl64.Vec2{*px, *py},
	}

	r := preview.NewRenderer(cfg.Preview, cfg.Sky.Params(), cfg.Blob.Params(), appLogger)

	var img *image.RGBA
	switch *mode {
	case "sky":
		img = r.Sky(frame.TimeOfDay)
	case "blob":
		img = r.Blob(frame)
	case "grass":
		p := cfg.Grass.Params()
		instances, err := loadInstances(*loadPath, p, appLogger)
		if err != nil {
			log.Fatalf("Failed to load instances: %v", err)
		}
		if *dumpPath != "" {
			if err := dumpInstances(*dumpPath, p, instances); err != nil {
				log.Fatalf("Failed to write instances: %v", err)
			}
			appLogger.Infof("wrote %d instances to %s", len(instances), *dumpPath)
		}

		gc := cfg.Grass
		noise := grass.NewWindTexture(gc.WindTextureSize, gc.TextureSeed, gc.WindScale)
		clouds := grass.NewCloudTexture(gc.CloudTextureSize, gc.TextureSeed, gc.CloudPeriod)
		img = r.Grass(p, instances, noise, noise, clouds, frame.ElapsedMs)
	default:
		log.Fatalf("Unknown mode %q", *mode)
	}

	if *out != "" {
		if err := writePNG(*out, img); err != nil {
			log.Fatalf("Failed to write image: %v", err)
		}
		appLogger.Infof("wrote %s", *out)
	}
	if *ascii || *out == "" {
		fmt.Print(preview.ASCII(img, *cols, *rows, cfg.Preview.CharSet))
	}
}

// timeOfDay wraps an explicit tod into [0,1). A negative tod derives it from
// the elapsed time instead.
func timeOfDay(tod, elapsedMs float64, dayLength time.Duration) float64 {
	if tod < 0 {
		return scene.TimeOfDay(elapsedMs, dayLength)
	}
	if math.IsInf(tod, 1) || math.IsNaN(tod) {
		return 0
	}
	return math.Mod(tod, 1)
}

func loadInstances(path string, p grass.Params, log *logger.Logger) ([]grass.Instance, error) {
	if path == "" {
		return grass.NewField(p).Instances(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, instances, err := grass.ReadInstances(f)
	if err != nil {
		return nil, err
	}
	if header.PlaneSize != p.PlaneSize {
		log.Warnf("dump plane size %v differs from config %v", header.PlaneSize, p.PlaneSize)
	}
	return instances, nil
}

func dumpInstances(path string, p grass.Params, instances []grass.Instance) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := grass.WriteInstances(f, p, instances); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := preview.WritePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
