// Package preview evaluates the scene's shaders on the CPU. It is used for
// headless snapshots and to check the GPU output against the Go shading code.
package preview

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"meadow/internal/logger"
	"meadow/internal/util"
	"meadow/pkg/blob"
	"meadow/pkg/config"
	"meadow/pkg/grass"
	"meadow/pkg/scene"
	"meadow/pkg/sky"
)

// Renderer shades images with the sky, blob and grass models
type Renderer struct {
	cfg    config.PreviewConfig
	sky    sky.Params
	blob   blob.Params
	logger *logger.Logger
}

// NewRenderer creates a preview renderer
func NewRenderer(cfg config.PreviewConfig, skyParams sky.Params, blobParams blob.Params, log *logger.Logger) *Renderer {
	if cfg.Width <= 0 {
		cfg.Width = 1
	}
	if cfg.Height <= 0 {
		cfg.Height = 1
	}
	return &Renderer{
		cfg:    cfg,
		sky:    skyParams,
		blob:   blobParams,
		logger: log,
	}
}

// Size returns the output image size
func (r *Renderer) Size() (int, int) {
	return r.cfg.Width, r.cfg.Height
}

// shade evaluates fn for every pixel. Rows are split across goroutines and
// each goroutine owns its rows of the image.
func (r *Renderer) shade(name string, fn func(x, y int) mgl64.Vec3) *image.RGBA {
	width, height := r.cfg.Width, r.cfg.Height
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	workers := util.Workers(r.cfg.Workers)

	start := time.Now()
	var wg sync.WaitGroup
	util.SplitRows(height, workers, func(startRow, endRow int) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := startRow; y < endRow; y++ {
				for x := 0; x < width; x++ {
					img.SetRGBA(x, y, toRGBA(fn(x, y)))
				}
			}
		}()
	})
	wg.Wait()

	if r.logger != nil {
		r.logger.Debugf("preview %s %dx%d with %d workers in %v", name, width, height, workers, time.Since(start))
	}
	return img
}

// fragCoord is the centre of pixel (x, y) with the origin bottom-left
func (r *Renderer) fragCoord(x, y int) mgl64.Vec2 {
	return mgl64.Vec2{float64(x) + 0.5, float64(r.cfg.Height-1-y) + 0.5}
}

// Sky renders the dome as seen on screen at timeOfDay
func (r *Renderer) Sky(timeOfDay float64) *image.RGBA {
	res := mgl64.Vec2{float64(r.cfg.Width), float64(r.cfg.Height)}
	return r.shade("sky", func(x, y int) mgl64.Vec3 {
		return r.sky.Shade(r.fragCoord(x, y), res, timeOfDay)
	})
}

// Blob renders the front face of the surface filling the image
func (r *Renderer) Blob(frame scene.Frame) *image.RGBA {
	return r.shade("blob", func(x, y int) mgl64.Vec3 {
		frag := r.fragCoord(x, y)
		pos := mgl64.Vec2{
			frag.X()/float64(r.cfg.Width)*2 - 1,
			frag.Y()/float64(r.cfg.Height)*2 - 1,
		}
		c := r.blob.Shade(blob.FaceUV(pos), pos, frame.ElapsedMs, frame.Pointer)
		return c.Vec3()
	})
}

// Grass renders the field from above. Each blade tip is bent by the wind and
// binned into a pixel; covered pixels take the ground colour, scaled by how
// many blades landed there.
func (r *Renderer) Grass(p grass.Params, instances []grass.Instance, wind, noise, clouds grass.Sampler, elapsedMs float64) *image.RGBA {
	width, height := r.cfg.Width, r.cfg.Height
	counts := make([]int, width*height)
	tip := mgl64.Vec3{0, p.BladeHeight, 0}

	if p.PlaneSize > 0 {
		for _, in := range instances {
			pos := p.DisplaceVertex(in, tip, wind, elapsedMs)
			uv := grass.FieldUV(mgl64.Vec2{pos.X(), pos.Z()}, p.PlaneSize)
			x := int(math.Floor(uv.X() * float64(width)))
			y := int(math.Floor(uv.Y() * float64(height)))
			if x < 0 || y < 0 || x >= width || y >= height {
				continue
			}
			counts[y*width+x]++
		}
	}

	peak := 1
	for _, c := range counts {
		peak = max(peak, c)
	}

	return r.shade("grass", func(x, y int) mgl64.Vec3 {
		n := counts[y*width+x]
		if n == 0 {
			return mgl64.Vec3{}
		}
		uv := mgl64.Vec2{(float64(x) + 0.5) / float64(width), (float64(y) + 0.5) / float64(height)}
		coverage := 0.25 + 0.75*float64(n)/float64(peak)
		return grass.Color(uv, elapsedMs, noise, clouds).Mul(coverage)
	})
}

func toRGBA(c mgl64.Vec3) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(util.Clamp01(c[0]) * 255)),
		G: uint8(math.Round(util.Clamp01(c[1]) * 255)),
		B: uint8(math.Round(util.Clamp01(c[2]) * 255)),
		A: 255,
	}
}

// WritePNG encodes img as PNG
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
