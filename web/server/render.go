package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/export"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// Request limits
const (
	maxImageSize = 2000
	maxDepth     = 10
)

var contentTypes = map[export.Format]string{
	export.FormatPNG:  "image/png",
	export.FormatPPM:  "image/x-portable-pixmap",
	export.FormatWebP: "image/webp",
	export.FormatBMP:  "image/bmp",
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene     string        `json:"scene"`     // Scene ID from /api/scenes
	Width     int           `json:"width"`     // Image width (0 = scene camera width)
	Height    int           `json:"height"`    // Image height (0 = scene camera height)
	Antialias int           `json:"antialias"` // Anti-aliasing level 1-5
	Depth     int           `json:"depth"`     // Maximum recursion depth
	Format    export.Format `json:"format"`    // Encoding for /api/render
}

// RenderResponse is the JSON result of /api/render/json
type RenderResponse struct {
	Scene     string           `json:"scene"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	ImageData string           `json:"imageData"` // Base64 encoded PNG
	Stats     Stats            `json:"stats"`
	Console   []ConsoleMessage `json:"console"`
	ElapsedMs int64            `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	PrimaryRays     int     `json:"primaryRays"`
	Rays            int64   `json:"rays"`
	ShadowRays      int64   `json:"shadowRays"`
	Intersections   int64   `json:"intersections"`
	Tiles           int     `json:"tiles"`
	Workers         int     `json:"workers"`
	RaysPerSecond   float64 `json:"raysPerSecond"`
}

func newStats(rs renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:     rs.TotalPixels,
		SamplesPerPixel: rs.SamplesPerPixel,
		PrimaryRays:     rs.PrimaryRays,
		Rays:            rs.World.Rays,
		ShadowRays:      rs.World.ShadowRays,
		Intersections:   rs.World.Intersections,
		Tiles:           rs.Tiles,
		Workers:         rs.Workers,
		RaysPerSecond:   rs.RaysPerSecond(),
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: "default", Format: export.FormatPNG}

	if sceneID := query.Get("scene"); sceneID != "" {
		req.Scene = sceneID
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 1, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 1, maxImageSize); err != nil {
		return nil, err
	}
	if req.Antialias, err = parseIntParam(query, "aa", config.MinAntialias, config.MinAntialias, config.MaxAntialias); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", config.DefaultConfig().MaxRecursion, 1, maxDepth); err != nil {
		return nil, err
	}

	if format := query.Get("format"); format != "" {
		req.Format = export.Format(format)
		if _, ok := contentTypes[req.Format]; !ok {
			return nil, fmt.Errorf("unsupported format: %s", format)
		}
	}
	return req, nil
}

// renderRequest renders the requested scene in parallel. Cancelling ctx
// abandons the remaining tiles.
func (s *Server) renderRequest(ctx context.Context, req *RenderRequest, logger core.Logger) (image.Image, renderer.RenderStats, error) {
	sceneObj, err := s.createScene(req.Scene, logger)
	if err != nil {
		return nil, renderer.RenderStats{}, err
	}

	cfg := config.DefaultConfig()
	cfg.Width = req.Width
	cfg.Height = req.Height
	cfg.Antialias = req.Antialias
	cfg.MaxRecursion = req.Depth
	cfg.Parallel = true

	camera := cfg.ApplyCamera(sceneObj.Camera)
	w := cfg.ApplyWorld(sceneObj.World)

	canvas, stats, err := renderer.NewRenderer(camera, w, cfg.RendererConfig(), logger).Render(ctx)
	if err != nil {
		return nil, stats, err
	}
	return export.ToImage(canvas), stats, nil
}

// renderFailed reports a render error. A cancelled request means the client
// went away, so nothing useful can be written.
func renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		log.Printf("Render abandoned: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

// handleRender renders a scene and returns the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	img, stats, err := s.renderRequest(r.Context(), req, NewWebLogger(req.Scene, nil))
	if err != nil {
		renderFailed(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, img, req.Format); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	w.Header().Set("Content-Type", contentTypes[req.Format])
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time", stats.Duration.String())
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleRenderJSON renders a scene and returns the image as base64 PNG with
// statistics and the render log
func (s *Server) handleRenderJSON(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan := make(chan ConsoleMessage, 100)
	startTime := time.Now()
	img, stats, err := s.renderRequest(r.Context(), req, NewWebLogger(req.Scene, consoleChan))
	close(consoleChan)
	if err != nil {
		renderFailed(w, r, err)
		return
	}

	imageData, err := imageToBase64PNG(img)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode image: %v", err))
		return
	}

	console := []ConsoleMessage{}
	for msg := range consoleChan {
		console = append(console, msg)
	}

	writeJSON(w, http.StatusOK, RenderResponse{
		Scene:     req.Scene,
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		ImageData: imageData,
		Stats:     newStats(stats),
		Console:   console,
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
