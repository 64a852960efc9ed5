// Interactive renderer preview - blob, graph, and tuning sliders.
//
// Usage: go run ./cmd/gooview [-config path] [-seed N] [-trace out.csv]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"honnef.co/go/curve"

	"github.com/pthm-cable/goop"
	"github.com/pthm-cable/goop/config"
	"github.com/pthm-cable/goop/motion"
	"github.com/pthm-cable/goop/noise"
	"github.com/pthm-cable/goop/telemetry"
)

const (
	windowWidth  = 1000
	windowHeight = 720

	// Blob container (square, sized by motion.container_px)
	containerX = 30
	containerY = 30

	// Graph strip below the container; curve y coordinates from the
	// configured axis land inside it directly
	graphX = 30
	graphY = 430

	panelX     = 450
	panelWidth = windowWidth - panelX - 20

	bgGridSize = 128
)

var trendAngles = []float64{0, 45, 90, 135, 180}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	tracePath := flag.String("trace", "", "CSV trace output path (overrides telemetry config)")
	seed := flag.Int64("seed", 0, "Noise seed (0 = time-based)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	noiseSeed := *seed
	if noiseSeed == 0 {
		noiseSeed = time.Now().UnixNano()
	}

	eng, err := buildEngine(cfg, noiseSeed)
	if err != nil {
		slog.Error("failed to build renderer", "error", err)
		os.Exit(1)
	}
	eng.OnZoneChange(func(prev, next string) {
		slog.Info("zone change", "from", prev, "to", next)
	})

	// Trace recorder, flag wins over config
	out := *tracePath
	if out == "" && cfg.Telemetry.Enabled {
		out = cfg.Telemetry.Path
	}
	var rec *telemetry.Recorder
	if out != "" {
		rec, err = telemetry.Create(out)
		if err != nil {
			slog.Error("failed to open trace", "error", err)
			os.Exit(1)
		}
		defer rec.Close()
		slog.Info("tracing frames", "path", out)
	}

	slog.Info("starting preview", "seed", noiseSeed, "config", *configPath)

	rl.InitWindow(windowWidth, windowHeight, "goop preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	// Static FBM backdrop behind the container
	img := rl.GenImageColor(bgGridSize, bgGridSize, rl.Black)
	bgTex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(bgTex)
	updateBackdrop(bgTex, noiseSeed)

	container := float32(cfg.Motion.ContainerPx)
	value := float32(cfg.Engine.InitialValue)
	trendIdx := 2 // 90, matches the default initial trend angle
	timeMs := 0.0
	dragging := false
	needsRebuild := false

	for !rl.WindowShouldClose() {
		timeMs += float64(rl.GetFrameTime()) * 1000.0

		// Pointer drag inside the container drives the blob
		mouse := rl.GetMousePosition()
		inContainer := mouse.X >= containerX && mouse.X <= containerX+container &&
			mouse.Y >= containerY && mouse.Y <= containerY+container
		inGraph := mouse.X >= graphX && mouse.X <= graphX+300 &&
			mouse.Y >= graphY && mouse.Y <= graphY+260

		if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
			switch {
			case inContainer:
				dragging = eng.BeginDrag(float64(mouse.X), float64(mouse.Y))
			case inGraph:
				eng.SetCursorTarget(float64(mouse.X) - graphX)
			}
		}
		if dragging {
			if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
				eng.UpdateDrag(float64(mouse.X), float64(mouse.Y))
			} else {
				eng.EndDrag()
				dragging = false
			}
		}

		if rl.IsKeyPressed(rl.KeyL) {
			toggleLock(eng)
		}
		if rl.IsKeyPressed(rl.KeyT) {
			trendIdx = (trendIdx + 1) % len(trendAngles)
			eng.SetTrendAngle(trendAngles[trendIdx])
		}

		eng.Tick(timeMs)
		snap := eng.Snapshot()

		if rec != nil {
			err := rec.Write(telemetry.Record{
				TimeMs:      snap.TimeMs,
				PosX:        snap.PosX,
				PosY:        snap.PosY,
				Zone:        snap.Zone,
				Color:       snap.Color.Hex(),
				Scale:       snap.Scale,
				Morph:       snap.Morph,
				LockState:   snap.Lock.String(),
				EdgeState:   snap.Edge.String(),
				CursorX:     snap.CursorX,
				CursorValue: snap.CursorValue,
			})
			if err != nil {
				slog.Error("writing trace", "error", err)
				rec.Close()
				rec = nil
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Container with backdrop
		rl.DrawTexturePro(
			bgTex,
			rl.Rectangle{X: 0, Y: 0, Width: bgGridSize, Height: bgGridSize},
			rl.Rectangle{X: containerX, Y: containerY, Width: container, Height: container},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(containerX, containerY, int32(container), int32(container), rl.DarkGray)

		drawBlob(snap, container)

		statsY := int32(containerY) + int32(container) + 8
		rl.DrawText(fmt.Sprintf("value: %.1f  zone: %s  scale: %.2f  morph: %.2f", snap.Value, snap.Zone, snap.Scale, snap.Morph), containerX, statsY, 14, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("lock: %s  edge: %s  trend: %.0f", snap.Lock, snap.Edge, trendAngles[trendIdx]), containerX, statsY+18, 14, rl.Gray)

		drawGraph(eng, cfg, snap)

		// Control panel
		py := float32(30)
		rl.DrawText("Renderer Parameters", panelX, int32(py), 20, rl.DarkGray)
		py += 35

		newValue := slider(&py, "Scalar value", value, 0, 100, "%.0f")
		if newValue != value {
			value = newValue
			eng.SetScalarValue(float64(value))
		}

		needsRebuild = sliderCfg(&py, "Radius amp", &cfg.Shape.RadiusAmp, 0, 0.5) || needsRebuild
		needsRebuild = sliderCfg(&py, "Angle amp", &cfg.Shape.AngleAmp, 0, 0.6) || needsRebuild
		needsRebuild = sliderCfg(&py, "Handle amp", &cfg.Shape.HandleAmp, 0, 0.8) || needsRebuild
		needsRebuild = sliderCfg(&py, "Tilt amp", &cfg.Shape.TiltAmp, 0, 0.8) || needsRebuild
		needsRebuild = sliderCfg(&py, "Morph speed", &cfg.Shape.MorphSpeed, 0.0001, 0.002) || needsRebuild
		needsRebuild = sliderCfg(&py, "Osc amplitude", &cfg.Motion.OscAmplitude, 0, 0.1) || needsRebuild
		needsRebuild = sliderCfg(&py, "Wobble amplitude", &cfg.Motion.WobbleAmplitude, 0, 0.08) || needsRebuild
		py += 10

		locked := snap.Lock == motion.CenterLocked
		if gui.Button(rl.Rectangle{X: panelX, Y: py, Width: 120, Height: 30}, toggleText(locked, "Unlock (L)", "Lock (L)")) {
			toggleLock(eng)
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: py, Width: 120, Height: 30}, fmt.Sprintf("Trend %.0f (T)", trendAngles[trendIdx])) {
			trendIdx = (trendIdx + 1) % len(trendAngles)
			eng.SetTrendAngle(trendAngles[trendIdx])
		}
		py += 45

		if needsRebuild && !rl.IsMouseButtonDown(rl.MouseButtonLeft) {
			fresh, err := buildEngine(cfg, noiseSeed)
			if err != nil {
				slog.Error("rebuild failed", "error", err)
			} else {
				eng = fresh
				eng.SetScalarValue(float64(value))
				eng.SetTrendAngle(trendAngles[trendIdx])
				eng.OnZoneChange(func(prev, next string) {
					slog.Info("zone change", "from", prev, "to", next)
				})
				if locked {
					eng.LockToCenter()
				}
				dragging = false
			}
			needsRebuild = false
		}

		rl.DrawText("Drag the blob. Click the graph to move the cursor.", panelX, windowHeight-30, 12, rl.LightGray)

		rl.EndDrawing()
	}
}

// buildEngine constructs a renderer with the demo curve installed.
func buildEngine(cfg *config.Config, seed int64) (*goop.Renderer, error) {
	eng, err := goop.New(cfg, seed)
	if err != nil {
		return nil, err
	}
	if err := eng.SetCurve(demoCurve()); err != nil {
		return nil, err
	}
	return eng, nil
}

// demoCurve wanders through all four default zones over x 0..300. Under the
// default axis a value v sits at y = 240 - 2v.
func demoCurve() []curve.CubicBez {
	return []curve.CubicBez{
		{P0: curve.Pt(0, 190), P1: curve.Pt(40, 190), P2: curve.Pt(60, 90), P3: curve.Pt(100, 90)},
		{P0: curve.Pt(100, 90), P1: curve.Pt(140, 90), P2: curve.Pt(160, 130), P3: curve.Pt(200, 130)},
		{P0: curve.Pt(200, 130), P1: curve.Pt(240, 130), P2: curve.Pt(260, 56), P3: curve.Pt(300, 56)},
	}
}

func toggleLock(eng *goop.Renderer) {
	if eng.Snapshot().Lock == motion.CenterLocked {
		eng.UnlockFromCenter()
	} else {
		eng.LockToCenter()
	}
}

// slider draws one labeled slider row and advances the panel cursor.
func slider(py *float32, label string, val, min, max float32, format string) float32 {
	rl.DrawText(label, panelX, int32(*py), 14, rl.Gray)
	*py += 18
	next := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: *py, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		val, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, val), panelX+int32(panelWidth-70), int32(*py+2), 16, rl.DarkGray)
	*py += 32
	return next
}

// sliderCfg binds a slider to a config field, reporting whether it moved.
func sliderCfg(py *float32, label string, field *float64, min, max float32) bool {
	next := slider(py, label, float32(*field), min, max, "%.4f")
	if next == float32(*field) {
		return false
	}
	*field = float64(next)
	return true
}

func drawBlob(snap goop.Snapshot, container float32) {
	cx := containerX + snap.PosX*float64(container)
	cy := containerY + snap.PosY*float64(container)
	col := toRL(snap.Color.RGB255())

	pts := outlinePoints(snap.Outline, cx, cy, snap.Scale)
	if len(pts) < 3 {
		return
	}

	// Soft translucent body under the stroke
	fill := col
	fill.A = 70
	maxR := float32(0)
	for _, p := range pts {
		dx := p.X - float32(cx)
		dy := p.Y - float32(cy)
		if r := dx*dx + dy*dy; r > maxR {
			maxR = r
		}
	}
	rl.DrawCircleV(rl.Vector2{X: float32(cx), Y: float32(cy)}, float32(math.Sqrt(float64(maxR)))*0.82, fill)

	for i := range pts {
		rl.DrawLineEx(pts[i], pts[(i+1)%len(pts)], 3, col)
	}
}

// outlinePoints flattens the outline path into screen-space points.
func outlinePoints(path curve.BezPath, cx, cy, scale float64) []rl.Vector2 {
	const steps = 18
	var pts []rl.Vector2
	for seg := range curve.Segments(path.Elements()) {
		cb := curve.CubicBez{P0: seg.P0, P1: seg.P1, P2: seg.P2, P3: seg.P3}
		for k := 0; k < steps; k++ {
			p := cb.Eval(float64(k) / steps)
			pts = append(pts, rl.Vector2{
				X: float32(cx + p.X*scale),
				Y: float32(cy + p.Y*scale),
			})
		}
	}
	return pts
}

func drawGraph(eng *goop.Renderer, cfg *config.Config, snap goop.Snapshot) {
	rl.DrawText("graph", graphX, graphY+20, 14, rl.Gray)

	// Zone boundary guides
	for _, zc := range cfg.Zones.Zones[:len(cfg.Zones.Zones)-1] {
		y := int32(graphY + valueToY(cfg, zc.Upper))
		rl.DrawLine(graphX, y, graphX+300, y, rl.LightGray)
	}
	for _, zc := range cfg.Zones.Zones {
		mid := (zc.Lower + zc.Upper) / 2
		rl.DrawText(zc.Name, graphX+306, int32(graphY+valueToY(cfg, mid))-6, 12, rl.LightGray)
	}

	// Curve, colored by zone with boundary blending
	const step = 2.0
	prevV, _ := eng.ValueAt(0)
	prev := rl.Vector2{X: graphX, Y: float32(graphY + valueToY(cfg, prevV))}
	for x := step; x <= 300; x += step {
		v, ok := eng.ValueAt(x)
		if !ok {
			break
		}
		pt := rl.Vector2{X: float32(graphX + x), Y: float32(graphY + valueToY(cfg, v))}
		c, _ := eng.ColorAt(x - step/2)
		rl.DrawLineEx(prev, pt, 3, toRL(c.RGB255()))
		prev = pt
	}

	// Spring cursor
	if snap.HasCurve {
		pos := rl.Vector2{X: float32(graphX + snap.CursorX), Y: float32(graphY + snap.CursorY)}
		rl.DrawCircleV(pos, 7, toRL(snap.CursorColor.RGB255()))
		rl.DrawCircleLines(int32(pos.X), int32(pos.Y), 7, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("%.1f", snap.CursorValue), int32(pos.X)-10, int32(pos.Y)-24, 14, rl.DarkGray)
	}
}

// valueToY maps a domain value onto the configured axis.
func valueToY(cfg *config.Config, v float64) float64 {
	a := cfg.Graph.Axis
	return a.MinY + (v-a.MinValue)/(a.MaxValue-a.MinValue)*(a.MaxY-a.MinY)
}

// updateBackdrop fills the background texture with soft FBM shading.
func updateBackdrop(texture rl.Texture2D, seed int64) {
	fbm := noise.FBM{
		Field:      noise.NewField(seed + 1),
		Octaves:    4,
		Lacunarity: 2.0,
		Gain:       0.5,
	}

	pixels := make([]color.RGBA, bgGridSize*bgGridSize)
	for y := 0; y < bgGridSize; y++ {
		for x := 0; x < bgGridSize; x++ {
			v := fbm.Sample(float64(x)*0.045, float64(y)*0.045)
			shade := uint8(228 + v*12)
			pixels[y*bgGridSize+x] = color.RGBA{R: shade, G: shade, B: uint8(230 + v*12), A: 255}
		}
	}
	rl.UpdateTexture(texture, pixels)
}

func toRL(r, g, b uint8) rl.Color {
	return rl.Color{R: r, G: g, B: b, A: 255}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
