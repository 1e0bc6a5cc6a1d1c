package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"swarm-survivor/internal/game"

	"github.com/fogleman/gg"
)

type renderer struct {
	width    int
	height   int
	fontPath string
}

func newRenderer(width, height int) *renderer {
	return &renderer{
		width:    width,
		height:   height,
		fontPath: findFontPath(),
	}
}

// renderFrame draws one snapshot and writes it as a PNG.
func (r *renderer) renderFrame(snap *game.Snapshot, path string) error {
	dc := gg.NewContext(r.width, r.height)

	r.drawBackground(dc)
	r.drawGrid(dc)
	r.drawOrbs(dc, snap.Orbs)
	r.drawProjectiles(dc, snap.Projectiles)
	r.drawEnemies(dc, snap.Enemies)
	r.drawPlayer(dc, snap.Player)
	r.drawHUD(dc, snap)

	return dc.SavePNG(path)
}

func (r *renderer) drawBackground(dc *gg.Context) {
	dc.SetColor(color.RGBA{12, 12, 28, 255})
	dc.DrawRectangle(0, 0, float64(r.width), float64(r.height))
	dc.Fill()

	// Sparse star field, fixed positions so diffs stay stable
	dc.SetColor(color.RGBA{60, 60, 90, 255})
	for i := 0; i < 30; i++ {
		x := float64((i * 67) % r.width)
		y := float64((i * 47) % r.height)
		dc.DrawCircle(x, y, 1)
		dc.Fill()
	}
}

func (r *renderer) drawGrid(dc *gg.Context) {
	dc.SetColor(color.RGBA{30, 30, 45, 255})
	dc.SetLineWidth(1)

	gridSize := 100.0
	for x := 0.0; x < float64(r.width); x += gridSize {
		dc.DrawLine(x, 0, x, float64(r.height))
		dc.Stroke()
	}
	for y := 0.0; y < float64(r.height); y += gridSize {
		dc.DrawLine(0, y, float64(r.width), y)
		dc.Stroke()
	}
}

func (r *renderer) drawOrbs(dc *gg.Context, orbs []game.OrbSnapshot) {
	for _, o := range orbs {
		c := color.RGBA{46, 204, 113, 255}
		if o.IsBeingCollected {
			c = color.RGBA{130, 240, 170, 255}
		}
		dc.SetColor(c)
		dc.DrawCircle(o.Pos.X, o.Pos.Y, o.Size)
		dc.Fill()
	}
}

func (r *renderer) drawProjectiles(dc *gg.Context, projectiles []game.ProjectileSnapshot) {
	for _, p := range projectiles {
		dc.SetColor(parseHexColor(p.Color))
		dc.DrawCircle(p.Pos.X, p.Pos.Y, p.Size)
		dc.Fill()
	}
}

func (r *renderer) drawEnemies(dc *gg.Context, enemies []game.EnemySnapshot) {
	for _, e := range enemies {
		dc.SetColor(parseHexColor(e.Color))
		dc.DrawCircle(e.Pos.X, e.Pos.Y, e.Size)
		dc.Fill()

		// Health bar only once damaged
		if e.Health < e.MaxHealth {
			r.drawHealthBar(dc, e.Pos.X, e.Pos.Y-e.Size-8, e.Size*2, e.Health/e.MaxHealth)
		}
	}
}

func (r *renderer) drawPlayer(dc *gg.Context, p game.PlayerSnapshot) {
	// Shadow
	dc.SetColor(color.RGBA{0, 0, 0, 128})
	dc.DrawCircle(p.Pos.X, p.Pos.Y+4, p.Size)
	dc.Fill()

	// Pickup radius hint
	dc.SetColor(color.RGBA{52, 152, 219, 26})
	dc.DrawCircle(p.Pos.X, p.Pos.Y, p.PickupRadius)
	dc.Fill()

	// Body
	dc.SetColor(color.RGBA{52, 152, 219, 255})
	dc.DrawCircle(p.Pos.X, p.Pos.Y, p.Size)
	dc.Fill()

	// Border
	dc.SetColor(color.White)
	dc.SetLineWidth(3)
	dc.DrawCircle(p.Pos.X, p.Pos.Y, p.Size)
	dc.Stroke()

	r.drawHealthBar(dc, p.Pos.X, p.Pos.Y-p.Size-12, 60, p.Health/p.MaxHealth)
}

func (r *renderer) drawHealthBar(dc *gg.Context, cx, y, width, percent float64) {
	if percent < 0 {
		percent = 0
	}
	height := 6.0

	dc.SetColor(color.RGBA{51, 51, 51, 255})
	dc.DrawRectangle(cx-width/2, y, width, height)
	dc.Fill()

	if percent > 0.5 {
		dc.SetColor(color.RGBA{83, 255, 69, 255})
	} else if percent > 0.25 {
		dc.SetColor(color.RGBA{255, 149, 0, 255})
	} else {
		dc.SetColor(color.RGBA{255, 62, 62, 255})
	}
	dc.DrawRectangle(cx-width/2, y, width*percent, height)
	dc.Fill()
}

func (r *renderer) drawHUD(dc *gg.Context, snap *game.Snapshot) {
	if r.fontPath == "" {
		return
	}

	dc.SetColor(color.White)
	if err := dc.LoadFontFace(r.fontPath, 20); err != nil {
		return
	}

	hud := snap.HUD
	dc.DrawString(fmt.Sprintf("Score %d", hud.Score), 16, 28)
	dc.DrawString(fmt.Sprintf("Kills %d", hud.Kills), 16, 52)
	dc.DrawString(fmt.Sprintf("Lv %d", hud.Level), 16, 76)
	dc.DrawString(fmt.Sprintf("%.0fs", hud.SurvivalTime/1000), 16, 100)
	dc.DrawString(fmt.Sprintf("x%.1f", hud.Difficulty), 16, 124)

	if snap.Phase != "PLAYING" {
		if err := dc.LoadFontFace(r.fontPath, 42); err == nil {
			dc.DrawStringAnchored(snap.Phase, float64(r.width)/2, float64(r.height)/2, 0.5, 0.5)
		}
	}
}

func parseHexColor(hex string) color.RGBA {
	if len(hex) != 7 || hex[0] != '#' {
		return color.RGBA{255, 255, 255, 255}
	}

	var r, g, b uint8
	fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	return color.RGBA{r, g, b, 255}
}

func findFontPath() string {
	// Try common font locations
	paths := []string{
		"C:\\Windows\\Fonts\\arial.ttf",
		"C:\\Windows\\Fonts\\segoeui.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/System/Library/Fonts/Helvetica.ttc",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	// Try to find any ttf in current directory
	matches, _ := filepath.Glob("*.ttf")
	if len(matches) > 0 {
		return matches[0]
	}

	return ""
}
