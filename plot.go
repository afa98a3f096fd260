// plot.go - PNG waveform plots of rendered samples

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	PLOT_WIDTH  = 1200
	PLOT_HEIGHT = 360
	PLOT_MARGIN = 20
)

var (
	plotBackground = color.RGBA{0x10, 0x10, 0x18, 0xFF}
	plotAxis       = color.RGBA{0x40, 0x40, 0x50, 0xFF}
	plotTrace      = color.RGBA{0xFF, 0x14, 0x93, 0xFF}
	plotText       = color.RGBA{0xE0, 0xE0, 0xE0, 0xFF}
)

// plotWaveform draws samples in [-1, 1] as a min/max envelope per pixel
// column, so long renders stay readable.
func plotWaveform(samples []float32, width, height int, title string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(plotBackground), image.Point{}, draw.Src)

	plotW := width - 2*PLOT_MARGIN
	plotH := height - 2*PLOT_MARGIN
	if plotW <= 0 || plotH <= 0 {
		return img
	}
	mid := float32(PLOT_MARGIN + plotH/2)
	amp := float32(plotH / 2)

	axis := vector.NewRasterizer(width, height)
	rect(axis, PLOT_MARGIN, mid, float32(PLOT_MARGIN+plotW), mid+1)
	rect(axis, PLOT_MARGIN, PLOT_MARGIN, PLOT_MARGIN+1, float32(PLOT_MARGIN+plotH))
	axis.Draw(img, img.Bounds(), image.NewUniform(plotAxis), image.Point{})

	if len(samples) > 0 {
		trace := vector.NewRasterizer(width, height)
		for x := 0; x < plotW; x++ {
			i0 := x * len(samples) / plotW
			i1 := max((x+1)*len(samples)/plotW, i0+1)
			lo, hi := samples[i0], samples[i0]
			for _, s := range samples[i0:min(i1, len(samples))] {
				lo, hi = min(lo, s), max(hi, s)
			}
			lo, hi = max(lo, -1), min(hi, 1)
			top := mid - hi*amp
			bottom := max(mid-lo*amp, top+1)
			px := float32(PLOT_MARGIN + x)
			rect(trace, px, top, px+1, bottom)
		}
		trace.Draw(img, img.Bounds(), image.NewUniform(plotTrace), image.Point{})
	}

	if title != "" {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(plotText),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(PLOT_MARGIN+4, PLOT_MARGIN-5),
		}
		d.DrawString(title)
	}
	return img
}

func rect(r *vector.Rasterizer, x0, y0, x1, y1 float32) {
	r.MoveTo(x0, y0)
	r.LineTo(x1, y0)
	r.LineTo(x1, y1)
	r.LineTo(x0, y1)
	r.ClosePath()
}

func writePlotPNG(w io.Writer, samples []float32, title string) error {
	return png.Encode(w, plotWaveform(samples, PLOT_WIDTH, PLOT_HEIGHT, title))
}
