package cover

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	titleSize    = 60
	subtitleSize = 35
	titleTop     = 0.4
	subtitleGap  = 10
)

var (
	shadowColor = color.RGBA{A: 255}
	textColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// loadFonts returns the title and subtitle fonts. A custom font file is used
// for both lines.
func loadFonts(path string) (title, subtitle *opentype.Font, err error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return f, f, nil
	}

	title, err = opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, nil, err
	}
	subtitle, err = opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, nil, err
	}
	return title, subtitle, nil
}

// overlay centres the title at 40% of the height with the subtitle below
// it, each with a drop shadow.
func overlay(img *image.RGBA, opts Options) error {
	titleFont, subtitleFont, err := loadFonts(opts.FontPath)
	if err != nil {
		return err
	}

	scale := float64(img.Bounds().Dx()) / DefaultSize
	titleFace, err := opentype.NewFace(titleFont, &opentype.FaceOptions{Size: titleSize * scale, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return err
	}
	defer titleFace.Close()

	top := int(float64(img.Bounds().Dy()) * titleTop)
	height := drawCentered(img, titleFace, opts.Title, top, int(2*scale+0.5))

	if opts.Subtitle == "" {
		return nil
	}
	subFace, err := opentype.NewFace(subtitleFont, &opentype.FaceOptions{Size: subtitleSize * scale, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return err
	}
	defer subFace.Close()

	drawCentered(img, subFace, opts.Subtitle, top+height+int(subtitleGap*scale), max(1, int(scale+0.5)))
	return nil
}

// drawCentered draws text with its top edge at top and returns the text height
func drawCentered(img *image.RGBA, face font.Face, text string, top, shadow int) int {
	bounds, _ := font.BoundString(face, text)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	height := (bounds.Max.Y - bounds.Min.Y).Ceil()

	x := (img.Bounds().Dx()-width)/2 - bounds.Min.X.Floor()
	baseline := top - bounds.Min.Y.Floor()

	d := &font.Drawer{Dst: img, Face: face}
	d.Src = image.NewUniform(shadowColor)
	d.Dot = fixed.P(x+shadow, baseline+shadow)
	d.DrawString(text)

	d.Src = image.NewUniform(textColor)
	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
	return height
}
