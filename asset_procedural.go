package weatherfx

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

const (
	rainTextureWidth  = 8
	rainTextureHeight = 32
	snowTextureSize   = 32

	// circleKappa places cubic control points so four segments approximate a circle.
	circleKappa = 0.5522847498
)

// RainStreakImage draws a thin vertical streak whose alpha ramps from
// transparent at the top to opaque at the bottom.
func RainStreakImage(width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	src := image.NewNRGBA(dst.Bounds())
	for y := 0; y < height; y++ {
		a := uint8(0)
		if height > 1 {
			a = uint8(255 * y / (height - 1))
		}
		for x := 0; x < width; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: a})
		}
	}

	half := float32(width) / 4
	cx := float32(width) / 2
	z := vector.NewRasterizer(width, height)
	z.DrawOp = draw.Over
	z.MoveTo(cx-half, 0)
	z.LineTo(cx+half, 0)
	z.LineTo(cx+half, float32(height))
	z.LineTo(cx-half, float32(height))
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), src, image.Point{})
	return dst
}

// SnowDiscImage draws a soft round flake: a filled circle whose alpha falls
// off quadratically towards the rim.
func SnowDiscImage(size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))

	c := float32(size) / 2
	r := c - 1
	src := image.NewNRGBA(dst.Bounds())
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - float64(c)
			dy := float64(y) + 0.5 - float64(c)
			d := math.Sqrt(dx*dx+dy*dy) / float64(r)
			a := 1 - d*d
			if a < 0 {
				a = 0
			}
			src.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: uint8(a * 255)})
		}
	}

	k := r * circleKappa
	z := vector.NewRasterizer(size, size)
	z.DrawOp = draw.Over
	z.MoveTo(c+r, c)
	z.CubeTo(c+r, c+k, c+k, c+r, c, c+r)
	z.CubeTo(c-k, c+r, c-r, c+k, c-r, c)
	z.CubeTo(c-r, c-k, c-k, c-r, c, c-r)
	z.CubeTo(c+k, c-r, c+r, c-k, c+r, c)
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), src, image.Point{})
	return dst
}

// CreateParticleTexture registers the procedural texture for a population kind.
func (server *AssetServer) CreateParticleTexture(kind Kind) AssetId {
	var img *image.RGBA
	if kind == Snow {
		img = SnowDiscImage(snowTextureSize)
	} else {
		img = RainStreakImage(rainTextureWidth, rainTextureHeight)
	}
	b := img.Bounds()
	id := server.CreateTexture(img.Pix, uint32(b.Dx()), uint32(b.Dy()), TextureFormatRGBA8Unorm)

	tex := server.textures[id]
	tex.Premultiplied = true
	server.textures[id] = tex
	return id
}
