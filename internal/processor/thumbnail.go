package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/geosym/internal/catalog"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ThumbnailFile is the name of the converted map thumbnail in the images directory.
const ThumbnailFile = "thumbnail.webp"

// Thumbnail converts the configured map thumbnail to WebP, scaled down to
// the configured width. It returns the written path, or "" when no
// thumbnail is configured.
func (p *Processor) Thumbnail(ctx context.Context) (string, error) {
	src := p.cfg.Map.Thumbnail
	if src == "" {
		return "", nil
	}

	img, err := p.loadImage(ctx, src)
	if err != nil {
		return "", err
	}

	img = scaleToWidth(img, p.cfg.Map.ThumbnailWidth)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: false, Quality: 85}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	dst := filepath.Join(p.cfg.Output.ImagesDir, ThumbnailFile)
	if err := catalog.WriteFile(dst, buf.Bytes()); err != nil {
		return "", err
	}

	log.Info().
		Str("source", src).
		Str("path", dst).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("Thumbnail written")

	return dst, nil
}

// scaleToWidth resizes img with CatmullRom keeping the aspect ratio.
// Images already narrower than width are returned unchanged.
func scaleToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || b.Dx() <= width {
		return img
	}

	height := b.Dy() * width / b.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func (p *Processor) loadImage(ctx context.Context, source string) (image.Image, error) {
	var reader io.Reader

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		log.Info().Str("url", source).Msg("Downloading thumbnail")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("download failed: %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(body)
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()

		reader = f
	}

	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	log.Debug().Str("format", format).Msg("Image decoded")
	return img, nil
}
