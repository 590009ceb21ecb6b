// Package storage processes and persists recipe images.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/anonto42/foodhelper/backend/internal/apperr"
)

const (
	// MaxImageSide bounds both dimensions of a stored picture.
	MaxImageSide = 1024
	// MaxImageBytes bounds the decoded payload of an upload.
	MaxImageBytes = 6 << 20
	// MaxImagePixels bounds the canvas an upload may declare before it is decoded.
	MaxImagePixels = 4096 * 4096
)

// Key prefixes for stored images.
const (
	RecipeImages = "recipes"
	AvatarImages = "avatars"
)

// ImageStore persists encoded images and hands back their public URL.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Image is a decoded, resized picture ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Key returns a fresh object key for the image under dir.
func (img *Image) Key(dir string) string {
	return dir + "/" + uuid.NewString() + img.Ext
}

// Prepare decodes a base64 data URL ("data:image/png;base64,...") and fits it within
// MaxImageSide. PNG stays PNG; every other format is re-encoded as JPEG.
func Prepare(dataURL string) (*Image, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, apperr.Validation("image must be a base64 encoded data URL")
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return nil, apperr.Validation("image is too large")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperr.Validation("image is not valid base64")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, apperr.Validation("image could not be decoded")
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, apperr.Validation("image dimensions are too large")
	}

	src, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperr.Validation("image could not be decoded")
	}

	b := src.Bounds()
	if b.Dx() > MaxImageSide || b.Dy() > MaxImageSide {
		src = imaging.Fit(src, MaxImageSide, MaxImageSide, imaging.Lanczos)
	}

	img := &Image{ContentType: "image/jpeg", Ext: ".jpg"}
	format := imaging.JPEG
	if strings.HasPrefix(header, "data:image/png") {
		img.ContentType, img.Ext, format = "image/png", ".png", imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	img.Data = buf.Bytes()
	return img, nil
}
