// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package screenshot captures rendered frames to image files.
//
// [Capture] asks the renderer for a frame and returns immediately. The
// renderer fills the buffer on its render path and calls back; the frame is
// then flipped, converted and written there. Failures are logged and
// reported through [WithOnComplete], never to the emulation.
package screenshot

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/emuhost"
	"github.com/gogpu/emuhost/layout"
	"github.com/gogpu/emuhost/video"
)

var (
	// ErrUnsupportedFormat is returned for a path whose extension has no
	// encoder.
	ErrUnsupportedFormat = errors.New("screenshot: unsupported image format")

	// ErrNilRenderer is returned when Capture is called without a renderer.
	ErrNilRenderer = errors.New("screenshot: nil renderer")
)

// Format is an output image format.
type Format uint8

const (
	PNG Format = iota
	JPEG
	BMP
	TIFF
)

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Option configures a capture.
type Option func(*options)

type options struct {
	docked     bool
	quality    int
	onComplete func(path string, err error)
}

// WithDocked captures at the docked screen size.
func WithDocked(docked bool) Option {
	return func(o *options) { o.docked = docked }
}

// WithJPEGQuality sets the JPEG quality, 1 to 100.
func WithJPEGQuality(q int) Option {
	return func(o *options) { o.quality = q }
}

// WithOnComplete registers fn to receive the result. It is called exactly
// once, from the renderer's callback.
func WithOnComplete(fn func(path string, err error)) Option {
	return func(o *options) { o.onComplete = fn }
}

// Capture requests a frame from r and writes it to path.
//
// A zero scale uses the renderer's active resolution scale. Capture
// returns an error only when the request cannot be issued; write failures
// surface through WithOnComplete and the log.
func Capture(r video.Renderer, scale uint32, path string, opts ...Option) error {
	o := options{quality: 95}
	for _, opt := range opts {
		opt(&o)
	}
	if r == nil {
		return ErrNilRenderer
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if scale == 0 {
		scale = r.ResolutionScaleFactor()
	}

	fb := layout.FrameLayoutFromResolutionScale(scale, o.docked)
	buf := make([]byte, fb.BufferSize())
	emuhost.Logger().Debug("screenshot: requested", "path", path, "width", fb.Width, "height", fb.Height, "scale", scale)

	r.RequestScreenshot(buf, func() {
		err := save(path, format, o.quality, buf, fb)
		if err != nil {
			emuhost.Logger().Error("screenshot: failed to save", "path", path, "err", err)
		} else {
			emuhost.Logger().Info("screenshot: saved", "path", path)
		}
		if o.onComplete != nil {
			o.onComplete(path, err)
		}
	}, fb)
	return nil
}

func save(path string, format Format, quality int, buf []byte, fb layout.Framebuffer) error {
	img := ToImage(buf, fb.Width, fb.Height)

	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, img, format, quality); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format Format, quality int) error {
	switch format {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return ErrUnsupportedFormat
	}
}

// ToImage converts a bottom-up BGRX frame to a top-down opaque RGBA image.
func ToImage(buf []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	stride := width * 4
	for y := 0; y < height; y++ {
		src := buf[(height-1-y)*stride : (height-y)*stride]
		dst := img.Pix[y*img.Stride : y*img.Stride+stride]
		for x := 0; x < stride; x += 4 {
			dst[x+0] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x+0]
			dst[x+3] = 0xff
		}
	}
	return img
}
