// Package imageprobe inspects and scales release artwork fetched from the
// Discogs image CDN.
package imageprobe

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	"image/png"
	"mime"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/sydlexius/discogs/model"
)

// Format is an image container recognized by its leading bytes.
type Format string

// Recognized formats.
const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
	GIF  Format = "gif"
	WebP Format = "webp"
)

// Ext returns the file extension, with dot.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	if f == "" {
		return ""
	}
	return "." + string(f)
}

// MIME returns the media type for f.
func (f Format) MIME() string {
	if f == "" {
		return ""
	}
	return "image/" + string(f)
}

// ErrUnknownFormat is returned when the bytes match no recognized format.
var ErrUnknownFormat = errors.New("unrecognized image format")

var signatures = []struct {
	format Format
	offset int
	magic  string
}{
	{JPEG, 0, "\xff\xd8\xff"},
	{PNG, 0, "\x89PNG\r\n\x1a\n"},
	{GIF, 0, "GIF8"},
	{WebP, 0, "RIFF"},
}

// Sniff identifies the format from the first bytes of an image.
func Sniff(head []byte) (Format, error) {
	for _, s := range signatures {
		end := s.offset + len(s.magic)
		if len(head) < end || string(head[s.offset:end]) != s.magic {
			continue
		}
		if s.format == WebP && (len(head) < 12 || string(head[8:12]) != "WEBP") {
			continue
		}
		return s.format, nil
	}
	return "", ErrUnknownFormat
}

// Info is what a probe learns from the image bytes.
type Info struct {
	Format Format
	Width  int
	Height int
	Bytes  int

	// Declared is the media type the server sent, without parameters.
	Declared string
}

// Probe sniffs data and decodes only its header. contentType is the
// Content-Type the image was served with and may be empty.
func Probe(data []byte, contentType string) (Info, error) {
	format, err := Sniff(data)
	if err != nil {
		return Info{}, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("decoding %s header: %w", format, err)
	}
	info := Info{Format: format, Width: cfg.Width, Height: cfg.Height, Bytes: len(data)}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		info.Declared = mt
	}
	return info, nil
}

// Mislabeled reports whether the server declared a different image type
// than the bytes contain.
func (i Info) Mislabeled() bool {
	return i.Declared != "" && i.Declared != i.Format.MIME()
}

// Matches reports whether the probed dimensions agree with what the API
// listed for img. Zero listed dimensions are treated as unknown.
func (i Info) Matches(img model.Image) bool {
	if img.Width == 0 || img.Height == 0 {
		return true
	}
	return i.Width == img.Width && i.Height == img.Height
}

// Thumbnail scales data to fit a box x box square, keeping the aspect ratio.
// JPEG stays JPEG; everything else is written as PNG.
func Thumbnail(data []byte, box int) ([]byte, Format, error) {
	if box < 1 {
		return nil, "", fmt.Errorf("thumbnail size must be positive, got %d", box)
	}
	format, err := Sniff(data)
	if err != nil {
		return nil, "", err
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", format, err)
	}

	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), box)
	out := src
	if w != b.Dx() || h != b.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		out = dst
	}

	var buf bytes.Buffer
	if format == JPEG {
		err = jpeg.Encode(&buf, out, &jpeg.Options{Quality: 85})
	} else {
		format = PNG
		err = png.Encode(&buf, out)
	}
	if err != nil {
		return nil, "", fmt.Errorf("encoding %s thumbnail: %w", format, err)
	}
	return buf.Bytes(), format, nil
}

// fit shrinks w x h into a box x box square. Images that already fit are
// returned unchanged; neither side drops below one pixel.
func fit(w, h, box int) (int, int) {
	if w <= box && h <= box {
		return w, h
	}
	if w >= h {
		return box, max(h*box/w, 1)
	}
	return max(w*box/h, 1), box
}
