// file: internal/legacy/image.go
// version: 1.0.0
// guid: 93a6d1f4-e28c-4b57-a0d3-6c1f9b4e7a28

package legacy

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jdfalk/blist/internal/playlist"
)

// ImageEncoding selects how the legacy image field is interpreted
type ImageEncoding int

const (
	// ImageAuto treats strings starting with "data:" as data URIs and
	// everything else as bare base64.
	ImageAuto ImageEncoding = iota
	// ImageBase64 expects bare base64 and sniffs the decoded bytes
	ImageBase64
	// ImageDataURI expects a data:image/...;base64, prefix
	ImageDataURI
)

// ErrInvalidImage is wrapped by every image decoding failure
var ErrInvalidImage = errors.New("invalid legacy playlist image")

var dataURIPattern = regexp.MustCompile(`(?i)^data:image/([a-z0-9.+-]+);base64, *`)

// String returns the flag spelling of the encoding
func (e ImageEncoding) String() string {
	switch e {
	case ImageBase64:
		return "base64"
	case ImageDataURI:
		return "datauri"
	default:
		return "auto"
	}
}

// ParseImageEncoding parses auto, base64 or datauri
func ParseImageEncoding(s string) (ImageEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ImageAuto, nil
	case "base64":
		return ImageBase64, nil
	case "datauri", "data-uri":
		return ImageDataURI, nil
	default:
		return ImageAuto, fmt.Errorf("unknown image encoding %q (want auto, base64 or datauri)", s)
	}
}

// decodeImage returns the cover kind and bytes held by image. A kind of
// CoverUnknown with a nil error means the image is dropped.
func decodeImage(image string, enc ImageEncoding) (playlist.CoverKind, []byte, error) {
	if strings.TrimSpace(image) == "" {
		return playlist.CoverUnknown, nil, nil
	}

	isDataURI := strings.HasPrefix(strings.ToLower(image), "data:")
	switch enc {
	case ImageBase64:
		isDataURI = false
	case ImageDataURI:
		if !isDataURI {
			return playlist.CoverUnknown, nil, fmt.Errorf("%w: expected a data URI", ErrInvalidImage)
		}
	}

	if !isDataURI {
		data, err := decodeBase64(image)
		if err != nil {
			return playlist.CoverUnknown, nil, err
		}
		kind := playlist.SniffCoverKind(data)
		if kind == playlist.CoverUnknown {
			return playlist.CoverUnknown, nil, nil
		}
		return kind, data, nil
	}

	match := dataURIPattern.FindStringSubmatch(image)
	if match == nil {
		return playlist.CoverUnknown, nil, fmt.Errorf("%w: malformed data URI", ErrInvalidImage)
	}
	// The declared MIME type decides the kind; the bytes are not sniffed.
	var kind playlist.CoverKind
	switch strings.ToLower(match[1]) {
	case "png":
		kind = playlist.CoverPNG
	case "jpg", "jpeg":
		kind = playlist.CoverJPEG
	default:
		return playlist.CoverUnknown, nil, nil
	}
	data, err := decodeBase64(image[len(match[0]):])
	if err != nil {
		return playlist.CoverUnknown, nil, err
	}
	return kind, data, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)

	data, err := base64.StdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}
	// Some writers dropped the padding.
	if raw, rawErr := base64.RawStdEncoding.DecodeString(s); rawErr == nil {
		return raw, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
}
