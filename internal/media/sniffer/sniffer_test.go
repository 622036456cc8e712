package sniffer

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	tests := []struct {
		name string
		head []byte
		want MediaType
		mime string
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, TypeJPEG, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, TypePNG, "image/png"},
		{"gif87a", []byte("GIF87a......"), TypeGIF, "image/gif"},
		{"gif89a", []byte("GIF89a......"), TypeGIF, "image/gif"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), TypeWEBP, "image/webp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := DetectHead(tt.head)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Type)
			assert.Equal(t, tt.mime, result.MIME)
		})
	}
}

func TestDetectHeadRejectsNonRaster(t *testing.T) {
	heads := map[string][]byte{
		"empty":     nil,
		"truncated": {0xFF, 0xD8},
		"svg":       []byte("<svg xmlns=\"http://www.w3.org/2000/svg\"/>"),
		"pdf":       []byte("%PDF-1.4"),
		"riff-wav":  []byte("RIFF\x00\x00\x00\x00WAVEfmt "),
	}
	for name, head := range heads {
		t.Run(name, func(t *testing.T) {
			_, err := DetectHead(head)
			assert.ErrorIs(t, err, ErrUnknownType)
		})
	}
}

func TestMimeTypeFromHTTP(t *testing.T) {
	header := http.Header{}
	assert.Equal(t, "", MimeTypeFromHTTP(header))

	header.Set("Content-Type", "image/png")
	assert.Equal(t, "image/png", MimeTypeFromHTTP(header))

	header.Set("Content-Type", "text/html; charset=utf-8")
	assert.Equal(t, "text/html", MimeTypeFromHTTP(header))
}
