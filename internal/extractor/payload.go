package extractor

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/sassoftware/go-rpmutils"
	"github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"

	"github.com/yeager/rpmcheck/internal/models"
)

// Magic bytes for payload compression detection
var (
	gzipMagic  = []byte{0x1F, 0x8B}
	xzMagic    = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
	zstdMagic  = []byte{0x28, 0xB5, 0x2F, 0xFD}
	bzip2Magic = []byte("BZh")
)

// probeLimit bounds how much decompressed payload is read to confirm
// the stream opens cleanly.
const probeLimit = 64 * 1024

// probePayload compares the header-declared payload compressor against
// the payload's actual magic bytes and confirms the stream decompresses.
// The reader must be positioned at the payload start.
func probePayload(rpm *rpmutils.Rpm, r io.Reader) models.PayloadFacts {
	declared := "gzip" // RPM's historical default when the tag is absent
	if val, err := rpm.Header.Get(rpmutils.PAYLOADCOMPRESSOR); err == nil {
		if s := tagString(val); s != "" {
			declared = s
		}
	}

	head := make([]byte, 6)
	n, _ := io.ReadFull(r, head)
	head = head[:n]

	detected := detectCompressor(head)
	payload := io.MultiReader(bytes.NewReader(head), r)

	return models.PayloadFacts{
		Declared: declared,
		Detected: detected,
		Readable: payloadReadable(detected, payload),
	}
}

// detectCompressor matches payload magic bytes.
func detectCompressor(head []byte) string {
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return "gzip"
	case bytes.HasPrefix(head, xzMagic):
		return "xz"
	case bytes.HasPrefix(head, zstdMagic):
		return "zstd"
	case bytes.HasPrefix(head, bzip2Magic):
		return "bzip2"
	default:
		return ""
	}
}

// payloadReadable opens the payload with the detected compressor and
// reads a bounded prefix. Unsupported compressors report unreadable
// rather than failing extraction.
func payloadReadable(detected string, payload io.Reader) bool {
	var reader io.Reader
	switch detected {
	case "gzip":
		gz, err := gzip.NewReader(payload)
		if err != nil {
			return false
		}
		defer gz.Close()
		reader = gz
	case "xz":
		xr, err := xz.NewReader(payload)
		if err != nil {
			return false
		}
		reader = xr
	case "zstd":
		zr, err := zstd.NewReader(payload)
		if err != nil {
			return false
		}
		defer zr.Close()
		reader = zr
	default:
		return false
	}

	_, err := io.CopyN(io.Discard, reader, probeLimit)
	if err != nil && err != io.EOF {
		logrus.Debugf("payload probe failed: %v", err)
		return false
	}
	return true
}
