package extract

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// sniffLen is how many leading bytes are sampled for encoding detection.
const sniffLen = 1024

// textEncoding is the detected encoding of a requirement-list file.
type textEncoding int

const (
	encodingUTF8 textEncoding = iota
	encodingUTF16
)

// textByte reports whether b is allowed in plain text. The allowlist covers
// the common control characters 0x07-0x0D and ESC plus every printable byte
// 0x20-0xFF except DEL.
func textByte(b byte) bool {
	switch {
	case b >= 0x07 && b <= 0x0D:
		return true
	case b == 0x1B:
		return true
	case b >= 0x20 && b != 0x7F:
		return true
	}
	return false
}

// detectEncoding samples up to sniffLen bytes of data and decides how the
// file should be decoded. UTF-8 is the primary assumption; any byte outside
// the plain-text allowlist switches to the UTF-16 fallback. This is a
// heuristic for tolerating mixed-encoding manifest files (UTF-16
// requirement files are common on Windows), not a general charset sniffer.
func detectEncoding(data []byte) textEncoding {
	sample := data
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}
	for _, b := range sample {
		if !textByte(b) {
			return encodingUTF16
		}
	}
	return encodingUTF8
}

// decodeLines splits manifest content into lines, decoding UTF-16 first
// when detectEncoding flags the content as non-UTF-8. A byte order mark is
// honored when present; without one, little-endian is assumed.
func decodeLines(data []byte, logf func(string, ...any)) ([]string, error) {
	if detectEncoding(data) == encodingUTF16 {
		logf("content is possibly not UTF-8, retrying as UTF-16")
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}
	return strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n"), nil
}
