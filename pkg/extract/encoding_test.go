package extract

import (
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want textEncoding
	}{
		{"plain ascii", []byte("requests==2.28.0\n"), encodingUTF8},
		{"tabs and newlines", []byte("a\tb\r\nc\n"), encodingUTF8},
		{"bell and escape", []byte{0x07, 0x1B, 'a'}, encodingUTF8},
		{"high bytes", []byte{0xC3, 0xA9}, encodingUTF8},
		{"null byte", []byte{'a', 0x00, 'b'}, encodingUTF16},
		{"delete byte", []byte{'a', 0x7F}, encodingUTF16},
		{"control byte", []byte{0x01, 'a'}, encodingUTF16},
		{"empty", nil, encodingUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectEncoding(tt.data); got != tt.want {
				t.Errorf("detectEncoding() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectEncoding_SniffWindow(t *testing.T) {
	// Bytes past the first 1024 must not influence detection.
	data := make([]byte, sniffLen+1)
	for i := range data {
		data[i] = 'a'
	}
	data[sniffLen] = 0x00

	if got := detectEncoding(data); got != encodingUTF8 {
		t.Errorf("detectEncoding() = %v, want %v", got, encodingUTF8)
	}
}

func TestDecodeLines_UTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte("pkg-a==1.0\npkg-b\n"))
	if err != nil {
		t.Fatal(err)
	}

	lines, err := decodeLines(data, func(string, ...any) {})
	if err != nil {
		t.Fatalf("decodeLines failed: %v", err)
	}

	var names []string
	for _, line := range lines {
		if n := packageName(line); n != "" {
			names = append(names, n)
		}
	}
	if len(names) != 2 || names[0] != "pkg-a" || names[1] != "pkg-b" {
		t.Errorf("names = %v, want [pkg-a pkg-b]", names)
	}
}

func TestDecodeLines_CRLF(t *testing.T) {
	lines, err := decodeLines([]byte("a\r\nb\nc"), func(string, ...any) {})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 3 || lines[0] != "a" || lines[1] != "b" || lines[2] != "c" {
		t.Errorf("lines = %v, want [a b c]", lines)
	}
}
