// Package encoding provides text decoding for mesh source files.
package encoding

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// HasBOM reports whether data starts with a UTF-8 or UTF-16 byte order mark.
func HasBOM(data []byte) bool {
	return bytes.HasPrefix(data, bomUTF8) ||
		bytes.HasPrefix(data, bomUTF16LE) ||
		bytes.HasPrefix(data, bomUTF16BE)
}

// DecodeSource returns data as UTF-8 text with any byte order mark removed.
// A UTF-8 BOM is stripped and the remaining bytes are kept as they are.
// UTF-16 input marked with a BOM is transcoded. Data without a BOM is
// returned unchanged, so legacy 8-bit files pass through byte for byte.
func DecodeSource(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, bomUTF8) {
		return bytes.TrimPrefix(data, bomUTF8), nil
	}
	if !HasBOM(data) {
		return data, nil
	}
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// EncodeUTF16 encodes UTF-8 text as UTF-16 with a byte order mark.
func EncodeUTF16(s string, bigEndian bool) ([]byte, error) {
	order := unicode.LittleEndian
	if bigEndian {
		order = unicode.BigEndian
	}
	encoder := unicode.UTF16(order, unicode.UseBOM).NewEncoder()
	result, _, err := transform.Bytes(encoder, []byte(s))
	if err != nil {
		return nil, err
	}
	return result, nil
}
