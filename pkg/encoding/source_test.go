package encoding

import (
	"bytes"
	"testing"
)

func TestDecodeSource_NoBOM(t *testing.T) {
	// Latin-1 bytes must survive untouched.
	data := []byte("# caf\xe9\nv 1 2 3\n")
	got, err := DecodeSource(data)
	if err != nil {
		t.Fatalf("DecodeSource failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("DecodeSource changed data without BOM: %q", got)
	}
}

func TestDecodeSource_UTF8BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, "v 1 2 3\n"...)
	got, err := DecodeSource(data)
	if err != nil {
		t.Fatalf("DecodeSource failed: %v", err)
	}
	if string(got) != "v 1 2 3\n" {
		t.Errorf("expected BOM stripped, got %q", got)
	}
}

func TestDecodeSource_UTF8BOMKeepsBytes(t *testing.T) {
	// Bytes that are not valid UTF-8 after the BOM are not replaced.
	body := "# caf\xe9\nv 1 2 3\n"
	data := append([]byte{0xEF, 0xBB, 0xBF}, body...)
	got, err := DecodeSource(data)
	if err != nil {
		t.Fatalf("DecodeSource failed: %v", err)
	}
	if string(got) != body {
		t.Errorf("expected %q, got %q", body, got)
	}
}

func TestDecodeSource_UTF16(t *testing.T) {
	tests := []struct {
		name      string
		bigEndian bool
	}{
		{"little endian", false},
		{"big endian", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const text = "v 0 0 0\nf 1 2 3\n"
			data, err := EncodeUTF16(text, tt.bigEndian)
			if err != nil {
				t.Fatalf("EncodeUTF16 failed: %v", err)
			}
			if !HasBOM(data) {
				t.Fatal("expected encoded data to carry a BOM")
			}

			got, err := DecodeSource(data)
			if err != nil {
				t.Fatalf("DecodeSource failed: %v", err)
			}
			if string(got) != text {
				t.Errorf("expected %q, got %q", text, got)
			}
		})
	}
}

func TestHasBOM(t *testing.T) {
	tests := []struct {
		data     []byte
		expected bool
	}{
		{[]byte{0xEF, 0xBB, 0xBF, 'v'}, true},
		{[]byte{0xFF, 0xFE, 'v', 0}, true},
		{[]byte{0xFE, 0xFF, 0, 'v'}, true},
		{[]byte("v 1 2 3"), false},
		{nil, false},
	}

	for _, tc := range tests {
		if got := HasBOM(tc.data); got != tc.expected {
			t.Errorf("HasBOM(%q) = %v, expected %v", tc.data, got, tc.expected)
		}
	}
}
