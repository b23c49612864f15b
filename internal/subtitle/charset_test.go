package subtitle

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name         string
		data         []byte
		encoding     string
		expected     string
		expectedName string
	}{
		{
			name:         "utf-8 detected",
			data:         []byte("caf\xc3\xa9"),
			expected:     "café",
			expectedName: "UTF-8",
		},
		{
			name:         "utf-8 bom stripped",
			data:         []byte("\xef\xbb\xbfhi"),
			expected:     "hi",
			expectedName: "UTF-8",
		},
		{
			name:         "empty input",
			data:         []byte{},
			expected:     "",
			expectedName: "UTF-8",
		},
		{
			name:         "explicit windows-1252",
			data:         []byte("caf\xe9 cr\xe8me"),
			encoding:     "windows-1252",
			expected:     "café crème",
			expectedName: "windows-1252",
		},
		{
			name:         "explicit koi8-r",
			data:         []byte{0xf0, 0xd2, 0xc9, 0xd7, 0xc5, 0xd4},
			encoding:     "KOI8-R",
			expected:     "Привет",
			expectedName: "KOI8-R",
		},
		{
			name:         "explicit utf-8 is case insensitive",
			data:         []byte("ok"),
			encoding:     "utf-8",
			expected:     "ok",
			expectedName: "UTF-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, name, err := Decode(tt.data, tt.encoding)
			if err != nil {
				t.Fatalf("Decode returned error: %v", err)
			}
			if text != tt.expected {
				t.Errorf("text = %q, want %q", text, tt.expected)
			}
			if name != tt.expectedName {
				t.Errorf("encoding = %q, want %q", name, tt.expectedName)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, _, err := Decode([]byte("x"), "no-such-charset"); err == nil {
		t.Error("expected error for unknown encoding")
	}
	if _, _, err := Decode([]byte("caf\xe9"), "UTF-8"); err == nil {
		t.Error("expected error for invalid UTF-8")
	}
}

func TestDecodeDetectsLegacyEncoding(t *testing.T) {
	line := "Le caf\xe9 est pr\xeat, nous allons au march\xe9 demain matin avec les enfants.\n"
	data := []byte(strings.Repeat(line, 20))

	text, name, err := Decode(data, "")
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if name == "UTF-8" {
		t.Errorf("expected a legacy encoding to be detected")
	}
	if !utf8.ValidString(text) {
		t.Errorf("decoded text is not valid UTF-8")
	}
	if !strings.Contains(text, "café") {
		t.Errorf("decoded text lost accents: %q", text[:40])
	}
}
