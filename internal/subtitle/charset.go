package subtitle

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gogs/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

const encodingUTF8 = "UTF-8"

// chardet names that IANA knows under a different spelling
var charsetAliases = map[string]string{
	"GB-18030": "GB18030",
}

// Decode converts raw subtitle bytes to a string. An empty encodingName
// means detect; the name of the encoding actually used is returned so a
// failed parse can be retried with a different one.
func Decode(data []byte, encodingName string) (string, string, error) {
	encodingName = strings.TrimSpace(encodingName)
	if encodingName == "" {
		detected, err := detectEncoding(data)
		if err != nil {
			return "", "", err
		}
		encodingName = detected
	}

	if strings.EqualFold(encodingName, encodingUTF8) {
		if !utf8.Valid(data) {
			return "", "", fmt.Errorf("content is not valid %s", encodingUTF8)
		}
		return strings.TrimPrefix(string(data), "\ufeff"), encodingUTF8, nil
	}

	enc, err := lookupEncoding(encodingName)
	if err != nil {
		return "", "", err
	}

	decoded, err := io.ReadAll(
		transform.NewReader(bytes.NewReader(data), enc.NewDecoder()),
	)
	if err != nil {
		return "", "", fmt.Errorf("decode %s: %w", encodingName, err)
	}

	return strings.TrimPrefix(string(decoded), "\ufeff"), encodingName, nil
}

func detectEncoding(data []byte) (string, error) {
	if len(data) == 0 || utf8.Valid(data) {
		return encodingUTF8, nil
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "", fmt.Errorf("detect encoding: %w", err)
	}
	if alias, ok := charsetAliases[result.Charset]; ok {
		return alias, nil
	}
	return result.Charset, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}
