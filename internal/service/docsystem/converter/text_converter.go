package converter

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"

	docsysSvc "reportdesk/internal/domain/services/docsystem"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText returns input as UTF-8 without a byte order mark. Input that
// is not valid UTF-8 is read as GB18030, the usual encoding of Chinese text
// saved on Windows.
func decodeText(input []byte) (string, error) {
	input = bytes.TrimPrefix(input, utf8BOM)
	if utf8.Valid(input) {
		return string(input), nil
	}

	decoded, err := simplifiedchinese.GB18030.NewDecoder().Bytes(input)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(decoded), nil
}

type textConverter struct{}

// NewTextConverter creates a converter for plain text and CSV files
func NewTextConverter() docsysSvc.ContentConverter {
	return &textConverter{}
}

func (c *textConverter) Convert(ctx context.Context, input []byte) (string, error) {
	return decodeText(input)
}

func (c *textConverter) SupportedExtensions() []string {
	return []string{".txt", ".text", ".csv"}
}

func (c *textConverter) Name() string {
	return "plaintext"
}
