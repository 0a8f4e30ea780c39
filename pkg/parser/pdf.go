package parser

import (
	"bytes"
	"errors"
	"io"

	"github.com/ledongthuc/pdf"
)

var errEmptyPDF = errors.New("empty pdf bytes")

// ExtractPDFText extracts the plain text of a PDF transcript document.
//
// Unlike the text parsers, this works on raw bytes and can genuinely fail
// (corrupt or encrypted documents), so it returns an error; callers treat
// that as a soft "no transcript via this source".
func ExtractPDFText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errEmptyPDF
	}

	doc, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	textReader, err := doc.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, textReader); err != nil {
		return "", err
	}

	return buf.String(), nil
}
