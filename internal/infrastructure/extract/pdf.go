package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractPDF concatenates the text of every page in page order, separated by
// newlines. Unreadable or corrupt PDFs yield an error.
func (e *Extractor) ExtractPDF(ctx context.Context, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The pdf package panics on some malformed inputs; fold those into the
	// extraction-error taxonomy.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("read pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	e.debug("pdf extracted", "pages", pages, "chars", b.Len())
	return checkLength(b.String())
}
