package textsource

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PagedDocument is a document whose text can be read page by page.
// Pages are numbered from 1.
type PagedDocument interface {
	NumPage() int
	PageText(page int) (string, error)
}

// DocumentOpener opens raw PDF bytes as a PagedDocument.
type DocumentOpener func(data []byte) (PagedDocument, error)

// pdfDocument adapts a ledongthuc/pdf reader to PagedDocument.
type pdfDocument struct {
	reader *pdf.Reader
}

// OpenPDF parses PDF bytes held in memory.
func OpenPDF(data []byte) (PagedDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return &pdfDocument{reader: reader}, nil
}

func (d *pdfDocument) NumPage() int {
	return d.reader.NumPage()
}

func (d *pdfDocument) PageText(page int) (string, error) {
	p := d.reader.Page(page)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}
