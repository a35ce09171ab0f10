package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrInvalidRange      = errors.New("invalid page range")
	ErrEmptyInput        = errors.New("no documents supplied")
	ErrUnsupportedType   = errors.New("unsupported file type (only PDF and TXT allowed)")
	ErrMalformedDocument = errors.New("malformed document")
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeText = "text/plain"
)

// Upload is a raw document as received from the caller.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Page is the text of one page. Number is the zero-based index in the source document.
type Page struct {
	Number int
	Text   string
}

// Document is an upload reduced to the pages selected by a PageRange.
type Document struct {
	Filename   string
	TotalPages int
	Pages      []Page
}

// Text joins the selected pages with blank lines.
func (d Document) Text() string {
	texts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n\n")
}

// DetectContentType returns the upload's content type, falling back to the
// filename extension when the header is missing.
func DetectContentType(filename, contentType string) (string, error) {
	if ct, _, _ := strings.Cut(contentType, ";"); ct != "" && ct != "application/octet-stream" {
		ct = strings.ToLower(strings.TrimSpace(ct))
		switch ct {
		case ContentTypePDF, ContentTypeText:
			return ct, nil
		default:
			return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
		}
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return ContentTypePDF, nil
	case ".txt":
		return ContentTypeText, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filename)
	}
}

// Load parses an upload and keeps the pages selected by r, in order.
// Plain-text uploads are single-page documents.
func Load(u Upload, r PageRange) (Document, error) {
	contentType, err := DetectContentType(u.Filename, u.ContentType)
	if err != nil {
		return Document{}, err
	}

	var pages []string
	switch contentType {
	case ContentTypePDF:
		pages, err = extractPDFPages(u.Content)
		if err != nil {
			return Document{}, fmt.Errorf("%s: %w", u.Filename, err)
		}
	default:
		pages = []string{string(u.Content)}
	}

	start, end, err := r.Resolve(len(pages))
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", u.Filename, err)
	}

	doc := Document{
		Filename:   u.Filename,
		TotalPages: len(pages),
		Pages:      make([]Page, 0, end-start),
	}
	for i := start; i < end; i++ {
		doc.Pages = append(doc.Pages, Page{Number: i, Text: pages[i]})
	}
	return doc, nil
}

// LoadAll loads every upload with the same page range.
func LoadAll(uploads []Upload, r PageRange) ([]Document, error) {
	if len(uploads) == 0 {
		return nil, ErrEmptyInput
	}
	docs := make([]Document, 0, len(uploads))
	for _, u := range uploads {
		doc, err := Load(u, r)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
