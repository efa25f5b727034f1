package extraction

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MIMEText = "text/plain"
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// MaxDocumentBytes caps uploaded resumes.
	MaxDocumentBytes = 5 << 20
)

var (
	ErrUnsupportedDocument = errors.New("unsupported document type")
	ErrEmptyDocument       = errors.New("no text content found in document")
	ErrDocumentTooLarge    = errors.New("document exceeds size limit")
)

// Document is the plain text of an uploaded resume.
type Document struct {
	Text  string `json:"text"`
	MIME  string `json:"mime"`
	Pages int    `json:"pages,omitempty"`
}

// DetectMIME resolves the document type from the declared content type, the
// file name and finally the content itself.
func DetectMIME(declared, filename string, data []byte) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil {
		switch mt {
		case MIMEText, MIMEPDF, MIMEDOCX:
			return mt
		}
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MIMEPDF
	case ".docx":
		return MIMEDOCX
	case ".txt", ".text":
		return MIMEText
	}

	sniffed := http.DetectContentType(data)
	mt, _, _ := mime.ParseMediaType(sniffed)
	return mt
}

// DocumentText extracts the text of a PDF, DOCX or plain text resume.
func DocumentText(mimeType string, data []byte) (Document, error) {
	if len(data) > MaxDocumentBytes {
		return Document{}, fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, len(data))
	}

	doc := Document{MIME: mimeType}
	var err error
	switch mimeType {
	case MIMEText:
		doc.Text = string(data)
	case MIMEPDF:
		doc.Text, doc.Pages, err = pdfText(data)
	case MIMEDOCX:
		doc.Text, err = docxText(data)
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedDocument, mimeType)
	}
	if err != nil {
		return Document{}, err
	}

	if strings.TrimSpace(doc.Text) == "" {
		return Document{}, ErrEmptyDocument
	}
	return doc, nil
}

func pdfText(data []byte) (string, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("failed to read pdf: %w", err)
	}

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), pages, nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return docxBodyText(doc.Editable().GetContent()), nil
}

// docxBodyText walks the raw document.xml body and keeps only the text runs,
// breaking lines at paragraph ends. Entities are decoded by the XML reader.
func docxBodyText(content string) string {
	dec := xml.NewDecoder(strings.NewReader(content))
	dec.Strict = false

	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
