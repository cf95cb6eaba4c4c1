// Package document builds word-processing documents from an ordered list of
// blocks and serializes them as Office Open XML (.docx).
package document

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/gomutex/godocx/wml/ctypes"
)

const (
	// MIMEType is the registered media type of .docx files.
	MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	// ExportFilename is the attachment name offered to clients.
	ExportFilename = "extracted_text.docx"
	// ExportTitle heads every exported document.
	ExportTitle = "OCR Extracted Text"
)

// Kind distinguishes block types.
type Kind int

const (
	Heading Kind = iota
	Paragraph
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case Paragraph:
		return "paragraph"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Block is one top-level element of a document. Level applies to headings
// only; level 0 is the document title style.
type Block struct {
	Kind  Kind
	Text  string
	Level uint
}

// ExportBlocks lays out extracted text: a title heading followed by the text
// as a single paragraph, newlines included.
func ExportBlocks(text string) []Block {
	return []Block{
		{Kind: Heading, Text: ExportTitle, Level: 0},
		{Kind: Paragraph, Text: text},
	}
}

// Writer serializes blocks to w.
type Writer interface {
	Write(w io.Writer, blocks []Block) error
}

// ErrUnknownBlock is returned for a block kind the writer cannot render.
var ErrUnknownBlock = errors.New("unknown block kind")

// DocxWriter renders blocks with godocx starting from its default template.
type DocxWriter struct{}

var _ Writer = DocxWriter{}

// NewDocxWriter returns a DocxWriter.
func NewDocxWriter() DocxWriter {
	return DocxWriter{}
}

func (DocxWriter) Write(w io.Writer, blocks []Block) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	for i, b := range blocks {
		switch b.Kind {
		case Heading:
			if _, err := doc.AddHeading(b.Text, b.Level); err != nil {
				return fmt.Errorf("block %d: add heading: %w", i, err)
			}
		case Paragraph:
			addTextParagraph(doc, b.Text)
		default:
			return fmt.Errorf("block %d: %w: %s", i, ErrUnknownBlock, b.Kind)
		}
	}

	if err := doc.Write(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// addTextParagraph appends text as one paragraph. Line feeds and carriage
// returns become line breaks and tabs become tab stops, so multi-line text
// keeps its layout without being split into separate paragraphs.
func addTextParagraph(doc *docx.RootDoc, text string) {
	p := doc.AddEmptyParagraph()
	run := &ctypes.Run{}

	var seg strings.Builder
	flush := func() {
		if seg.Len() > 0 {
			run.Children = append(run.Children, ctypes.RunChild{Text: ctypes.TextFromString(seg.String())})
			seg.Reset()
		}
	}
	for _, r := range text {
		switch r {
		case '\n', '\r':
			flush()
			run.Children = append(run.Children, ctypes.RunChild{Break: &ctypes.Break{}})
		case '\t':
			flush()
			run.Children = append(run.Children, ctypes.RunChild{Tab: &ctypes.Empty{}})
		default:
			seg.WriteRune(r)
		}
	}
	flush()

	if len(run.Children) == 0 {
		return
	}
	ct := p.GetCT()
	ct.Children = append(ct.Children, ctypes.ParagraphChild{Run: run})
}
