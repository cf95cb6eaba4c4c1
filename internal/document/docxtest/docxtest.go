// Package docxtest reads back the paragraphs of a .docx produced in tests.
package docxtest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Paragraph is the visible text of one <w:p> and its paragraph style id.
type Paragraph struct {
	Style string
	Text  string
}

// DocumentXML returns the raw word/document.xml part.
func DocumentXML(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	return readZipFile(zr, "word/document.xml")
}

// Paragraphs returns every paragraph in word/document.xml in order.
func Paragraphs(data []byte) ([]Paragraph, error) {
	body, err := DocumentXML(data)
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(bytes.NewReader(body))
	var (
		out  []Paragraph
		cur  *Paragraph
		text strings.Builder
		inT  bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				cur = &Paragraph{}
				text.Reset()
			case "pStyle":
				if cur != nil {
					for _, a := range t.Attr {
						if a.Name.Local == "val" {
							cur.Style = a.Value
						}
					}
				}
			case "t":
				inT = true
			case "br":
				text.WriteString("\n")
			case "tab":
				text.WriteString("\t")
			}
		case xml.CharData:
			if inT {
				text.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inT = false
			case "p":
				if cur != nil {
					cur.Text = text.String()
					out = append(out, *cur)
					cur = nil
				}
			}
		}
	}
	return out, nil
}

// NonEmpty drops paragraphs whose text is blank, such as template spacers.
func NonEmpty(ps []Paragraph) []Paragraph {
	var out []Paragraph
	for _, p := range ps {
		if strings.TrimSpace(p.Text) != "" {
			out = append(out, p)
		}
	}
	return out
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("missing %s", name)
}
