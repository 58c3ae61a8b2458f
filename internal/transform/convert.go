package transform

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"

	"github.com/docforge/pdfops/internal/pdferr"
)

// Format conversions are text-extraction-based and best-effort: they re-flow
// textual content into the target format without aiming for layout fidelity.

// textToPDF re-flows plain text into a PDF, one section per input page.
func textToPDF(pages []string, out string, landscape bool) error {
	orientation := "P"
	if landscape {
		orientation = "L"
	}
	doc := fpdf.New(orientation, "mm", "A4", "")
	doc.SetMargins(15, 15, 15)
	doc.SetAutoPageBreak(true, 15)
	doc.SetFont("Helvetica", "", 11)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	for _, page := range pages {
		doc.AddPage()
		for line := range strings.SplitSeq(page, "\n") {
			doc.MultiCell(0, 5.5, tr(line), "", "L", false)
		}
	}
	if doc.Err() {
		return fmt.Errorf("pdf rendering failed: %v", doc.Error())
	}
	return doc.OutputFileAndClose(out)
}

// WordToPDF extracts the paragraph text of a .docx document and re-flows it
// into a PDF.
func (l *Library) WordToPDF(_ context.Context, inputs []string, out string, _ Params) (*Result, error) {
	in, err := singleInput(inputs)
	if err != nil {
		return nil, err
	}
	if _, err := l.v.FileWithExt(in, ".docx"); err != nil {
		return nil, err
	}
	if err := requireOutput(out); err != nil {
		return nil, err
	}

	text, err := docxText(in)
	if err != nil {
		return nil, err
	}
	if err := textToPDF([]string{text}, out, false); err != nil {
		return nil, pdferr.Operationf("word to pdf conversion failed: %v", err)
	}
	return pdfResult(fmt.Sprintf("Word converted to PDF successfully: %s", out), out), nil
}

// PowerPointToPDF extracts the text of each .pptx slide and re-flows it into
// a PDF with one page per slide.
func (l *Library) PowerPointToPDF(_ context.Context, inputs []string, out string, _ Params) (*Result, error) {
	in, err := singleInput(inputs)
	if err != nil {
		return nil, err
	}
	if _, err := l.v.FileWithExt(in, ".pptx"); err != nil {
		return nil, err
	}
	if err := requireOutput(out); err != nil {
		return nil, err
	}

	slides, err := pptxSlideTexts(in)
	if err != nil {
		return nil, err
	}
	if err := textToPDF(slides, out, true); err != nil {
		return nil, pdferr.Operationf("powerpoint to pdf conversion failed: %v", err)
	}
	return pdfResult(fmt.Sprintf("PowerPoint converted to PDF successfully: %s", out), out), nil
}

// ExcelToPDF renders the cell text of every sheet of a workbook into a PDF,
// one sheet per section with pipe-separated rows.
func (l *Library) ExcelToPDF(_ context.Context, inputs []string, out string, _ Params) (*Result, error) {
	in, err := singleInput(inputs)
	if err != nil {
		return nil, err
	}
	if _, err := l.v.FileWithExt(in, ".xlsx", ".xlsm"); err != nil {
		return nil, err
	}
	if err := requireOutput(out); err != nil {
		return nil, err
	}

	wb, err := excelize.OpenFile(in)
	if err != nil {
		return nil, pdferr.Operationf("failed to open workbook %s: %v", in, err)
	}
	defer func() { _ = wb.Close() }()

	var sheets []string
	for _, name := range wb.GetSheetList() {
		rows, err := wb.GetRows(name)
		if err != nil {
			return nil, pdferr.Operationf("failed to read sheet %q: %v", name, err)
		}
		var sb strings.Builder
		sb.WriteString(name + "\n\n")
		for _, row := range rows {
			sb.WriteString(strings.Join(row, " | ") + "\n")
		}
		sheets = append(sheets, sb.String())
	}
	if len(sheets) == 0 {
		return nil, pdferr.Validationf("workbook has no sheets: %s", in)
	}

	if err := textToPDF(sheets, out, true); err != nil {
		return nil, pdferr.Operationf("excel to pdf conversion failed: %v", err)
	}
	return pdfResult(fmt.Sprintf("Excel converted to PDF successfully: %s", out), out), nil
}

// HTMLToPDF extracts the visible text of an HTML file (scripts and styles
// stripped) and re-flows it into a PDF.
func (l *Library) HTMLToPDF(_ context.Context, inputs []string, out string, _ Params) (*Result, error) {
	in, err := singleInput(inputs)
	if err != nil {
		return nil, err
	}
	if _, err := l.v.FileWithExt(in, ".html", ".htm"); err != nil {
		return nil, err
	}
	if err := requireOutput(out); err != nil {
		return nil, err
	}

	f, err := os.Open(in)
	if err != nil {
		return nil, pdferr.Operationf("failed to open %s: %v", in, err)
	}
	defer func() { _ = f.Close() }()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, pdferr.Operationf("failed to parse HTML %s: %v", in, err)
	}
	doc.Find("script, style, noscript").Remove()
	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	var lines []string
	for line := range strings.SplitSeq(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	if err := textToPDF([]string{strings.Join(lines, "\n")}, out, false); err != nil {
		return nil, pdferr.Operationf("html to pdf conversion failed: %v", err)
	}
	return pdfResult(fmt.Sprintf("HTML converted to PDF successfully: %s", out), out), nil
}

// docxText extracts paragraph text from word/document.xml inside a .docx
// archive.
func docxText(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", pdferr.Validationf("invalid .docx file %s: %v", path, err)
	}
	defer func() { _ = zr.Close() }()

	for _, file := range zr.File {
		if file.Name == "word/document.xml" {
			rc, err := file.Open()
			if err != nil {
				return "", pdferr.Operationf("failed to read document.xml: %v", err)
			}
			defer func() { _ = rc.Close() }()
			return ooxmlParagraphs(rc, "t", "p")
		}
	}
	return "", pdferr.Validationf("invalid .docx file %s: missing word/document.xml", path)
}

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// pptxSlideTexts extracts the text runs of every slide, in slide order.
func pptxSlideTexts(path string) ([]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, pdferr.Validationf("invalid .pptx file %s: %v", path, err)
	}
	defer func() { _ = zr.Close() }()

	type slide struct {
		num  int
		file *zip.File
	}
	var slides []slide
	for _, file := range zr.File {
		if m := slideNameRe.FindStringSubmatch(file.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slides = append(slides, slide{num: n, file: file})
		}
	}
	if len(slides) == 0 {
		return nil, pdferr.Validationf("invalid .pptx file %s: no slides found", path)
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	texts := make([]string, 0, len(slides))
	for _, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			return nil, pdferr.Operationf("failed to read slide %d: %v", s.num, err)
		}
		text, err := ooxmlParagraphs(rc, "t", "p")
		_ = rc.Close()
		if err != nil {
			return nil, err
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// ooxmlParagraphs walks an OOXML part collecting the character data of
// textElem elements, starting a new line at each closing paraElem.
func ooxmlParagraphs(r io.Reader, textElem, paraElem string) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		lines   []string
		current strings.Builder
		inText  bool
	)
	flush := func() {
		lines = append(lines, current.String())
		current.Reset()
	}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", pdferr.Operationf("malformed OOXML content: %v", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == textElem {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case textElem:
				inText = false
			case paraElem:
				flush()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if current.Len() > 0 {
		flush()
	}
	return strings.Join(lines, "\n"), nil
}
