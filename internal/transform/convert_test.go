package transform

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/docforge/pdfops/internal/pdferr"
	"github.com/docforge/pdfops/internal/pdftest"
)

// writeZip builds an OOXML-shaped archive from part name to content.
func writeZip(t *testing.T, path string, parts map[string]string) string {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

const docxDocumentXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`

func slideXMLFixture(text string) string {
	return fmt.Sprintf(`<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree><p:sp><p:txBody>
    <a:p><a:r><a:t>%s</a:t></a:r></a:p>
  </p:txBody></p:sp></p:spTree></p:cSld>
</p:sld>`, text)
}

func TestWordToPDF(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()
	ctx := context.Background()

	in := writeZip(t, filepath.Join(dir, "doc.docx"), map[string]string{
		"word/document.xml": docxDocumentXML,
	})
	out := filepath.Join(dir, "doc.pdf")

	res, err := lib.WordToPDF(ctx, []string{in}, out, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.PageCount)

	text, err := extractPlainText(out, nil)
	require.NoError(t, err)
	assert.Contains(t, text, "First paragraph")
	assert.Contains(t, text, "Second paragraph")

	t.Run("archive without document part", func(t *testing.T) {
		bad := writeZip(t, filepath.Join(dir, "empty.docx"), map[string]string{
			"word/other.xml": "<x/>",
		})
		_, err := lib.WordToPDF(ctx, []string{bad}, out, nil)
		require.Error(t, err)
		assert.True(t, pdferr.IsValidation(err))
	})

	t.Run("wrong extension", func(t *testing.T) {
		_, err := lib.WordToPDF(ctx, []string{pdftest.NewPDF(t, dir, "x.pdf", 1, "a")}, out, nil)
		require.Error(t, err)
		assert.True(t, pdferr.IsValidation(err))
	})
}

func TestPowerPointToPDF(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()
	ctx := context.Background()

	in := writeZip(t, filepath.Join(dir, "deck.pptx"), map[string]string{
		"ppt/slides/slide2.xml":  slideXMLFixture("Closing remarks"),
		"ppt/slides/slide1.xml":  slideXMLFixture("Opening slide"),
		"ppt/slides/slide10.xml": slideXMLFixture("Appendix"),
	})
	out := filepath.Join(dir, "deck.pdf")

	res, err := lib.PowerPointToPDF(ctx, []string{in}, out, nil)
	require.NoError(t, err)
	// One page per slide, in numeric slide order.
	assert.Equal(t, 3, res.PageCount)

	text, err := extractPlainText(out, []int{1})
	require.NoError(t, err)
	assert.Contains(t, text, "Opening slide")

	text, err = extractPlainText(out, []int{3})
	require.NoError(t, err)
	assert.Contains(t, text, "Appendix")

	t.Run("archive without slides", func(t *testing.T) {
		bad := writeZip(t, filepath.Join(dir, "empty.pptx"), map[string]string{
			"ppt/presentation.xml": "<x/>",
		})
		_, err := lib.PowerPointToPDF(ctx, []string{bad}, out, nil)
		require.Error(t, err)
		assert.True(t, pdferr.IsValidation(err))
	})
}

func TestExcelToPDF(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()
	ctx := context.Background()

	wb := excelize.NewFile()
	require.NoError(t, wb.SetCellValue("Sheet1", "A1", "Region"))
	require.NoError(t, wb.SetCellValue("Sheet1", "B1", "Total"))
	require.NoError(t, wb.SetCellValue("Sheet1", "A2", "North"))
	require.NoError(t, wb.SetCellValue("Sheet1", "B2", 42))
	in := filepath.Join(dir, "report.xlsx")
	require.NoError(t, wb.SaveAs(in))
	require.NoError(t, wb.Close())

	out := filepath.Join(dir, "report.pdf")
	res, err := lib.ExcelToPDF(ctx, []string{in}, out, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.PageCount)

	text, err := extractPlainText(out, nil)
	require.NoError(t, err)
	assert.Contains(t, text, "Region | Total")
	assert.Contains(t, text, "North | 42")
}

func TestHTMLToPDF(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()
	ctx := context.Background()

	in := filepath.Join(dir, "page.html")
	html := `<html><head><style>body{color:red}</style></head>
<body><h1>Release Notes</h1><script>alert("skip me")</script>
<p>Bug fixes and improvements.</p></body></html>`
	require.NoError(t, os.WriteFile(in, []byte(html), 0o600))

	out := filepath.Join(dir, "page.pdf")
	res, err := lib.HTMLToPDF(ctx, []string{in}, out, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.PageCount)

	text, err := extractPlainText(out, nil)
	require.NoError(t, err)
	assert.Contains(t, text, "Release Notes")
	assert.Contains(t, text, "Bug fixes and improvements.")
	assert.NotContains(t, text, "alert")
	assert.NotContains(t, text, "color:red")
}
