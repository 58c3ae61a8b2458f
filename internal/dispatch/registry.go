// Package dispatch routes command names to transforms. The command set is a
// closed, explicit table built at startup; unknown names fail validation and
// the valid set is enumerable without reflection.
package dispatch

import (
	"sort"

	"github.com/docforge/pdfops/internal/transform"
)

// arity describes how a command consumes the input list.
type arity int

const (
	// singleInput commands receive only the first input path.
	singleInput arity = iota
	// multiInput commands receive the full input list.
	multiInput
	// pairInput commands require exactly two inputs.
	pairInput
)

// command binds a name to a transform plus the metadata the dispatcher needs
// to validate a request up front.
type command struct {
	name  string
	arity arity
	fn    transform.Func
	// dirOutput marks fan-out commands whose output argument is a directory.
	dirOutput bool
	// outputOptional marks commands that can report through the message alone.
	outputOptional bool
}

// Registry is the closed mapping of command names to transforms.
type Registry struct {
	commands map[string]command
	names    []string
}

// NewRegistry builds the full command table over the given transform library.
func NewRegistry(lib *transform.Library) *Registry {
	cmds := []command{
		{name: "merge_pdfs", arity: multiInput, fn: lib.MergePDFs},
		{name: "split_pdf", arity: singleInput, fn: lib.SplitPDF, dirOutput: true},
		{name: "extract_pages", arity: singleInput, fn: lib.ExtractPages},
		{name: "remove_pages", arity: singleInput, fn: lib.RemovePages},
		{name: "organize_pdf", arity: singleInput, fn: lib.OrganizePDF},
		{name: "rotate_pdf", arity: singleInput, fn: lib.RotatePDF},
		{name: "compress_pdf", arity: singleInput, fn: lib.CompressPDF},
		{name: "watermark_pdf", arity: singleInput, fn: lib.WatermarkPDF},
		{name: "protect_pdf", arity: singleInput, fn: lib.ProtectPDF},
		{name: "unlock_pdf", arity: singleInput, fn: lib.UnlockPDF},
		{name: "add_page_numbers", arity: singleInput, fn: lib.AddPageNumbers},
		{name: "add_header_footer", arity: singleInput, fn: lib.AddHeaderFooter},
		{name: "extract_text", arity: singleInput, fn: lib.ExtractText},
		{name: "extract_images", arity: singleInput, fn: lib.ExtractImages, dirOutput: true},
		{name: "redact_pdf", arity: singleInput, fn: lib.RedactPDF},
		{name: "annotate_pdf", arity: singleInput, fn: lib.AnnotatePDF},
		{name: "compare_pdfs", arity: pairInput, fn: lib.ComparePDFs, outputOptional: true},
		{name: "ocr_pdf_images", arity: singleInput, fn: lib.OCRPDFImages},
		{name: "repair_pdf", arity: singleInput, fn: lib.RepairPDF},
		{name: "word_to_pdf", arity: singleInput, fn: lib.WordToPDF},
		{name: "powerpoint_to_pdf", arity: singleInput, fn: lib.PowerPointToPDF},
		{name: "excel_to_pdf", arity: singleInput, fn: lib.ExcelToPDF},
		{name: "html_to_pdf", arity: singleInput, fn: lib.HTMLToPDF},
		{name: "pdf_to_powerpoint", arity: singleInput, fn: lib.PDFToPowerPoint},
	}

	r := &Registry{commands: make(map[string]command, len(cmds))}
	for _, c := range cmds {
		r.commands[c.name] = c
		r.names = append(r.names, c.name)
	}
	sort.Strings(r.names)
	return r
}

// Lookup resolves a command name.
func (r *Registry) Lookup(name string) (command, bool) {
	c, ok := r.commands[name]
	return c, ok
}

// Names returns the sorted list of valid command names.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
