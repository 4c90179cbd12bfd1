package reporting

import (
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Merger concatenates PDF files page by page, in input order.
type Merger interface {
	Merge(inputs []string, output string) error
}

var disableConfigDir sync.Once

// PDFCPUMerger merges documents at the container level with pdfcpu. Page
// content streams are copied untouched. It is safe for concurrent use.
type PDFCPUMerger struct {
	validation int
}

// NewPDFCPUMerger creates a merger that never reads or writes a pdfcpu
// configuration directory.
func NewPDFCPUMerger() *PDFCPUMerger {
	disableConfigDir.Do(api.DisableConfigDir)
	return &PDFCPUMerger{validation: model.ValidationRelaxed}
}

// configuration returns a fresh pdfcpu configuration; pdfcpu writes to it
// while merging, so calls never share one.
func (m *PDFCPUMerger) configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = m.validation
	return conf
}

func (m *PDFCPUMerger) Merge(inputs []string, output string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("merge: no input documents")
	}
	if err := api.MergeCreateFile(inputs, output, false, m.configuration()); err != nil {
		return fmt.Errorf("merge %d documents into %s: %w", len(inputs), output, err)
	}
	return nil
}

// PageCount returns the number of pages of a PDF file.
func PageCount(path string) (int, error) {
	disableConfigDir.Do(api.DisableConfigDir)
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("count pages of %s: %w", path, err)
	}
	return n, nil
}
