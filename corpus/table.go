package corpus

import (
	"strings"
)

// Row is one line of the document table.
type Row struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	CleanName string `json:"clean_name"`
}

// CleanName strips the ".txt" suffix and any ".pdf.ocr" marker left by OCR
// conversion: "plan.pdf.ocr.txt" becomes "plan".
func CleanName(name string) string {
	name, _, _ = strings.Cut(name, ".txt")
	name, _, _ = strings.Cut(name, ".pdf.ocr")
	return name
}

// NewDocTable lists the documents under root as table rows.
func NewDocTable(root string) ([]Row, error) {
	docs, err := ListDocs(root)
	if err != nil {
		return nil, err
	}
	return Table(docs), nil
}

// Table converts listed documents into rows.
func Table(docs []DocFile) []Row {
	rows := make([]Row, len(docs))
	for i, d := range docs {
		rows[i] = Row{Name: d.Name, Path: d.Path, CleanName: CleanName(d.Name)}
	}
	return rows
}
