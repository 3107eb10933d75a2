package usecase

import (
	"resume-export/internal/docx"
	"resume-export/internal/model"
	"resume-export/internal/render"
)

// BuildDOCX maps the visible sections of r onto document paragraphs.
// Page margins come from r.Styling.
func BuildDOCX(r *model.Resume) (*docx.Document, error) {
	blocks, err := render.Outline(r)
	if err != nil {
		return nil, err
	}
	st := r.Styling.Normalized()

	doc := docx.New()
	doc.SetMargins(st.Margins.Top, st.Margins.Right, st.Margins.Bottom, st.Margins.Left)

	for _, b := range blocks {
		if b.Personal != nil {
			writePersonal(doc, b.Personal)
			continue
		}
		if b.Type == model.SectionPersonalInfo {
			continue
		}
		doc.Heading(2, b.Title)
		for _, entry := range b.Entries {
			writeEntry(doc, entry)
		}
	}
	return doc, nil
}

func writePersonal(doc *docx.Document, p *render.Personal) {
	if p.FullName != "" {
		doc.Heading(0, p.FullName)
	}
	if len(p.Contact) > 0 {
		doc.Text(joinedRuns(p.Contact)...)
	}
	if len(p.Links) > 0 {
		doc.Text(joinedRuns(p.Links)...)
	}
	if p.Summary != "" {
		doc.Text(docx.Run{Text: p.Summary})
	}
}

func writeEntry(doc *docx.Document, e render.Entry) {
	if e.Inline {
		runs := []docx.Run{{Text: e.Heading + ": ", Bold: true}}
		for _, l := range e.Lines {
			runs = append(runs, docx.Run{Text: l})
		}
		doc.Text(runs...)
		return
	}
	var head []docx.Run
	if e.Heading != "" {
		head = append(head, docx.Run{Text: e.Heading, Bold: true})
	}
	if e.Dates != "" {
		sep := ""
		if len(head) > 0 {
			sep = " | "
		}
		head = append(head, docx.Run{Text: sep + e.Dates, Italic: true})
	}
	if len(head) > 0 {
		doc.Text(head...)
	}
	if e.Subheading != "" {
		doc.Text(docx.Run{Text: e.Subheading, Italic: true})
	}
	for _, l := range e.Lines {
		doc.Text(docx.Run{Text: l})
	}
	for _, b := range e.Bullets {
		doc.Bullet(b)
	}
}

func joinedRuns(parts []string) []docx.Run {
	runs := make([]docx.Run, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			runs = append(runs, docx.Run{Text: " | "})
		}
		runs = append(runs, docx.Run{Text: p})
	}
	return runs
}
