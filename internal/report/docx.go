package report

import (
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// WriteDocx saves a styled DOCX with the transcript, one paragraph per
// segment with a bold timestamp, followed by the summary.
func WriteDocx(path, title string, transcript models.Transcript, summary string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)
	doc.AddParagraph("")

	addStyledRun(doc.AddParagraph(""), "Transcript", true, 14)
	for _, seg := range transcript {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		p := doc.AddParagraph("")
		p.AddText("["+models.FormatTimestamp(seg.Start)+"] ").Font(fontName).Size(fontSize).Color("000000").Bold(true)
		p.AddText(text).Font(fontName).Size(fontSize).Color("000000")
	}

	doc.AddParagraph("")
	addStyledRun(doc.AddParagraph(""), "Summary", true, 14)
	for _, para := range strings.Split(summary, "\n") {
		if para = strings.TrimSpace(para); para != "" {
			addStyledRun(doc.AddParagraph(""), para, false, fontSize)
		}
	}

	return doc.SaveTo(path)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
