package sopnote

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/sopnote/sopnote/pkg/attach"
	"github.com/sopnote/sopnote/pkg/models"
)

// markdown renders subtext fields for HTML output. GFM extensions are not
// enabled; the source data never used them.
var markdown = goldmark.New()

// RenderText writes a SOP's tree as indented plain text.
func RenderText(w io.Writer, doc models.Document) {
	fmt.Fprintf(w, "%s (%s)\n", doc.Name, doc.ID)
	for i, step := range doc.Steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, step.StepHead.Text)
		renderBlockText(w, "     ", step.StepHead)
		for j, sub := range step.SubHeads {
			fmt.Fprintf(w, "     %d.%d %s\n", i+1, j+1, sub.SubHeadName.Text)
			renderBlockText(w, "        ", sub.SubHeadName)
			for _, q := range sub.Questions {
				fmt.Fprintf(w, "        - %s\n", q.Text)
				renderBlockText(w, "          ", q.ContentBlock)
			}
		}
	}
}

func renderBlockText(w io.Writer, indent string, block models.ContentBlock) {
	if block.Subtext != "" {
		for _, line := range strings.Split(strings.TrimRight(block.Subtext, "\n"), "\n") {
			fmt.Fprintf(w, "%s%s\n", indent, line)
		}
	}
	if block.Link != "" {
		fmt.Fprintf(w, "%slink: %s\n", indent, block.Link)
	}
	for _, att := range block.Attachments {
		label := "image"
		if !attach.IsImage(att) {
			label = attach.FileLabel(att)
		}
		fmt.Fprintf(w, "%s[%s] %s\n", indent, label, att.Filename)
	}
}

// RenderHTML renders a SOP as a standalone HTML page. Title fields are
// escaped verbatim; subtext fields are treated as markdown.
func RenderHTML(doc models.Document) (string, error) {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(doc.Name))
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(doc.Name))

	for _, step := range doc.Steps {
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(step.StepHead.Text))
		if err := renderBlockHTML(&b, step.StepHead); err != nil {
			return "", err
		}
		for _, sub := range step.SubHeads {
			fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(sub.SubHeadName.Text))
			if err := renderBlockHTML(&b, sub.SubHeadName); err != nil {
				return "", err
			}
			if len(sub.Questions) > 0 {
				b.WriteString("<ul>\n")
				for _, q := range sub.Questions {
					fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(q.Text))
				}
				b.WriteString("</ul>\n")
			}
		}
	}
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}

func renderBlockHTML(b *strings.Builder, block models.ContentBlock) error {
	if block.Subtext != "" {
		var rendered bytes.Buffer
		if err := markdown.Convert([]byte(block.Subtext), &rendered); err != nil {
			return err
		}
		b.Write(rendered.Bytes())
	}
	if block.Link != "" {
		escaped := html.EscapeString(block.Link)
		fmt.Fprintf(b, "<p><a href=%q>%s</a></p>\n", escaped, escaped)
	}
	for _, att := range block.Attachments {
		if attach.IsImage(att) {
			fmt.Fprintf(b, "<img src=%q alt=%q>\n",
				html.EscapeString(att.URL), html.EscapeString(att.Filename))
			continue
		}
		fmt.Fprintf(b, "<p>%s: <a href=%q>view</a> <a href=%q>download</a></p>\n",
			html.EscapeString(att.Filename),
			html.EscapeString(attach.ViewURL(att)),
			html.EscapeString(attach.DownloadURL(att)))
	}
	return nil
}
