// Package attach turns raw files into stored attachments and decides how
// existing attachments are presented: image or document, which label a tile
// gets, and which URL to use for viewing versus downloading.
package attach

import (
	"net/url"
	"path"
	"strings"

	"github.com/sopnote/sopnote/pkg/client"
	"github.com/sopnote/sopnote/pkg/models"
)

// imageExtensions are the filename suffixes treated as images when no mime
// type is available.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
	".bmp":  true,
}

// documentExtensions mark filenames that are definitely not images, used to
// override a stale "image" type tag on legacy records.
var documentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".xls":  true,
	".xlsx": true,
	".csv":  true,
	".txt":  true,
	".md":   true,
	".zip":  true,
	".tar":  true,
	".gz":   true,
}

func extension(filename string) string {
	return strings.ToLower(path.Ext(filename))
}

// IsImage decides whether an attachment renders as an image. The mime type
// wins when present; otherwise the filename extension decides. The stored
// type tag is consulted last and is overridden when the extension
// contradicts it, which guards against mislabeled legacy records.
func IsImage(att models.Attachment) bool {
	if att.MimeType != "" {
		return client.IsImageMime(att.MimeType)
	}
	ext := extension(att.Filename)
	if imageExtensions[ext] {
		return true
	}
	if documentExtensions[ext] {
		return false
	}
	return att.Type == models.AttachmentTypeImage
}

// Kind is a coarse document category used to label non-image tiles.
type Kind string

const (
	KindPDF     Kind = "pdf"
	KindWord    Kind = "word"
	KindSheet   Kind = "sheet"
	KindText    Kind = "text"
	KindArchive Kind = "archive"
	KindGeneric Kind = "file"
)

// Classify returns the document category of a non-image attachment. Image
// attachments classify as KindGeneric; callers check IsImage first.
func Classify(att models.Attachment) Kind {
	switch extension(att.Filename) {
	case ".pdf":
		return KindPDF
	case ".doc", ".docx":
		return KindWord
	case ".xls", ".xlsx", ".csv":
		return KindSheet
	case ".txt", ".md":
		return KindText
	case ".zip", ".tar", ".gz":
		return KindArchive
	}
	switch att.MimeType {
	case "application/pdf":
		return KindPDF
	case "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return KindWord
	case "text/plain", "text/markdown":
		return KindText
	}
	return KindGeneric
}

// Label returns the short tile label for a kind.
func (k Kind) Label() string {
	switch k {
	case KindPDF:
		return "PDF"
	case KindWord:
		return "Word"
	case KindSheet:
		return "Spreadsheet"
	case KindText:
		return "Text"
	case KindArchive:
		return "Archive"
	}
	return "File"
}

// docsViewerBase wraps PDFs so browsers without a built-in PDF plugin can
// still view them inline.
const docsViewerBase = "https://docs.google.com/viewer"

// FileLabel returns the tile label for an attachment in one call.
func FileLabel(att models.Attachment) string {
	return Classify(att).Label()
}

// ViewURL returns the URL to open an attachment inline. PDFs go through
// the hosted document viewer; everything else opens its delivery URL
// directly.
func ViewURL(att models.Attachment) string {
	if Classify(att) == KindPDF && !IsImage(att) {
		return docsViewerBase + "?url=" + url.QueryEscape(att.URL) + "&embedded=true"
	}
	return att.URL
}

// DownloadURL returns the URL for a save-to-disk action, falling back to
// the inline URL for records that predate download variants.
func DownloadURL(att models.Attachment) string {
	if att.DownloadURL != "" {
		return att.DownloadURL
	}
	return att.URL
}
