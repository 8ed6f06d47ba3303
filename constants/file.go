package constants

import "strings"

type Format string

const (
	PDF   Format = "PDF"
	IMAGE Format = "IMAGE"
)

// AllowedExtensions holds the file extensions accepted for invoice and
// quotation documents.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat classifies an extension as PDF or IMAGE. Unknown
// extensions map to IMAGE so callers fail on content, not on naming.
func MapExtToFormat(ext string) Format {
	if NormalizeExt(ext) == "pdf" {
		return PDF
	}
	return IMAGE
}

// ContentTypeForExt returns the MIME type used when handing the document
// to the extraction model.
func ContentTypeForExt(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return "application/pdf"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
