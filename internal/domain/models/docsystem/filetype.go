package docsystem

import (
	"mime"
	"path/filepath"
	"strings"
)

// MIME types of the office formats the library is made of
const (
	FileTypePDF         = "application/pdf"
	FileTypeDocx        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	FileTypeXlsx        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	FileTypeOctetStream = "application/octet-stream"
)

var officeFileTypes = map[string]string{
	".pdf":  FileTypePDF,
	".docx": FileTypeDocx,
	".xlsx": FileTypeXlsx,
	".md":   "text/markdown; charset=utf-8",
}

// FileTypeFor derives a MIME type from a file name's extension.
// Unknown extensions are application/octet-stream.
func FileTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := officeFileTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return FileTypeOctetStream
}
