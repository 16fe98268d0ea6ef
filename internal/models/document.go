package models

import (
	"path"
	"strings"
)

// FileType is the document type tag understood by the upstream RAG
// service's training endpoint.
type FileType string

const (
	FileTypePDF     FileType = "pdf"
	FileTypeDOCX    FileType = "docx"
	FileTypeTXT     FileType = "txt"
	FileTypeUnknown FileType = "unknown"
)

// RAGDocument is a display-only reflection of a document the upstream RAG
// service currently reports. It is re-fetched on every list action and
// never cached locally.
type RAGDocument struct {
	FileName string   `json:"file_name"`
	FullPath string   `json:"full_path"`
	FileType FileType `json:"file_type"`
	Status   string   `json:"status"` // upstream-supplied, defaults to "active"
}

// NewRAGDocument builds a document record from an upstream storage path.
func NewRAGDocument(fullPath string) RAGDocument {
	return RAGDocument{
		FileName: path.Base(fullPath),
		FullPath: fullPath,
		FileType: FileTypeFromName(fullPath),
		Status:   "active",
	}
}

// FileTypeFromContentType maps a declared media type onto a supported
// file type. Returns FileTypeUnknown when the media type is not supported.
func FileTypeFromContentType(contentType string) FileType {
	switch strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])) {
	case "application/pdf":
		return FileTypePDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/msword":
		return FileTypeDOCX
	case "text/plain":
		return FileTypeTXT
	default:
		return FileTypeUnknown
	}
}

// FileTypeFromName maps a file name's extension onto a supported file type.
func FileTypeFromName(name string) FileType {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf":
		return FileTypePDF
	case ".docx", ".doc":
		return FileTypeDOCX
	case ".txt":
		return FileTypeTXT
	default:
		return FileTypeUnknown
	}
}
