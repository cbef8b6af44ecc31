package domain

import (
	"fmt"
	"strings"
)

// Resource types.
const (
	ResourceArticle  = "ARTICLE"
	ResourceVideo    = "VIDEO"
	ResourceDocument = "DOCUMENT"
	ResourceAudio    = "AUDIO"
	ResourceImage    = "IMAGE"
)

// Resource is an entry in the self-help library.
type Resource struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Featured    bool   `json:"featured"`
	URL         string `json:"url,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	FileType    string `json:"fileType,omitempty"`
	FileSize    int64  `json:"fileSize,omitempty"`
	FileURL     string `json:"fileUrl,omitempty"`
	FileKey     string `json:"fileKey,omitempty"`
}

// ResourceStatistics summarizes the library.
type ResourceStatistics struct {
	TotalResources int            `json:"totalResources"`
	ByType         map[string]int `json:"byType"`
	ByCategory     map[string]int `json:"byCategory"`
	FeaturedCount  int            `json:"featuredCount"`
}

// Icon picks a display icon from the MIME type, falling back to the
// resource type.
func (r Resource) Icon() string {
	ft := strings.ToLower(r.FileType)
	if ft != "" {
		switch {
		case strings.Contains(ft, "pdf"):
			return "pdf"
		case strings.Contains(ft, "video"):
			return "video"
		case strings.Contains(ft, "audio"):
			return "audio"
		case strings.Contains(ft, "image"):
			return "image"
		case strings.Contains(ft, "word"), strings.Contains(ft, "document"):
			return "document"
		case strings.Contains(ft, "excel"), strings.Contains(ft, "spreadsheet"):
			return "spreadsheet"
		case strings.Contains(ft, "powerpoint"), strings.Contains(ft, "presentation"):
			return "presentation"
		}
	}

	switch r.Type {
	case ResourceArticle:
		return "article"
	case ResourceVideo:
		return "video"
	case ResourceDocument:
		return "document"
	case ResourceAudio:
		return "audio"
	case ResourceImage:
		return "image"
	default:
		return "file"
	}
}

// FormatFileSize renders a byte count with one decimal, e.g. "1.5 MB".
// Zero renders as the empty string.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}
