package domain

import (
	"math"
	"path"
	"strconv"
	"strings"
)

// FileCategory groups build artifacts by the kind of payload they carry.
type FileCategory string

const (
	CategoryJavaScript FileCategory = "javascript"
	CategoryAssets     FileCategory = "assets"
	CategoryFonts      FileCategory = "fonts"
	CategoryImages     FileCategory = "images"
	CategoryOther      FileCategory = "other"
)

// FileCategories enumerates every category in reporting order.
var FileCategories = []FileCategory{
	CategoryJavaScript,
	CategoryAssets,
	CategoryFonts,
	CategoryImages,
	CategoryOther,
}

var extensionCategories = map[string]FileCategory{
	".js":    CategoryJavaScript,
	".mjs":   CategoryJavaScript,
	".woff":  CategoryFonts,
	".woff2": CategoryFonts,
	".ttf":   CategoryFonts,
	".otf":   CategoryFonts,
	".png":   CategoryImages,
	".jpg":   CategoryImages,
	".jpeg":  CategoryImages,
	".gif":   CategoryImages,
	".webp":  CategoryImages,
	".svg":   CategoryImages,
	".ico":   CategoryImages,
	".css":   CategoryAssets,
	".html":  CategoryAssets,
	".json":  CategoryAssets,
	".txt":   CategoryAssets,
	".md":    CategoryAssets,
}

// CategorizeExtension maps a file extension (with leading dot, any case) to
// its category. Unknown or empty extensions map to CategoryOther.
func CategorizeExtension(ext string) FileCategory {
	if c, ok := extensionCategories[strings.ToLower(ext)]; ok {
		return c
	}
	return CategoryOther
}

// CategorizePath categorizes a slash-separated relative path by its extension.
func CategorizePath(rel string) FileCategory {
	return CategorizeExtension(path.Ext(rel))
}

// FileArtifact is one regular file found in the build tree.
type FileArtifact struct {
	RelativePath string       `json:"path"`
	SizeBytes    int64        `json:"size"`
	Category     FileCategory `json:"category"`
}

// NewFileArtifact builds an artifact and derives its category from the path.
func NewFileArtifact(rel string, size int64) FileArtifact {
	if size < 0 {
		size = 0
	}
	return FileArtifact{RelativePath: rel, SizeBytes: size, Category: CategorizePath(rel)}
}

// Ext returns the lower-cased extension of the artifact path.
func (a FileArtifact) Ext() string {
	return strings.ToLower(path.Ext(a.RelativePath))
}

const bytesPerMB = 1024 * 1024

// BytesToMB converts a byte count to binary megabytes.
func BytesToMB(b int64) float64 {
	return float64(b) / bytesPerMB
}

// MBToBytes converts binary megabytes to a byte count.
func MBToBytes(mb float64) int64 {
	return int64(mb * bytesPerMB)
}

// FormatBytes renders a byte count with a binary unit, e.g. "1.5 MB".
func FormatBytes(b int64) string {
	if b <= 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	v := float64(b)
	i := 0
	for v >= 1024 && i < len(units)-1 {
		v /= 1024
		i++
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64) + " " + units[i]
}
