// Package sizing estimates the compressed transfer size of build artifacts.
//
// The numbers are estimates derived from a fixed per-extension ratio table,
// not the output of a real compressor. They are deterministic for a given
// raw size and extension.
package sizing

import (
	"math"
	"slices"
	"strings"

	"github.com/abdidvp/shipgate/internal/domain"
)

// DefaultRatio applies to extensions missing from the ratio table.
const DefaultRatio = 0.6

var ratios = map[string]float64{
	".js":    0.25,
	".mjs":   0.25,
	".css":   0.30,
	".html":  0.35,
	".json":  0.20,
	".txt":   0.40,
	".woff":  0.95,
	".woff2": 0.95,
	".png":   0.90,
	".gif":   0.90,
	".webp":  0.90,
	".jpg":   0.95,
	".jpeg":  0.95,
	".svg":   0.50,
}

// Ratio returns the estimated compressed/raw ratio for an extension and
// whether the extension is covered by the table.
func Ratio(ext string) (float64, bool) {
	r, ok := ratios[strings.ToLower(ext)]
	if !ok {
		return DefaultRatio, false
	}
	return r, true
}

// Estimate returns the estimated compressed size of an artifact.
func Estimate(a domain.FileArtifact) int64 {
	r, _ := Ratio(a.Ext())
	return int64(math.Round(float64(a.SizeBytes) * r))
}

// EstimateFile pairs an artifact with its estimate and the saving in percent.
func EstimateFile(a domain.FileArtifact) domain.FileEstimate {
	est := domain.FileEstimate{FileArtifact: a, CompressedSize: Estimate(a)}
	if a.SizeBytes > 0 {
		saved := float64(a.SizeBytes-est.CompressedSize) / float64(a.SizeBytes) * 100
		est.CompressionRatio = math.Round(saved*10) / 10
	}
	return est
}

// Analyze builds the size breakdown for a set of artifacts. Every category is
// present in the result; files are ordered by estimate descending, then path.
func Analyze(artifacts []domain.FileArtifact, meta domain.AnalysisMetadata) *domain.BundleAnalysis {
	a := &domain.BundleAnalysis{
		Metadata:   meta,
		Categories: make(map[domain.FileCategory]domain.SizeTotals, len(domain.FileCategories)),
		Files:      make([]domain.FileEstimate, 0, len(artifacts)),
	}
	if a.Metadata.Version == "" {
		a.Metadata.Version = domain.AnalysisVersion
	}
	for _, c := range domain.FileCategories {
		a.Categories[c] = domain.SizeTotals{}
	}

	for _, art := range artifacts {
		est := EstimateFile(art)
		a.Files = append(a.Files, est)
		a.Totals.Add(est)
		t := a.Categories[art.Category]
		t.Add(est)
		a.Categories[art.Category] = t
	}

	slices.SortStableFunc(a.Files, func(x, y domain.FileEstimate) int {
		if x.CompressedSize != y.CompressedSize {
			if x.CompressedSize > y.CompressedSize {
				return -1
			}
			return 1
		}
		return strings.Compare(x.RelativePath, y.RelativePath)
	})

	a.Downloads = DownloadEstimates(a.Totals.CompressedSize)
	return a
}
