package domain

import "time"

// AnalysisVersion is stamped into every bundle analysis report.
const AnalysisVersion = "1.0.0"

// FileEstimate is an artifact with its estimated compressed transfer size.
// CompressionRatio is the estimated saving in percent.
type FileEstimate struct {
	FileArtifact
	CompressedSize   int64   `json:"compressed_size"`
	CompressionRatio float64 `json:"compression_ratio"`
}

type SizeTotals struct {
	OriginalSize   int64 `json:"original_size"`
	CompressedSize int64 `json:"compressed_size"`
	FileCount      int   `json:"file_count"`
}

// Add accumulates one file estimate.
func (t *SizeTotals) Add(f FileEstimate) {
	t.OriginalSize += f.SizeBytes
	t.CompressedSize += f.CompressedSize
	t.FileCount++
}

// DownloadEstimate is the time to transfer the compressed bundle on one
// reference network.
type DownloadEstimate struct {
	Network     string  `json:"network"`
	SpeedKBps   int     `json:"speed_kbps"`
	TimeSeconds float64 `json:"time_seconds"`
}

type AnalysisMetadata struct {
	TargetMB   float64   `json:"target_mb"`
	WarningMB  float64   `json:"warning_mb"`
	CILimitMB  float64   `json:"ci_limit_mb"`
	BuildPath  string    `json:"build_path"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	Version    string    `json:"version"`
	CommitHash string    `json:"commit_hash,omitempty"`
}

// BundleAnalysis is the estimated size breakdown of a build tree.
type BundleAnalysis struct {
	Metadata   AnalysisMetadata            `json:"metadata"`
	Totals     SizeTotals                  `json:"totals"`
	Categories map[FileCategory]SizeTotals `json:"categories"`
	Files      []FileEstimate              `json:"files"`
	Downloads  []DownloadEstimate          `json:"download_estimates"`
	Budget     *BudgetDecision             `json:"budget,omitempty"`
}

// CompressedTotalMB is the estimated compressed size of the whole bundle.
func (a *BundleAnalysis) CompressedTotalMB() float64 {
	return BytesToMB(a.Totals.CompressedSize)
}

// Largest returns up to n files with the largest estimates.
func (a *BundleAnalysis) Largest(n int) []FileEstimate {
	if n > len(a.Files) {
		n = len(a.Files)
	}
	return a.Files[:n]
}

// BudgetDecision is the verdict of the budget gate for one analysis.
type BudgetDecision struct {
	CompressedTotalMB float64  `json:"compressed_total_mb"`
	TargetMB          float64  `json:"target_mb"`
	WarningMB         float64  `json:"warning_mb"`
	CILimitMB         float64  `json:"ci_limit_mb"`
	TargetMet         bool     `json:"target_met"`
	WithinCILimit     bool     `json:"within_ci_limit"`
	WarningExceeded   bool     `json:"warning_exceeded"`
	Recommendations   []string `json:"recommendations"`
}
