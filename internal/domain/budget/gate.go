package budget

import (
	"fmt"

	"github.com/abdidvp/shipgate/internal/domain"
)

// Evaluate compares the compressed bundle total against the configured
// thresholds. Recommendations are only produced when the target is missed.
func Evaluate(analysis *domain.BundleAnalysis, cfg domain.BudgetConfig) domain.BudgetDecision {
	d := Decide(analysis.CompressedTotalMB(), cfg)
	if !d.TargetMet {
		d.Recommendations = Recommend(analysis, cfg.Shares)
	}
	return d
}

// Decide applies the thresholds to a total in megabytes.
func Decide(totalMB float64, cfg domain.BudgetConfig) domain.BudgetDecision {
	return domain.BudgetDecision{
		CompressedTotalMB: totalMB,
		TargetMB:          cfg.TargetMB,
		WarningMB:         cfg.WarningMB,
		CILimitMB:         cfg.CILimitMB,
		TargetMet:         totalMB <= cfg.TargetMB,
		WithinCILimit:     totalMB <= cfg.CILimitMB,
		WarningExceeded:   totalMB > cfg.WarningMB,
		Recommendations:   []string{},
	}
}

// Recommend lists remedies for the categories and files that dominate the
// bundle. Files are named in analysis order.
func Recommend(analysis *domain.BundleAnalysis, shares domain.BudgetShares) []string {
	recs := []string{}
	cats := analysis.Categories

	if js := domain.BytesToMB(cats[domain.CategoryJavaScript].CompressedSize); js > shares.JavaScriptMB {
		recs = append(recs,
			fmt.Sprintf("JavaScript is %.2f MB: enable code splitting with deferred imports", js),
			"Tree-shake unused code and icons from the main bundle",
		)
	}
	if assets := domain.BytesToMB(cats[domain.CategoryAssets].CompressedSize); assets > shares.AssetsMB {
		recs = append(recs,
			fmt.Sprintf("Assets are %.2f MB: convert images to WebP", assets),
			"Lazy-load assets that are not needed for the first screen",
		)
	}
	if fonts := domain.BytesToMB(cats[domain.CategoryFonts].CompressedSize); fonts > shares.FontsMB {
		recs = append(recs,
			fmt.Sprintf("Fonts are %.2f MB: prefer system fonts or subset custom fonts", fonts),
			"Serve fonts as WOFF2",
		)
	}

	limit := domain.MBToBytes(shares.LargeFileMB)
	for _, f := range analysis.Files {
		if f.CompressedSize > limit {
			recs = append(recs, fmt.Sprintf("Optimize large file %s (%s compressed)", f.RelativePath, domain.FormatBytes(f.CompressedSize)))
		}
	}
	return recs
}

// Enforce returns a *domain.BudgetBreachError when the CI limit is exceeded.
func Enforce(d domain.BudgetDecision) error {
	if d.WithinCILimit {
		return nil
	}
	return &domain.BudgetBreachError{CompressedTotalMB: d.CompressedTotalMB, CILimitMB: d.CILimitMB}
}

// Warnings summarizes a decision that passed the CI limit but missed the
// target or crossed the warning threshold.
func Warnings(d domain.BudgetDecision) []string {
	var out []string
	switch {
	case !d.TargetMet:
		out = append(out, fmt.Sprintf("bundle size %.2f MB exceeds target of %.2f MB", d.CompressedTotalMB, d.TargetMB))
	case d.WarningExceeded:
		out = append(out, fmt.Sprintf("bundle size %.2f MB is above warning threshold of %.2f MB", d.CompressedTotalMB, d.WarningMB))
	}
	return append(out, d.Recommendations...)
}
