package rules

import (
	"strings"

	"github.com/abdidvp/shipgate/internal/domain"
	"github.com/abdidvp/shipgate/internal/domain/sizing"
)

// minifiedMinBytes is the size below which a script is not considered a
// production bundle.
const minifiedMinBytes = 1000

var rasterExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

// checkPerformance applies raw-size ceilings to the entry files and looks for
// optimized image variants. Ceilings are only checked for files that exist.
func checkPerformance(snap *domain.BuildSnapshot, cfg Config) []domain.CheckResult {
	var out []domain.CheckResult

	ceilings := []struct {
		id    string
		rel   string
		limit int64
	}{
		{"performance.main_script_size", cfg.Entry.MainScript, domain.MBToBytes(cfg.Limits.MainScriptMaxMB)},
		{"performance.html_size", cfg.Entry.HTML, int64(cfg.Limits.HTMLMaxKB * 1024)},
		{"performance.manifest_size", cfg.Entry.Manifest, int64(cfg.Limits.ManifestMaxKB * 1024)},
	}
	for _, c := range ceilings {
		a, ok := snap.Artifact(c.rel)
		if !ok {
			continue
		}
		est := domain.FormatBytes(sizing.Estimate(a))
		if a.SizeBytes <= c.limit {
			out = append(out, pass(c.id, "%s size acceptable: %s (est. %s compressed)", a.RelativePath, domain.FormatBytes(a.SizeBytes), est))
		} else {
			out = append(out, fail(c.id, "%s too large: %s (est. %s compressed, max %s)", a.RelativePath, domain.FormatBytes(a.SizeBytes), est, domain.FormatBytes(c.limit)))
		}
	}

	out = append(out, checkImageVariants(snap, cfg.Entry.AssetsDir))

	if content, ok := snap.Content(cfg.Entry.MainScript); ok {
		if looksMinified(content) {
			out = append(out, pass("performance.main_script_minified", "%s appears minified", cfg.Entry.MainScript))
		} else {
			out = append(out, fail("performance.main_script_minified", "%s does not appear minified", cfg.Entry.MainScript))
		}
	}
	return out
}

func checkImageVariants(snap *domain.BuildSnapshot, assetsDir string) domain.CheckResult {
	var raster, webp int
	var rasterBytes int64
	for _, a := range snap.ArtifactsUnder(assetsDir) {
		switch ext := a.Ext(); {
		case rasterExtensions[ext]:
			raster++
			rasterBytes += a.SizeBytes
		case ext == ".webp":
			webp++
		}
	}

	switch {
	case raster == 0:
		return pass("performance.image_variants", "no raster images require optimized variants")
	case webp > 0:
		return pass("performance.image_variants", "%d optimized WebP variants found for %d raster images", webp, raster)
	default:
		return fail("performance.image_variants", "no optimized image variants found (%d raster images, %s)", raster, domain.FormatBytes(rasterBytes))
	}
}

// looksMinified treats indented multi-line code as unminified.
func looksMinified(content string) bool {
	return len(content) > minifiedMinBytes && !strings.Contains(content, "\n  ")
}
