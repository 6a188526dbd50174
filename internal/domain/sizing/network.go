package sizing

import (
	"math"

	"github.com/abdidvp/shipgate/internal/domain"
)

type network struct {
	name string
	kbps int
}

// Reference networks, slowest first. Speeds are in KB/s.
var networks = []network{
	{"3G Slow", 50},
	{"3G Fast", 150},
	{"4G", 500},
	{"WiFi", 2000},
	{"Fiber", 10000},
}

// DownloadEstimates returns the transfer time of compressedBytes on each
// reference network, rounded to a tenth of a second.
func DownloadEstimates(compressedBytes int64) []domain.DownloadEstimate {
	out := make([]domain.DownloadEstimate, 0, len(networks))
	kb := float64(compressedBytes) / 1024
	for _, n := range networks {
		out = append(out, domain.DownloadEstimate{
			Network:     n.name,
			SpeedKBps:   n.kbps,
			TimeSeconds: math.Round(kb/float64(n.kbps)*10) / 10,
		})
	}
	return out
}
