package evaluation

import (
	"fmt"
	"io"
	"strings"
)

// PlotThresholdScanTerminal draws the accuracy of every scanned threshold as a bar chart.
func PlotThresholdScanTerminal(w io.Writer, scan []ThresholdResult, title string) {
	if len(scan) == 0 {
		fmt.Fprintf(w, "\n%s: nothing to plot\n", title)
		return
	}

	// Find min and max for scaling
	minAcc, maxAcc := scan[0].Accuracy, scan[0].Accuracy
	best := scan[0]
	for _, point := range scan[1:] {
		minAcc = min(minAcc, point.Accuracy)
		maxAcc = max(maxAcc, point.Accuracy)
		if point.Accuracy > best.Accuracy {
			best = point
		}
	}

	fmt.Fprintf(w, "\n%s (Terminal Plot - Threshold Scan):\n", title)
	fmt.Fprintln(w, "Threshold | Accuracy | Bar Chart")
	fmt.Fprintln(w, "----------|----------|"+strings.Repeat("-", 50))

	maxBarWidth := 50
	for _, point := range scan {
		var barWidth int
		if maxAcc != minAcc {
			barWidth = int((point.Accuracy - minAcc) / (maxAcc - minAcc) * float64(maxBarWidth))
		} else {
			barWidth = maxBarWidth / 2
		}

		bar := strings.Repeat("█", barWidth)
		if barWidth == 0 {
			bar = "▏"
		}

		marker := ""
		if point == best {
			marker = " <- best"
		}
		fmt.Fprintf(w, "%9.4f | %.6f | %s%s\n", point.Threshold, point.Accuracy, bar, marker)
	}

	fmt.Fprintf(w, "\nScale: Min=%.6f, Max=%.6f\n", minAcc, maxAcc)
	fmt.Fprintf(w, "Best: accuracy %.6f at threshold %.4f\n", best.Accuracy, best.Threshold)
}
