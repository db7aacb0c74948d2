package formatter

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/younsl/ec2stop/internal/models"
	"github.com/younsl/ec2stop/pkg/pricing"
	"github.com/younsl/ec2stop/pkg/utils"
)

const maxNameWidth = 32

// EstimateKey returns the lookup key of a pricing estimate for region and instance type
func EstimateKey(region, instanceType string) string {
	return region + ":" + instanceType
}

// PrintStoppedTable prints a formatted table of stop transitions.
// estimates may be nil, in which case the cost columns are omitted.
func PrintStoppedTable(w io.Writer, records []models.InstanceRecord, estimates map[string]pricing.Estimate, scanTime time.Time, scanDuration time.Duration) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No running instances found.")
		return
	}

	sorted := make([]models.InstanceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Region != sorted[j].Region {
			return sorted[i].Region < sorted[j].Region
		}
		return sorted[i].InstanceID < sorted[j].InstanceID
	})

	// kubectl 스타일 tabwriter 설정
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintf(tw, "Stop time: %s (completed in %.2f seconds)\n",
		scanTime.Format("2006-01-02 15:04:05"),
		scanDuration.Seconds())

	if estimates != nil {
		fmt.Fprintln(tw, "INSTANCE ID\tNAME\tTYPE\tREGION\tPREVIOUS\tCURRENT\tCOST/MO\tPRICING")
	} else {
		fmt.Fprintln(tw, "INSTANCE ID\tNAME\tTYPE\tREGION\tPREVIOUS\tCURRENT")
	}

	var totalMonthly float64
	for _, record := range sorted {
		row := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s",
			record.InstanceID,
			getInstanceName(record.Name),
			valueOrDash(record.InstanceType),
			record.Region,
			colorState(record.PreviousState),
			colorState(record.CurrentState),
		)

		if estimates != nil {
			estimate, ok := estimates[EstimateKey(record.Region, record.InstanceType)]
			if !ok {
				estimate = pricing.Estimate{Source: pricing.SourceNA}
			}
			cost := "N/A"
			if estimate.Source != pricing.SourceNA {
				cost = fmt.Sprintf("$%.2f", estimate.MonthlyCost())
				totalMonthly += estimate.MonthlyCost()
			}
			row += fmt.Sprintf("\t%s\t%s", cost, GetPricingMarker(estimate.Source))
		}

		fmt.Fprintln(tw, row)
	}

	if estimates != nil {
		fmt.Fprintf(tw, "Total:\t\t\t\t\t%d\t$%.2f\t\n", len(sorted), totalMonthly)
	}

	tw.Flush()
}

// PrintFailedRegions lists the regions that could not be processed
func PrintFailedRegions(w io.Writer, failures []models.RegionFailure) {
	if len(failures) == 0 {
		return
	}

	fmt.Fprintln(w, "\n## Failed Regions")

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "REGION\tLOCATION\tERROR")
	for _, failure := range failures {
		fmt.Fprintf(tw, "%s\t%s\t%v\n",
			failure.Region,
			utils.GetRegionDescriptiveName(failure.Region),
			failure.Err,
		)
	}
	tw.Flush()
}

// PrintSummary prints a one-line human readable summary of the run
func PrintSummary(w io.Writer, stopped, regions int, started time.Time) {
	fmt.Fprintf(w, "\n%s %s instances stopped across %s %s (started %s)\n",
		color.GreenString("✓"),
		humanize.Comma(int64(stopped)),
		humanize.Comma(int64(regions)),
		plural(regions, "region", "regions"),
		humanize.Time(started),
	)
}

// PrintPricingStats prints the statistics of pricing lookups
func PrintPricingStats(w io.Writer, stats pricing.Stats) {
	total := stats.APICalls + stats.Failures
	if total == 0 && stats.CacheHits == 0 {
		return
	}

	successRate := 0.0
	if total > 0 {
		successRate = float64(stats.APICalls) / float64(total) * 100.0
	}

	fmt.Fprintln(w, "\n## AWS Pricing API Call Statistics")

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "API CALLS\tSUCCESS\tFAILURE\tCACHE HITS\tSUCCESS RATE")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%.1f%%\n",
		total,
		stats.APICalls,
		stats.Failures,
		stats.CacheHits,
		successRate,
	)
	tw.Flush()
}

// GetPricingMarker returns a suitable marker for the pricing source
func GetPricingMarker(source pricing.Source) string {
	switch source {
	case pricing.SourceAPI:
		return "API"
	case pricing.SourceCache:
		return "CACHE"
	case pricing.SourceNA:
		return "N/A"
	default:
		return "-"
	}
}

// getInstanceName returns a formatted instance name or <unnamed> if empty
func getInstanceName(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return TruncateString(name, maxNameWidth)
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func colorState(state string) string {
	switch state {
	case "running":
		return color.GreenString(state)
	case "stopping", "shutting-down", "pending":
		return color.YellowString(state)
	case "stopped", "terminated":
		return color.RedString(state)
	case "":
		return "-"
	default:
		return state
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
