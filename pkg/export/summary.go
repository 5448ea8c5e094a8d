package export

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gilby125/flight-emissions-api/emissions"
)

// SummaryLines renders a batch summary as human-readable lines with grouped
// thousands, suitable for logs or a plain-text report footer.
func SummaryLines(summary emissions.BatchSummary) []string {
	p := message.NewPrinter(language.English)

	lines := []string{
		p.Sprintf("%d rows processed, %d failed", summary.Rows, summary.Failed),
		p.Sprintf("total: %.1f km, %.1f kg CO2e across %d trips",
			summary.TotalDistanceKm, summary.TotalEmissionsKg, summary.TotalTrips),
		p.Sprintf("domestic: %.1f km, %.1f kg CO2e",
			summary.DomesticDistanceKm, summary.DomesticEmissionsKg),
		p.Sprintf("international: %.1f km, %.1f kg CO2e",
			summary.InternationalDistanceKm, summary.InternationalEmissionsKg),
	}

	if summary.HighestRoute != "" {
		lines = append(lines, p.Sprintf(
			"highest-emissions route %s at %.1f kg CO2e; a 10%% cut would bring it to %.1f kg",
			summary.HighestRoute, summary.HighestEmissionsKg, summary.ReducedEmissionsKg))
	}

	return lines
}
