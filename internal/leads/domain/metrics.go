package domain

import "time"

// Metrics is the summary strip shown above the queues.
type Metrics struct {
	LeadsThisWeek       int     `json:"leadsThisWeek"`
	TotalLeads          int     `json:"totalLeads"`
	PendingReview       int     `json:"pendingReview"`
	BookedConsultations int     `json:"bookedConsultations"`
	AvgHoursToBook      float64 `json:"avgHoursToBook"`
}

// MetricsRow is the projection of a lead needed to compute Metrics.
type MetricsRow struct {
	Status      Status
	SubmittedAt *time.Time
	BookedAt    *time.Time
}

// ComputeMetrics counts leads submitted in the last seven days, pending leads and
// booked leads (BOOKED or COMPLETED), and averages submission-to-booking hours
// over booked leads with a positive duration, rounded to one decimal.
func ComputeMetrics(rows []MetricsRow, now time.Time) Metrics {
	weekAgo := now.Add(-7 * 24 * time.Hour)
	metrics := Metrics{TotalLeads: len(rows)}

	var (
		totalHours float64
		samples    int
	)
	for _, row := range rows {
		if row.SubmittedAt != nil && !row.SubmittedAt.Before(weekAgo) {
			metrics.LeadsThisWeek++
		}
		if row.Status == StatusPendingReview {
			metrics.PendingReview++
		}
		if row.Status == StatusBooked || row.Status == StatusCompleted {
			metrics.BookedConsultations++
			if row.BookedAt != nil && row.SubmittedAt != nil {
				hours := row.BookedAt.Sub(*row.SubmittedAt).Hours()
				if hours > 0 {
					totalHours += hours
					samples++
				}
			}
		}
	}

	if samples > 0 {
		metrics.AvgHoursToBook = RoundTo1(totalHours / float64(samples))
	}
	return metrics
}

// MetricsFromLeads projects leads to metrics rows.
func MetricsFromLeads(leads []Lead) []MetricsRow {
	rows := make([]MetricsRow, len(leads))
	for i, lead := range leads {
		rows[i] = MetricsRow{Status: lead.Status, SubmittedAt: lead.SubmittedAt, BookedAt: lead.BookedAt}
	}
	return rows
}
