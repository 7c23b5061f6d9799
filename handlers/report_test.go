package handlers

import (
	"testing"

	"fitstake/models"

	"github.com/stretchr/testify/assert"
)

func TestValidReportTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{models.ReportPending, models.ReportReviewed, true},
		{models.ReportPending, models.ReportDismissed, true},
		{models.ReportPending, models.ReportPending, true},

		// Re-applying a terminal status is a tolerated no-op.
		{models.ReportReviewed, models.ReportReviewed, true},
		{models.ReportDismissed, models.ReportDismissed, true},

		// Terminal statuses never move again.
		{models.ReportReviewed, models.ReportDismissed, false},
		{models.ReportDismissed, models.ReportReviewed, false},
		{models.ReportReviewed, models.ReportPending, false},
		{models.ReportDismissed, models.ReportPending, false},

		{models.ReportPending, "escalated", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, validReportTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
