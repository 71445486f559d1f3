package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicworks/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestParseDLPDuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"5 Years", 1825},
		{"6 Months", 180},
		{"90 Days", 90},
		{"1 year", 365},
		{"12 months", 360},
		{"2YEARS", 730},
		{"", 0},
		{"garbage", 0},
		{"Years", 0},   // no integer token
		{"5 weeks", 0}, // unrecognised unit
		{"DLP: 3 year defect period", 1095},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseDLPDuration(tc.in), "input %q", tc.in)
	}
}

func TestWorkBanding(t *testing.T) {
	now := date(2024, 3, 1)

	cases := []struct {
		days   int
		status WorkStatus
		style  Style
	}{
		{120, WorkOnTrack, StyleSuccess},
		{61, WorkOnTrack, StyleSuccess},
		{60, WorkAttention, StyleWarning},
		{30, WorkAttention, StyleWarning},
		{29, WorkCritical, StyleDanger},
		{1, WorkCritical, StyleDanger},
		{0, WorkDueToday, StyleDanger},
		{-1, WorkOverdue, StyleDanger},
		{-45, WorkOverdue, StyleDanger},
	}
	for _, tc := range cases {
		end := now.AddDate(0, 0, tc.days)
		got := Compute(Input{CompletionDate: &end, Status: models.StatusOngoing}, now)
		require.NotNil(t, got.Work.DaysRemaining, "days=%d", tc.days)
		assert.Equal(t, tc.days, *got.Work.DaysRemaining)
		assert.Equal(t, tc.status, got.Work.Status, "days=%d", tc.days)
		assert.Equal(t, tc.style, got.Work.Style, "days=%d", tc.days)
	}
}

func TestWorkOverdueMessageCarriesAbsoluteDays(t *testing.T) {
	now := date(2024, 3, 1)
	got := Compute(Input{CompletionDate: datePtr(2024, 2, 20), Status: models.StatusOngoing}, now)
	assert.Equal(t, WorkOverdue, got.Work.Status)
	assert.Contains(t, got.Work.Message, "10 days")
}

func TestWorkUnknownWhenNoDates(t *testing.T) {
	got := Compute(Input{Status: models.StatusOngoing}, date(2024, 3, 1))
	assert.Equal(t, WorkUnknown, got.Work.Status)
	assert.Nil(t, got.Work.DaysRemaining)
	assert.Equal(t, StyleMuted, got.Work.Style)
}

func TestRevisedDateTakesPrecedence(t *testing.T) {
	now := date(2024, 3, 1)
	got := Compute(Input{
		CompletionDate:        datePtr(2024, 3, 10),
		RevisedCompletionDate: datePtr(2024, 8, 1),
		Status:                models.StatusOngoing,
	}, now)
	assert.True(t, got.Work.IsRevised)
	require.NotNil(t, got.Work.EffectiveEnd)
	assert.Equal(t, date(2024, 8, 1), *got.Work.EffectiveEnd)
	assert.Equal(t, 153, *got.Work.DaysRemaining)
}

func TestDLPCompletedActive(t *testing.T) {
	// completion 2024-01-01, "6 Months" => 180 days, end 2024-06-29;
	// 120 days remain as of 2024-03-01.
	got := Compute(Input{
		CompletionDate: datePtr(2024, 1, 1),
		DLP:            "6 Months",
		Status:         models.StatusCompleted,
	}, date(2024, 3, 1))

	require.NotNil(t, got.DLP.Start)
	require.NotNil(t, got.DLP.End)
	assert.Equal(t, date(2024, 1, 1), *got.DLP.Start)
	assert.Equal(t, date(2024, 6, 29), *got.DLP.End)
	require.NotNil(t, got.DLP.DaysRemaining)
	assert.Equal(t, 120, *got.DLP.DaysRemaining)
	assert.True(t, got.DLP.IsActive)
	assert.Equal(t, DLPActive, got.DLP.Status)
}

func TestDLPBanding(t *testing.T) {
	now := date(2024, 3, 1)

	cases := []struct {
		days   int
		status DLPStatus
	}{
		{91, DLPActive},
		{90, DLPExpiringSoon},
		{30, DLPExpiringSoon},
		{29, DLPCritical},
		{1, DLPCritical},
		{0, DLPEndsToday},
		{-1, DLPExpired},
	}
	for _, tc := range cases {
		// Pick a completion date so that end = completion + 180 lands on
		// now + tc.days.
		completion := now.AddDate(0, 0, tc.days-180)
		got := Compute(Input{
			CompletionDate: &completion,
			DLP:            "6 Months",
			Status:         models.StatusCompleted,
		}, now)
		require.NotNil(t, got.DLP.DaysRemaining, "days=%d", tc.days)
		assert.Equal(t, tc.days, *got.DLP.DaysRemaining)
		assert.Equal(t, tc.status, got.DLP.Status, "days=%d", tc.days)
	}
}

func TestDLPExpiredMessage(t *testing.T) {
	got := Compute(Input{
		CompletionDate: datePtr(2020, 1, 1),
		DLP:            "1 Year",
		Status:         models.StatusCompleted,
	}, date(2024, 3, 1))
	assert.Equal(t, DLPExpired, got.DLP.Status)
	assert.Contains(t, got.DLP.Message, "liability has ended")
}

func TestDLPOngoingStates(t *testing.T) {
	now := date(2024, 3, 1)

	noDate := Compute(Input{DLP: "1 Year", Status: models.StatusOngoing}, now)
	assert.Equal(t, DLPNoDate, noDate.DLP.Status)

	preview := Compute(Input{
		CompletionDate: datePtr(2024, 6, 1),
		DLP:            "1 Year",
		Status:         models.StatusOngoing,
	}, now)
	assert.Equal(t, DLPPreview, preview.DLP.Status)
	assert.False(t, preview.DLP.IsActive)
	assert.Nil(t, preview.DLP.DaysRemaining)
	require.NotNil(t, preview.DLP.End)
	assert.Equal(t, date(2025, 6, 1), *preview.DLP.End)
}

func TestDLPNoDurationAndOtherStatuses(t *testing.T) {
	now := date(2024, 3, 1)

	none := Compute(Input{CompletionDate: datePtr(2024, 1, 1), Status: models.StatusCompleted}, now)
	assert.Equal(t, DLPNone, none.DLP.Status)

	pending := Compute(Input{
		CompletionDate: datePtr(2024, 1, 1),
		DLP:            "1 Year",
		Status:         models.StatusPending,
	}, now)
	assert.Equal(t, DLPNotApplicable, pending.DLP.Status)
	assert.Nil(t, pending.DLP.Start)

	returned := Compute(Input{DLP: "1 Year", Status: models.StatusReturned}, now)
	assert.Equal(t, DLPNotApplicable, returned.DLP.Status)
}

func TestDLPRevisedDateDrivesWindow(t *testing.T) {
	got := Compute(Input{
		CompletionDate:        datePtr(2024, 1, 1),
		RevisedCompletionDate: datePtr(2024, 2, 1),
		DLP:                   "90 Days",
		Status:                models.StatusCompleted,
	}, date(2024, 3, 1))
	require.NotNil(t, got.DLP.Start)
	assert.Equal(t, date(2024, 2, 1), *got.DLP.Start)
	assert.Equal(t, date(2024, 5, 1), *got.DLP.End)
}

func TestComputeIsDeterministic(t *testing.T) {
	in := Input{
		CompletionDate:        datePtr(2024, 1, 1),
		RevisedCompletionDate: datePtr(2024, 4, 1),
		DLP:                   "2 Years",
		Status:                models.StatusCompleted,
	}
	now := date(2024, 3, 1)
	assert.Equal(t, Compute(in, now), Compute(in, now))
}
