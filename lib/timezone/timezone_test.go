package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJourneyDates(t *testing.T) {
	cases := []struct {
		doj      string
		expected time.Time
		human    string
	}{
		{
			doj:      "05-Jun-2025",
			expected: time.Date(2025, time.June, 5, 0, 0, 0, 0, Location),
			human:    "Jun 5, 2025",
		},
		{
			doj:      "31-Dec-2024",
			expected: time.Date(2024, time.December, 31, 0, 0, 0, 0, Location),
			human:    "Dec 31, 2024",
		},
	}

	for _, test := range cases {
		parsed, err := ParseJourneyDate(test.doj)
		if err != nil {
			t.Fatal(err)
		}
		require.True(t, test.expected.Equal(parsed))
		require.Equal(t, test.doj, FormatJourneyDate(parsed))
		require.Equal(t, test.human, HumanJourneyDate(test.doj))
	}
}

func TestHumanJourneyDateFallback(t *testing.T) {
	require.Equal(t, "next tuesday", HumanJourneyDate("next tuesday"))

	_, err := ParseJourneyDate("2025-06-05")
	require.Error(t, err)
}
