package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate("2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", FormatDate(date))

	for _, bad := range []string{"", "2024-1-8", "08/01/2024", "2024-02-30"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestOffsetWindow(t *testing.T) {
	anchor, err := ParseDate("2024-01-08")
	require.NoError(t, err)

	w := OffsetWindow(anchor, 0, 14)
	assert.Equal(t, "2024-01-08", FormatDate(w.Start))
	assert.Equal(t, "2024-01-22", FormatDate(w.Due))

	// crosses a month and a leap day
	w = OffsetWindow(anchor, 50, 2)
	assert.Equal(t, "2024-02-27", FormatDate(w.Start))
	assert.Equal(t, "2024-02-29", FormatDate(w.Due))

	// zero duration is a same-day window
	w = OffsetWindow(anchor, 3, 0)
	assert.Equal(t, w.Start, w.Due)
}
