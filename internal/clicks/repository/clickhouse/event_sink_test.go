package clickhouse

import (
	"testing"
	"time"

	"go-linktrack/internal/clicks/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventArgs_ColumnOrderAndConversions(t *testing.T) {
	event := domain.ClickEvent{
		Timestamp:  "2024-05-01T10:00:00.123Z",
		ClickID:    "clk_1",
		LinkID:     "link_1",
		Bot:        true,
		QR:         false,
		RefererURL: "(direct)",
	}

	args, err := eventArgs(event)

	require.NoError(t, err)
	require.Len(t, args, 31)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123_000_000, time.UTC), args[0])
	assert.Equal(t, "clk_1", args[2])
	assert.Equal(t, "link_1", args[3])
	assert.Equal(t, uint8(1), args[27])
	assert.Equal(t, uint8(0), args[28])
	assert.Equal(t, "(direct)", args[30])
}

func TestEventArgs_AcceptsRFC3339(t *testing.T) {
	args, err := eventArgs(domain.ClickEvent{Timestamp: "2024-05-01T12:00:00+02:00"})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), args[0])
}

func TestEventArgs_BadTimestamp(t *testing.T) {
	_, err := eventArgs(domain.ClickEvent{Timestamp: "yesterday"})

	assert.ErrorIs(t, err, domain.ErrInvalidEvent)
}
