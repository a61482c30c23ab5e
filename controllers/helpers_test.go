package controllers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	got := parseDate("2026-08-28")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), *got)

	got = parseDate("2026-08-28T10:30:00Z")
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Hour())

	assert.Nil(t, parseDate(""))
	assert.Nil(t, parseDate("28/08/2026"))
}

func TestOrderFilterFromQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/orders?status=placed&search=ORD&dateFrom=2026-08-01&page=2&limit=25", nil)
	filter := orderFilterFromQuery(r)

	assert.Equal(t, "placed", filter.Status)
	assert.Equal(t, "ORD", filter.Search)
	require.NotNil(t, filter.DateFrom)
	assert.Nil(t, filter.DateTo)
	assert.Equal(t, 2, filter.Page)
	assert.Equal(t, 25, filter.Limit)
}

func TestValidateSlot(t *testing.T) {
	assert.NoError(t, validateSlot("Morning", "06:00 AM", "11:00 AM"))
	assert.NoError(t, validateSlot("Evening", "04:00 PM", "09:30 PM"))

	assert.Error(t, validateSlot("Afternoon", "01:00 PM", "03:00 PM"))
	assert.Error(t, validateSlot("Morning", "6:00 AM", "11:00 AM"))
	assert.Error(t, validateSlot("Morning", "06:00 AM", "13:00 PM"))
	assert.Error(t, validateSlot("Morning", "06:00", "11:00"))
}
