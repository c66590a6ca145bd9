package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStartOfWeek(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)

	// Wednesday
	wed := time.Date(2024, 5, 15, 13, 45, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, loc), StartOfWeek(wed))

	// Sunday belongs to the week that started the previous Monday
	sun := time.Date(2024, 5, 19, 23, 59, 0, 0, loc)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, loc), StartOfWeek(sun))

	mon := time.Date(2024, 5, 13, 0, 0, 0, 0, loc)
	assert.Equal(t, mon, StartOfWeek(mon))
}

func TestWeekWindows(t *testing.T) {
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	cur, prev := WeekWindows(now)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cur[0])
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), cur[1])
	assert.Equal(t, time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC), prev[0])
	assert.Equal(t, cur[0], prev[1])
}

func TestMonthWindowsAcrossYear(t *testing.T) {
	now := time.Date(2024, 1, 31, 22, 0, 0, 0, time.UTC)
	cur, prev := MonthWindows(now)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), cur[0])
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), cur[1])
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), prev[0])
	assert.Equal(t, cur[0], prev[1])
}

func TestParseDurationFallsBack(t *testing.T) {
	assert.Equal(t, 2*time.Hour, ParseDuration("2h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}

func TestParsePositiveQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query  string
		want   int
		wantOK bool
	}{
		{"", 5, true},
		{"?top=3", 3, true},
		{"?top=0", 0, false},
		{"?top=-2", 0, false},
		{"?top=abc", 0, false},
	}

	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/x"+tc.query, nil)

		got, ok := ParsePositiveQuery(c, "top", 5)
		assert.Equal(t, tc.wantOK, ok, tc.query)
		if tc.wantOK {
			assert.Equal(t, tc.want, got, tc.query)
		}
	}
}

func TestNilIfBlank(t *testing.T) {
	blank := "   "
	text := " hello "

	assert.Nil(t, NilIfBlank(nil))
	assert.Nil(t, NilIfBlank(&blank))
	assert.Equal(t, "hello", *NilIfBlank(&text))
}
