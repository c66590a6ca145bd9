package repositories

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/learnhub/internal/app/models"
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// assertPlaceholders checks that the query numbers its parameters $1..$n
// without gaps and that n matches the argument count.
func assertPlaceholders(t *testing.T, query string, args []interface{}) {
	t.Helper()

	assert.NotContains(t, query, "?", "unnumbered placeholder in %q", query)

	seen := map[int]bool{}
	highest := 0
	for _, m := range placeholderRe.FindAllStringSubmatch(query, -1) {
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		seen[n] = true
		if n > highest {
			highest = n
		}
	}
	assert.Equal(t, len(args), highest, "placeholders vs args in %q", query)
	for i := 1; i <= highest; i++ {
		assert.True(t, seen[i], "missing $%d in %q", i, query)
	}
}

func TestCourseStatsQueryNumbersBothSubqueries(t *testing.T) {
	r := NewCourseRepository(nil)

	query, args, err := r.courseStatsQuery(7)
	require.NoError(t, err)

	assertPlaceholders(t, query, args)
	assert.Equal(t, []interface{}{int64(7), int64(7)}, args)
	assert.Contains(t, query, "(SELECT COUNT(*) FROM lessons l JOIN sections s ON s.id = l.section_id WHERE s.course_id = $1)")
	assert.Contains(t, query, "(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = $2)")
}

func TestExistsQuery(t *testing.T) {
	sb := newBuilder()

	query, args, err := existsQuery(sb, "enrollments", squirrel.Eq{"user_id": int64(3), "course_id": int64(9)})
	require.NoError(t, err)
	assertPlaceholders(t, query, args)
	assert.Equal(t, "SELECT EXISTS(SELECT 1 FROM enrollments WHERE course_id = $1 AND user_id = $2 LIMIT 1)", query)
	assert.Equal(t, []interface{}{int64(9), int64(3)}, args)
}

func TestCountInWindowsQuery(t *testing.T) {
	r := NewStatsRepository(nil)
	loc := time.FixedZone("ICT", 7*3600)
	current := models.Window{From: time.Date(2025, 3, 10, 0, 0, 0, 0, loc), To: time.Date(2025, 3, 17, 0, 0, 0, 0, loc)}
	previous := models.Window{From: time.Date(2025, 3, 3, 0, 0, 0, 0, loc), To: current.From}

	query, args, err := r.countInWindowsQuery(StatEnrollments, current, previous)
	require.NoError(t, err)

	assertPlaceholders(t, query, args)
	assert.Equal(t, "SELECT COUNT(*), "+
		"COUNT(*) FILTER (WHERE enrolled_at >= $1 AND enrolled_at < $2), "+
		"COUNT(*) FILTER (WHERE enrolled_at >= $3 AND enrolled_at < $4) "+
		"FROM enrollments", query)
	assert.Equal(t, []interface{}{current.From, current.To, previous.From, previous.To}, args)

	query, _, err = r.countInWindowsQuery(StatUsers, current, previous)
	require.NoError(t, err)
	assert.Contains(t, query, "date_joined >= $1")
	assert.True(t, strings.HasSuffix(query, "FROM users"))

	_, _, err = r.countInWindowsQuery(StatEntity("lessons"), current, previous)
	assert.Error(t, err)
}

func TestRevokeTokenQueryOnlyTouchesLiveTokens(t *testing.T) {
	r := NewTokenRepository(nil)

	query, args, err := r.revokeTokenQuery("abc")
	require.NoError(t, err)

	assertPlaceholders(t, query, args)
	assert.Equal(t, "UPDATE refresh_tokens SET is_revoked = $1 WHERE is_revoked = $2 AND token = $3", query)
	assert.Equal(t, []interface{}{true, false, "abc"}, args)
}

func TestSectionQueriesQuoteOrder(t *testing.T) {
	r := NewSectionRepository(nil)

	query, args, err := r.listSectionsQuery(nil).ToSql()
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Equal(t, `SELECT id, course_id, title, "order" FROM sections ORDER BY course_id, "order", id`, query)

	courseID := int64(4)
	query, args, err = r.listSectionsQuery(&courseID).ToSql()
	require.NoError(t, err)
	assertPlaceholders(t, query, args)
	assert.Contains(t, query, "WHERE course_id = $1")
	assert.Equal(t, []interface{}{int64(4)}, args)

	query, args, err = r.sectionLessonsQuery([]int64{1, 2, 5}).ToSql()
	require.NoError(t, err)
	assertPlaceholders(t, query, args)
	assert.Contains(t, query, "WHERE section_id IN ($1,$2,$3)")
	assert.Contains(t, query, `ORDER BY section_id, "order", id`)
}

func TestListEnrollmentsQueryFilters(t *testing.T) {
	r := NewEnrollmentRepository(nil)

	query, args, err := r.listEnrollmentsQuery(EnrollmentFilter{}).ToSql()
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.NotContains(t, query, "WHERE")

	userID := int64(12)
	query, args, err = r.listEnrollmentsQuery(EnrollmentFilter{UserID: &userID, PaidOnly: true}).ToSql()
	require.NoError(t, err)
	assertPlaceholders(t, query, args)
	assert.Contains(t, query, "WHERE en.user_id = $1 AND c.is_paid = $2")
	assert.Equal(t, []interface{}{int64(12), true}, args)
}

func TestLatestWithStudentsQuery(t *testing.T) {
	r := NewCourseRepository(nil)

	query, args, err := r.latestWithStudentsQuery(5)
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Contains(t, query, "LEFT JOIN enrollments e ON e.course_id = c.id")
	assert.True(t, strings.HasSuffix(query, "GROUP BY c.id ORDER BY c.created_at DESC, c.id DESC LIMIT 5"))
}
