package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/repositories"
	"github.com/yigit/learnhub/internal/pkg/cache"
	"github.com/yigit/learnhub/internal/pkg/helpers"
)

// StatsService computes revenue rankings and dashboard counters.
type StatsService interface {
	// TopRevenue returns courses by revenue, highest first. top <= 0 returns every course.
	TopRevenue(ctx context.Context, top int) ([]dto.CourseRevenueResponse, error)
	Dashboard(ctx context.Context) (*dto.DashboardStatsResponse, error)
}

type statsServiceImpl struct {
	statsRepo repositories.IStatsRepository
	cache     cache.Cache
	location  *time.Location
	now       Clock
	logger    zerolog.Logger
}

// NewStatsService creates a new StatsService. Week and month boundaries are
// computed in loc.
func NewStatsService(
	statsRepo repositories.IStatsRepository,
	c cache.Cache,
	loc *time.Location,
	now Clock,
	logger zerolog.Logger,
) StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &statsServiceImpl{
		statsRepo: statsRepo,
		cache:     c,
		location:  loc,
		now:       now,
		logger:    logger,
	}
}

func (s *statsServiceImpl) TopRevenue(ctx context.Context, top int) ([]dto.CourseRevenueResponse, error) {
	var ranked []models.CourseRevenue
	if !s.fromCache(ctx, cacheKeyCourseRevenue, &ranked) {
		rows, err := s.statsRepo.ListCourseRevenues(ctx)
		if err != nil {
			return nil, fmt.Errorf("course revenues: %w", err)
		}
		ranked = RankCourseRevenue(rows)
		s.toCache(ctx, cacheKeyCourseRevenue, ranked)
	}

	if top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}
	return dto.NewCourseRevenueResponses(ranked), nil
}

func (s *statsServiceImpl) Dashboard(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	var cached dto.DashboardStatsResponse
	if s.fromCache(ctx, cacheKeyDashboard, &cached) {
		return &cached, nil
	}

	now := s.now().In(s.location)
	weekCur, weekPrev := helpers.WeekWindows(now)
	monthCur, monthPrev := helpers.MonthWindows(now)
	current := models.Window{From: weekCur[0], To: weekCur[1]}
	previous := models.Window{From: weekPrev[0], To: weekPrev[1]}

	resp := &dto.DashboardStatsResponse{}
	targets := []struct {
		entity repositories.StatEntity
		dst    *dto.PeriodStat
	}{
		{repositories.StatCourses, &resp.Courses},
		{repositories.StatUsers, &resp.Users},
		{repositories.StatEnrollments, &resp.Enrollments},
	}
	for _, t := range targets {
		pc, err := s.statsRepo.CountInWindows(ctx, t.entity, current, previous)
		if err != nil {
			return nil, fmt.Errorf("dashboard %s: %w", t.entity, err)
		}
		*t.dst = dto.PeriodStat{
			Total:    pc.Total,
			ThisWeek: pc.Current,
			LastWeek: pc.Previous,
			Change:   CountChange(pc.Current, pc.Previous),
		}
	}

	cur, err := s.statsRepo.RevenueInWindow(ctx, models.Window{From: monthCur[0], To: monthCur[1]})
	if err != nil {
		return nil, fmt.Errorf("dashboard revenue: %w", err)
	}
	prev, err := s.statsRepo.RevenueInWindow(ctx, models.Window{From: monthPrev[0], To: monthPrev[1]})
	if err != nil {
		return nil, fmt.Errorf("dashboard revenue: %w", err)
	}
	resp.Revenue = dto.RevenueStat{
		CurrentMonth:  roundCents(cur),
		PreviousMonth: roundCents(prev),
		Change:        PercentChange(cur, prev),
	}

	s.toCache(ctx, cacheKeyDashboard, resp)
	return resp, nil
}

func (s *statsServiceImpl) fromCache(ctx context.Context, key string, dst interface{}) bool {
	ok, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Statistics cache read failed")
		return false
	}
	return ok
}

func (s *statsServiceImpl) toCache(ctx context.Context, key string, value interface{}) {
	if err := s.cache.SetJSON(ctx, key, value); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Statistics cache write failed")
	}
}

// RankCourseRevenue computes price x enrollments per course and orders the rows by
// revenue, highest first. Ties keep their input order.
func RankCourseRevenue(rows []models.CourseRevenue) []models.CourseRevenue {
	ranked := make([]models.CourseRevenue, len(rows))
	copy(ranked, rows)
	for i := range ranked {
		ranked[i].TotalRevenue = roundCents(ranked[i].Price * float64(ranked[i].TotalEnrollments))
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalRevenue > ranked[j].TotalRevenue
	})
	return ranked
}

// CountChange formats the signed difference between two counts, e.g. "+3" or "-1".
func CountChange(current, previous int64) string {
	return fmt.Sprintf("%+d", current-previous)
}

// PercentChange formats the relative change from previous to current.
func PercentChange(current, previous float64) string {
	if previous == 0 {
		if current > 0 {
			return "+∞%"
		}
		return "0%"
	}
	return fmt.Sprintf("%+.1f%%", (current-previous)/previous*100)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
