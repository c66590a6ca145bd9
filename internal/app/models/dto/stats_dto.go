package dto

// PeriodStat compares this calendar week with the previous one.
type PeriodStat struct {
	Total    int64  `json:"total"`
	ThisWeek int64  `json:"this_week"`
	LastWeek int64  `json:"last_week"`
	Change   string `json:"change" example:"+3"`
}

// RevenueStat compares this calendar month's revenue with the previous month's.
type RevenueStat struct {
	CurrentMonth  float64 `json:"current_month"`
	PreviousMonth float64 `json:"previous_month"`
	Change        string  `json:"change" example:"+12.5%"`
}

// DashboardStatsResponse is the body of GET /dashboard/stats.
type DashboardStatsResponse struct {
	Courses     PeriodStat  `json:"courses"`
	Users       PeriodStat  `json:"users"`
	Enrollments PeriodStat  `json:"enrollments"`
	Revenue     RevenueStat `json:"revenue"`
}
