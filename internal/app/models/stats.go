package models

import "time"

// CourseRevenue is one course's share of enrollment revenue.
type CourseRevenue struct {
	CourseID         int64
	Title            string
	Price            float64
	TotalEnrollments int64
	TotalRevenue     float64
}

// PeriodCount is a row count overall and inside two adjacent windows.
type PeriodCount struct {
	Total    int64
	Current  int64
	Previous int64
}

// Window is a half open time range [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// RefreshToken is an opaque token stored for rotation.
type RefreshToken struct {
	Token      string
	UserID     int64
	ExpiryDate time.Time
	IsRevoked  bool
}
