package models

import "time"

// EventCategory is the closed set of event kinds.
type EventCategory string

const (
	CategoryWorkshop   EventCategory = "workshop"
	CategorySeminar    EventCategory = "seminar"
	CategoryWebinar    EventCategory = "webinar"
	CategoryConference EventCategory = "conference"
)

// EventCategories lists every valid category.
var EventCategories = []EventCategory{CategoryWorkshop, CategorySeminar, CategoryWebinar, CategoryConference}

func (c EventCategory) IsValid() bool {
	for _, v := range EventCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Event is a workshop, seminar, webinar or conference. Price is free text.
type Event struct {
	ID                    int64         `db:"id"`
	Title                 string        `db:"title"`
	Date                  time.Time     `db:"date"`
	Time                  string        `db:"time"`
	Location              string        `db:"location"`
	Category              EventCategory `db:"category"`
	ImageURL              *string       `db:"image_url"`
	ImageUpload           *string       `db:"image_upload"`
	Instructor            string        `db:"instructor"`
	Attendees             int           `db:"attendees"`
	Description           string        `db:"description"`
	AdditionalDescription string        `db:"additional_description"`
	Duration              string        `db:"duration"`
	TargetAudience        string        `db:"target_audience"`
	Prerequisites         string        `db:"prerequisites"`
	Price                 string        `db:"price"`
	CreatedBy             int64         `db:"created_by"`
	CreatedAt             time.Time     `db:"created_at"`
}

// Image prefers the uploaded file over the external URL.
func (e *Event) Image() string {
	if e.ImageUpload != nil && *e.ImageUpload != "" {
		return *e.ImageUpload
	}
	if e.ImageURL != nil {
		return *e.ImageURL
	}
	return ""
}

// EventRegister records a user's registration for an event.
type EventRegister struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	EventID   int64     `db:"event_id"`
	CreatedAt time.Time `db:"created_at"`

	Username   string
	EventTitle string
}
