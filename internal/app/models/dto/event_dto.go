package dto

import (
	"time"

	"github.com/yigit/learnhub/internal/app/models"
)

// DateLayout is the wire format of event dates.
const DateLayout = "2006-01-02"

type CreateEventRequest struct {
	Title                 string  `json:"title" binding:"required,max=255"`
	Date                  string  `json:"date" binding:"required,datetime=2006-01-02"`
	Time                  string  `json:"time" binding:"max=50"`
	Location              string  `json:"location" binding:"max=255"`
	Category              string  `json:"category" binding:"required,oneof=workshop seminar webinar conference"`
	ImageURL              *string `json:"image_url" binding:"omitempty,url,max=500"`
	Instructor            string  `json:"instructor" binding:"max=255"`
	Attendees             int     `json:"attendees" binding:"gte=0,lte=2147483647"`
	Description           string  `json:"description"`
	AdditionalDescription string  `json:"additional_description"`
	Duration              string  `json:"duration" binding:"max=100"`
	TargetAudience        string  `json:"target_audience" binding:"max=255"`
	Prerequisites         string  `json:"prerequisites"`
	Price                 string  `json:"price" binding:"max=100"`
}

// UpdateEventRequest applies only the fields present in the body.
type UpdateEventRequest struct {
	Title                 *string `json:"title" binding:"omitempty,min=1,max=255"`
	Date                  *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Time                  *string `json:"time" binding:"omitempty,max=50"`
	Location              *string `json:"location" binding:"omitempty,max=255"`
	Category              *string `json:"category" binding:"omitempty,oneof=workshop seminar webinar conference"`
	ImageURL              *string `json:"image_url" binding:"omitempty,url,max=500"`
	Instructor            *string `json:"instructor" binding:"omitempty,max=255"`
	Attendees             *int    `json:"attendees" binding:"omitempty,gte=0,lte=2147483647"`
	Description           *string `json:"description"`
	AdditionalDescription *string `json:"additional_description"`
	Duration              *string `json:"duration" binding:"omitempty,max=100"`
	TargetAudience        *string `json:"target_audience" binding:"omitempty,max=255"`
	Prerequisites         *string `json:"prerequisites"`
	Price                 *string `json:"price" binding:"omitempty,max=100"`
}

type EventResponse struct {
	ID                    int64     `json:"id"`
	Title                 string    `json:"title"`
	Date                  string    `json:"date" example:"2025-06-01"`
	Time                  string    `json:"time" example:"09:00 - 11:30"`
	Location              string    `json:"location"`
	Category              string    `json:"category" example:"workshop"`
	Image                 string    `json:"image"`
	ImageURL              *string   `json:"image_url"`
	ImageUpload           *string   `json:"image_upload"`
	Instructor            string    `json:"instructor"`
	Attendees             int       `json:"attendees"`
	Description           string    `json:"description"`
	AdditionalDescription string    `json:"additional_description"`
	Duration              string    `json:"duration"`
	TargetAudience        string    `json:"target_audience"`
	Prerequisites         string    `json:"prerequisites"`
	Price                 string    `json:"price" example:"Miễn phí"`
	CreatedBy             int64     `json:"created_by"`
	CreatedAt             time.Time `json:"created_at"`
}

type CreateEventRegisterRequest struct {
	EventID int64 `json:"event_id" binding:"required,min=1"`
}

// EventRegisterResponse shows the user by username and the event by title.
type EventRegisterResponse struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	Event     string    `json:"event"`
	EventID   int64     `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

type IsRegisteredResponse struct {
	IsRegistered bool `json:"is_registered"`
}

func NewEventResponse(e *models.Event) EventResponse {
	return EventResponse{
		ID:                    e.ID,
		Title:                 e.Title,
		Date:                  e.Date.Format(DateLayout),
		Time:                  e.Time,
		Location:              e.Location,
		Category:              string(e.Category),
		Image:                 e.Image(),
		ImageURL:              e.ImageURL,
		ImageUpload:           e.ImageUpload,
		Instructor:            e.Instructor,
		Attendees:             e.Attendees,
		Description:           e.Description,
		AdditionalDescription: e.AdditionalDescription,
		Duration:              e.Duration,
		TargetAudience:        e.TargetAudience,
		Prerequisites:         e.Prerequisites,
		Price:                 e.Price,
		CreatedBy:             e.CreatedBy,
		CreatedAt:             e.CreatedAt,
	}
}

func NewEventResponses(events []models.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, NewEventResponse(&events[i]))
	}
	return out
}

func NewEventRegisterResponse(r *models.EventRegister) EventRegisterResponse {
	return EventRegisterResponse{
		ID:        r.ID,
		User:      r.Username,
		Event:     r.EventTitle,
		EventID:   r.EventID,
		CreatedAt: r.CreatedAt,
	}
}

func NewEventRegisterResponses(rows []models.EventRegister) []EventRegisterResponse {
	out := make([]EventRegisterResponse, 0, len(rows))
	for i := range rows {
		out = append(out, NewEventRegisterResponse(&rows[i]))
	}
	return out
}
