package models

import "time"

// Accepted feedback rating range, inclusive.
const (
	FeedbackRatingMin = 1
	FeedbackRatingMax = 5
)

// Feedback is a student's rating of a session they booked.
type Feedback struct {
	AppointmentID string    `json:"appointment_id"`
	StudentID     string    `json:"student_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}
