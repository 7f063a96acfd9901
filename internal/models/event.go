package models

import "time"

// CreateEventRequest is the POST /api/events payload. The poster's name and
// owner id come from the authenticated caller, never from the body.
type CreateEventRequest struct {
	Title       string     `json:"title"`
	DateTime    *time.Time `json:"dateTime"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
}

// UpdateEventRequest is the PUT /api/events/:id payload. All fields are
// optional; absent fields keep their stored values.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	DateTime    *time.Time `json:"dateTime"`
	Location    *string    `json:"location"`
	Description *string    `json:"description"`
}

// JoinEventResponse is returned by POST /api/events/:id/join.
type JoinEventResponse struct {
	Message       string `json:"message"`
	AttendeeCount int    `json:"attendeeCount"`
}
