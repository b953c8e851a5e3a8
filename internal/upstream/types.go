// Package upstream is the typed client for the learning-platform API.
// Every optional upstream field is an explicit pointer so absence is never
// silent at the adapter boundary.
package upstream

import "time"

type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

type Course struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Section       *string `json:"section,omitempty"`
	Description   *string `json:"description,omitempty"`
	Room          *string `json:"room,omitempty"`
	AlternateLink *string `json:"alternateLink,omitempty"`
}

type Name struct {
	FullName *string `json:"fullName,omitempty"`
}

type Profile struct {
	ID           string  `json:"id"`
	Name         *Name   `json:"name,omitempty"`
	EmailAddress *string `json:"emailAddress,omitempty"`
	PhotoURL     *string `json:"photoUrl,omitempty"`
}

// RosterEntry is one teacher or student enrolled in a course.
type RosterEntry struct {
	CourseID string   `json:"courseId"`
	UserID   string   `json:"userId"`
	Profile  *Profile `json:"profile,omitempty"`
}

type Announcement struct {
	ID            string     `json:"id"`
	CourseID      string     `json:"courseId"`
	CreatorUserID string     `json:"creatorUserId"`
	Text          *string    `json:"text,omitempty"`
	CreationTime  *time.Time `json:"creationTime,omitempty"`
}

// DueDate is a calendar date with no time-of-day component.
type DueDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type TimeOfDay struct {
	Hours   *int `json:"hours,omitempty"`
	Minutes *int `json:"minutes,omitempty"`
}

type CourseWork struct {
	ID          string     `json:"id"`
	CourseID    string     `json:"courseId"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	DueDate     *DueDate   `json:"dueDate,omitempty"`
	DueTime     *TimeOfDay `json:"dueTime,omitempty"`
	State       *string    `json:"state,omitempty"`
}

type Attachment struct {
	FileID string  `json:"fileId"`
	URL    *string `json:"url,omitempty"`
}

type Submission struct {
	ID           string       `json:"id"`
	CourseID     string       `json:"courseId"`
	CourseWorkID string       `json:"courseWorkId"`
	UserID       string       `json:"userId"`
	State        *string      `json:"state,omitempty"`
	Attachments  []Attachment `json:"attachments,omitempty"`
}

type UserProfile struct {
	ID           string  `json:"id"`
	Name         *Name   `json:"name,omitempty"`
	EmailAddress *string `json:"emailAddress,omitempty"`
	PhotoURL     *string `json:"photoUrl,omitempty"`
}
