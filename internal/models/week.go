package models

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyPlan is the theme of one curriculum week.
type WeeklyPlan struct {
	WeekNumber  int      `json:"week_number" yaml:"week_number"`
	Theme       string   `json:"theme" yaml:"theme"`
	FocusSkills []string `json:"focus_skills" yaml:"focus_skills"`
	Notes       *string  `json:"notes" yaml:"notes"`
}

// Week is a weekly plan together with its drill assignments, in segment order.
type Week struct {
	WeeklyPlan
	Entries []CurriculumEntry `json:"drills"`
}

// DrillFeedback is a coach's rating of a drill after practice.
type DrillFeedback struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	DrillID   string    `json:"drill_id"`
	Rating    *int      `json:"rating"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
