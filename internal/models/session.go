package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a stored practice.
type SessionStatus string

const (
	StatusPlanning  SessionStatus = "planning"
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
)

// PracticeSession is a stored practice with its attendance.
type PracticeSession struct {
	ID          uuid.UUID     `json:"id"`
	WeekNumber  int           `json:"week_number"`
	Date        time.Time     `json:"date"`
	Status      SessionStatus `json:"status"`
	Notes       *string       `json:"notes"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at"`
	PlayerIDs   []string      `json:"player_ids"`
	CoachIDs    []string      `json:"coach_ids"`
}
