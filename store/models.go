package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid document")
)

// Dare - a wager created through the create action
type Dare struct {
	ID          uint      `gorm:"primaryKey" json:"-" bson:"-"`
	DareNumber  int64     `gorm:"uniqueIndex;not null" json:"dareNumber" bson:"dareNumber"`
	Address     string    `gorm:"size:44;not null" json:"address" bson:"address"`
	Title       string    `gorm:"type:text;not null" json:"title" bson:"title"`
	Description string    `gorm:"type:text;not null" json:"description" bson:"description"`
	BetAmount   uint64    `gorm:"not null" json:"betAmount" bson:"betAmount"`
	StakeAmount float64   `gorm:"not null" json:"stakeAmount" bson:"stakeAmount"`
	Timestamp   time.Time `gorm:"<-:create;autoCreateTime;not null" json:"timestamp" bson:"timestamp"`
}

func (Dare) TableName() string {
	return "dares"
}

// Validate checks required fields before a number is assigned.
func (d *Dare) Validate() error {
	var problems []string
	if strings.TrimSpace(d.Address) == "" {
		problems = append(problems, "Address is required")
	}
	if strings.TrimSpace(d.Title) == "" {
		problems = append(problems, "Title is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		problems = append(problems, "Description is required")
	}
	if d.StakeAmount < 0 {
		problems = append(problems, "Stake amount must not be negative")
	}
	return joinProblems(problems)
}

// Submission - a tweet entered into a dare through the dare action
type Submission struct {
	ID               uint      `gorm:"primaryKey" json:"-" bson:"-"`
	SubmissionNumber int64     `gorm:"uniqueIndex;not null" json:"submissionNumber" bson:"submissionNumber"`
	DareNumber       int64     `gorm:"index;not null" json:"dareNumber" bson:"dareNumber"`
	Address          string    `gorm:"size:44;not null" json:"address" bson:"address"`
	Link             string    `gorm:"type:text;not null" json:"link" bson:"link"`
	Timestamp        time.Time `gorm:"<-:create;autoCreateTime;not null" json:"timestamp" bson:"timestamp"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) Validate() error {
	var problems []string
	if s.DareNumber <= 0 {
		problems = append(problems, "Dare number is required")
	}
	if strings.TrimSpace(s.Address) == "" {
		problems = append(problems, "Address is required")
	}
	if strings.TrimSpace(s.Link) == "" {
		problems = append(problems, "Tweet link is required")
	}
	return joinProblems(problems)
}

func joinProblems(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, ", "))
}
