package model

import "time"

// Student is a flat roster record. Plain persistence, no business rules.
type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	DOB       string    `json:"dob"`
	Gender    string    `json:"gender"`
	StudentNo string    `json:"student_no"`
	Dept      string    `json:"dept"`
	Year      string    `json:"year"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	GPA       float64   `json:"gpa"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
