package dto

import (
	"time"

	"github.com/rosterd/rosterd/internal/model"
)

// StudentRequest represents the request body for creating or updating a student.
type StudentRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	DOB       string  `json:"dob"`
	Gender    string  `json:"gender"`
	StudentNo string  `json:"student_no"`
	Dept      string  `json:"dept"`
	Year      string  `json:"year"`
	Phone     string  `json:"phone"`
	Address   string  `json:"address"`
	GPA       float64 `json:"gpa"`
}

// StudentResponse represents a student in API responses.
type StudentResponse struct {
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

// ToStudentResponse converts a Student model to StudentResponse DTO.
func ToStudentResponse(student *model.Student) *StudentResponse {
	return &StudentResponse{
		ID:        student.ID,
		Name:      student.Name,
		Email:     student.Email,
		DOB:       student.DOB,
		Gender:    student.Gender,
		StudentNo: student.StudentNo,
		Dept:      student.Dept,
		Year:      student.Year,
		Phone:     student.Phone,
		Address:   student.Address,
		GPA:       student.GPA,
		CreatedAt: student.CreatedAt,
		UpdatedAt: student.UpdatedAt,
	}
}
