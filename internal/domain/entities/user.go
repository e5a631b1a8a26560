package entities

import "time"

// UserRole represents account roles
type UserRole string

const (
	UserRoleProfessor UserRole = "professor"
	UserRoleStudent   UserRole = "student"
)

// User links an external identity account to a Student.
type User struct {
	UID       string    `json:"uid"`
	StudentID string    `json:"studentId"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// LinkAccountInput represents input for linking an account to a student
type LinkAccountInput struct {
	UID   string `json:"uid" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}
