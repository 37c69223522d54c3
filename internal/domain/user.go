package domain

import (
	"strings"
	"time"
)

// User is the directory record. The leave lifecycle only reads the
// actor projection: id, role, manager link and active flag.
type User struct {
	UserID       string    `json:"id" dynamodbav:"user_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	FirstName    string    `json:"first_name" dynamodbav:"first_name"`
	LastName     string    `json:"last_name" dynamodbav:"last_name"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Role         Role      `json:"role" dynamodbav:"role"`
	ManagerID    *string   `json:"manager_id,omitempty" dynamodbav:"manager_id,omitempty"`
	DepartmentID *string   `json:"department_id,omitempty" dynamodbav:"department_id,omitempty"`
	JobTitle     string    `json:"job_title,omitempty" dynamodbav:"job_title"`
	Enable       bool      `json:"enable" dynamodbav:"enable"`
	CreatedAt    time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated" dynamodbav:"updated_at"`
}

func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) IsActive() bool {
	return u != nil && u.Enable
}

type CreateUserRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8,max=72"`
	FirstName    string  `json:"first_name" validate:"required"`
	LastName     string  `json:"last_name" validate:"required"`
	Role         string  `json:"role" validate:"required"`
	ManagerID    *string `json:"manager_id"`
	DepartmentID *string `json:"department_id"`
	JobTitle     string  `json:"job_title"`
}

type AssignManagerRequest struct {
	ManagerID string `json:"manager_id" validate:"required"`
}

type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}
