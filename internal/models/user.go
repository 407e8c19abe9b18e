package models

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User lives in the relational store. Password is nil for accounts created
// implicitly at checkout; those users cannot log in until they sign up.
type User struct {
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	PhoneNumber *string   `json:"phone_number"`
	Email       string    `json:"email"`
	Password    *string   `json:"-"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
