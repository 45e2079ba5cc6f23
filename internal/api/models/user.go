package models

// User represents a user in the database.
type User struct {
	ID           int64  `db:"id"`
	Login        string `db:"login"`
	PasswordHash string `db:"password_hash"`
}

// RegisterRequest defines the form fields of a registration.
type RegisterRequest struct {
	Login    string `form:"login" validate:"required,nonul,max=100"`
	Password string `form:"password" validate:"required"`
}

// LoginRequest defines the form fields of a login attempt.
type LoginRequest struct {
	Login    string `form:"login" validate:"required"`
	Password string `form:"password" validate:"required"`
}
