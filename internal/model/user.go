package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	StatusActive  = "active"
	StatusBlocked = "blocked"
)

// User represents a portal account
type User struct {
	ID        string    `json:"id" bson:"_id"`
	Login     string    `json:"login" bson:"login"`
	Password  string    `json:"-" bson:"password"` // Stored hash, never rendered
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Role      string    `json:"role" bson:"role"`
	Status    string    `json:"status" bson:"status"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u *User) IsBlocked() bool { return u.Status == StatusBlocked }

// SearchText returns the fields matched by a list search.
func (u User) SearchText() []string {
	return []string{u.Name, u.Email, u.Login}
}

// SortKey returns the string form of a field used for ordering; unknown fields sort as "".
func (u User) SortKey(field string) string {
	switch field {
	case "id":
		return u.ID
	case "login":
		return u.Login
	case "name":
		return u.Name
	case "email":
		return u.Email
	case "role":
		return u.Role
	case "status":
		return u.Status
	case "createdAt":
		return timeKey(u.CreatedAt)
	case "updatedAt":
		return timeKey(u.UpdatedAt)
	}
	return ""
}

// RegisterRequest is the body of a registration call
type RegisterRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// LoginRequest is the body of a login call
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest carries a partial user update. Nil fields are left untouched.
type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Role   *string `json:"role,omitempty" binding:"omitempty,oneof=admin user"`
	Status *string `json:"status,omitempty" binding:"omitempty,oneof=active blocked"`
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

func ValidStatus(status string) bool {
	return status == StatusActive || status == StatusBlocked
}

// timeKey renders t in fixed-width UTC so that string order equals time order.
func timeKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z")
}
