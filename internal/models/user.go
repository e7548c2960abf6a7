// Package models contains data structures for the application's domain models.
package models

// User is the author a post is attributed to. Users are created by the seeder or an
// administrative process; no endpoint creates them.
type User struct {
	ID        uint   `gorm:"primaryKey" json:"id" validate:"required"`
	Name      string `gorm:"not null;default:''" json:"name"`
	Email     string `gorm:"not null;default:''" json:"email"`
	Expertise string `gorm:"not null;default:''" json:"expertise"`
}

// TableName pins the users table name.
func (User) TableName() string {
	return "users"
}
