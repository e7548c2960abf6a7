package models

// Post represents a blog post written by a single User.
type Post struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Title  string `gorm:"not null" json:"title" validate:"required"`
	Body   string `gorm:"type:text;not null" json:"body" validate:"required"`
	UserID uint   `gorm:"not null;index" json:"-"`
	User   *User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"user" validate:"required"`
	// Version is the optimistic concurrency token. It starts at 1 and is bumped on every update.
	Version uint `gorm:"not null;default:1" json:"version"`
}

// TableName pins the posts table name.
func (Post) TableName() string {
	return "posts"
}

// AttachUser replaces the embedded user with u and keeps the foreign key in sync.
func (p *Post) AttachUser(u *User) {
	p.User = u
	if u != nil {
		p.UserID = u.ID
	}
}

// ReferencedUserID returns the user id the post points at, preferring the nested object.
func (p *Post) ReferencedUserID() uint {
	if p.User != nil && p.User.ID != 0 {
		return p.User.ID
	}
	return p.UserID
}
