package tip

import (
	"time"

	"github.com/google/uuid"
)

type Tip struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	Category   string    `json:"category" db:"category"`
	Author     string    `json:"author" db:"author"`
	AuthorName string    `json:"authorName" db:"author_name"`
	Upvotes    int       `json:"upvotes" db:"upvotes"`
	Views      int       `json:"views" db:"views"`
	Featured   bool      `json:"featured" db:"featured"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

type CreateTipRequest struct {
	Title      string `json:"title" validate:"required,max=120"`
	Content    string `json:"content" validate:"required"`
	Category   string `json:"category" validate:"required,oneof='Waste Management' Energy Water Transportation Food Other"`
	Author     string `json:"author" validate:"required,email"`
	AuthorName string `json:"authorName" validate:"required"`
	Featured   bool   `json:"featured,omitempty"`
}
