package court

import "time"

type Court struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Location  string    `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateCourtRequest struct {
	Name     string `json:"name" binding:"required,max=64"`
	Location string `json:"location" binding:"max=255"`
}
