package domain

import (
	"time"

	userdomain "github.com/fitgoals/backend/internal/user/domain"
)

type ID string

// Goal is a user-owned fitness goal. StartDate and TargetDate are opaque
// strings; the system never parses them as calendar values.
type Goal struct {
	ID          ID            `json:"id"`
	UserID      userdomain.ID `json:"userId"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	StartDate   string        `json:"startDate"`
	TargetDate  string        `json:"targetDate"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
