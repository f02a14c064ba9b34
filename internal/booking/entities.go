package booking

import (
	"time"

	"github.com/google/uuid"
)

type Pitch struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OwnerID   uuid.UUID `db:"owner_id" json:"ownerId"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	City      string    `db:"city" json:"city"`
	Price     float64   `db:"price" json:"price"`
	ImageURL  *string   `db:"image_url" json:"imageUrl,omitempty"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type MemberRole string

const (
	RoleOwner  MemberRole = "OWNER"
	RoleMember MemberRole = "MEMBER"
)

// Member is a value owned by its Team; it has no identity of its own.
type Member struct {
	UserID    uuid.UUID  `db:"user_id" json:"userId"`
	FirstName string     `db:"first_name" json:"firstName"`
	LastName  string     `db:"last_name" json:"lastName"`
	Role      MemberRole `db:"role" json:"role"`
	JoinedAt  time.Time  `db:"joined_at" json:"joinedAt"`
}

type Team struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	City      string    `db:"city" json:"city"`
	LogoURL   *string   `db:"logo_url" json:"logoUrl,omitempty"`
	OwnerID   uuid.UUID `db:"owner_id" json:"ownerId"`
	TeamCode  string    `db:"team_code" json:"teamCode"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Members []Member `db:"-" json:"members"`
}

func (t *Team) IsOwner(userID uuid.UUID) bool {
	if t.OwnerID == userID {
		return true
	}
	for _, m := range t.Members {
		if m.UserID == userID && m.Role == RoleOwner {
			return true
		}
	}
	return false
}

func (t *Team) HasMember(userID uuid.UUID) bool {
	for _, m := range t.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// Involves reports whether the user owns or plays for the team.
func (t *Team) Involves(userID uuid.UUID) bool {
	return t.OwnerID == userID || t.HasMember(userID)
}

type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	FirstName    string     `db:"first_name" json:"firstName"`
	LastName     string     `db:"last_name" json:"lastName"`
	Email        string     `db:"email" json:"email"`
	PlayerCode   string     `db:"player_code" json:"playerCode"`
	ActiveTeamID *uuid.UUID `db:"active_team_id" json:"activeTeamId,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`

	// Mirrors the team_members rows for this user.
	TeamIDs []uuid.UUID `db:"-" json:"teamIds"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
