package domain

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	ShopName  string    `json:"shopName"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfilePatch carries the display fields a user may change about themselves.
// Email and role are immutable through the profile endpoint.
type ProfilePatch struct {
	Name     *string
	Phone    *string
	Address  *string
	ShopName *string
}
