// internal/domain/user/entity.go
package user

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Address struct {
	Street    string `json:"street,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zip_code,omitempty"`
	Country   string `json:"country,omitempty"`
	IsDefault bool   `json:"is_default,omitempty"`
}

// IsZero reports whether no field of the address is set.
func (a Address) IsZero() bool {
	return a == Address{}
}

type User struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	Addresses []Address `json:"addresses" db:"addresses"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ShippingAddress picks the address an order ships to: the one flagged as
// default, else the first on file, else an empty address.
func (u *User) ShippingAddress() Address {
	for _, a := range u.Addresses {
		if a.IsDefault {
			return a
		}
	}
	if len(u.Addresses) > 0 {
		return u.Addresses[0]
	}
	return Address{}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
