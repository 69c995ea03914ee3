package models

// Role identifies which side of the marketplace a user is on.
const (
	RoleCustomer = "customer"
	RoleBarber   = "barber"
)

// Identity is the resolved caller passed into services by the HTTP layer.
// Resolution from bearer credential to identity happens in middleware.
type Identity struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func (id Identity) IsBarber() bool {
	return id.Role == RoleBarber
}
