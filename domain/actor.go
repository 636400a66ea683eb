package domain

type Role string

const (
	RoleGuest  Role = "guest"
	RoleAgency Role = "agency"
	RoleHotel  Role = "hotel"
)

// Actor identifies who is performing a transition. It is always passed in
// explicitly; the engine never reads an ambient "current profile".
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

func (a Actor) IsRequester() bool {
	return a.Role == RoleGuest || a.Role == RoleAgency
}

func (a Actor) IsOfferer() bool {
	return a.Role == RoleHotel || a.Role == RoleAgency
}
