package enums

type UserRole string

const (
	UserRoleOwner UserRole = "owner"
	UserRoleKasir UserRole = "kasir"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleOwner, UserRoleKasir:
		return true
	}
	return false
}
