package domain

import userdomain "github.com/nmoiseev/org-admin-backend/internal/user/domain"

// Identity is the authenticated principal carried through token claims and
// request context: who, with what role, in which tenant. Immutable for the
// lifetime of a request.
type Identity struct {
	UserID    int64
	Role      string
	CompanyID int64
}

func IdentityFromUser(user userdomain.User) Identity {
	return Identity{
		UserID:    int64(user.ID),
		Role:      user.Role,
		CompanyID: user.CompanyID,
	}
}
