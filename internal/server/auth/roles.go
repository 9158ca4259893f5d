package auth

// Role is an account role. The hierarchy is admin > user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var roleRank = map[Role]int{
	RoleUser:  1,
	RoleAdmin: 2,
}

func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// Satisfies reports whether r meets the required role: admin satisfies
// every requirement, user only user-level ones.
func (r Role) Satisfies(required Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	need, ok := roleRank[required]
	if !ok {
		return false
	}
	return have >= need
}

// CanAct is the ownership policy for articles, comments and accounts:
// admins may act on anything, everyone else only on what they own.
func CanAct(requesterUsername string, requesterRole Role, ownerUsername string) bool {
	if requesterRole == RoleAdmin {
		return true
	}
	return requesterUsername != "" && requesterUsername == ownerUsername
}
