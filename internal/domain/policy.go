package domain

// IsDirectManager reports whether actor is the assigned manager of subject.
// Transitive reports do not count.
func IsDirectManager(actor, subject *User) bool {
	if actor == nil || subject == nil || subject.ManagerID == nil {
		return false
	}
	return *subject.ManagerID == actor.UserID
}

// CanManage reports whether actor may act on subject's records:
// HR or Admin, or the subject's direct manager.
func CanManage(actor, subject *User) bool {
	return HasAnyRole(actor, RoleHR, RoleAdmin) || IsDirectManager(actor, subject)
}
