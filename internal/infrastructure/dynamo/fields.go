package dynamo

// Attribute names shared by update and key-condition expressions.
const (
	fieldUserID           = "user_id"
	fieldEnable           = "enable"
	fieldRole             = "role"
	fieldManagerID        = "manager_id"
	fieldUpdatedAt        = "updated_at"
	fieldRead             = "read"
	fieldRefreshToken     = "refresh_token"
	fieldRefreshExpiresAt = "refresh_expires_at"
	fieldStatus           = "status"
	fieldVersion          = "version"
)

// Index names; Bootstrap creates them.
const (
	indexUsersEmail         = "email-index"
	indexUsersRole          = "role-index"
	indexUsersManager       = "manager_id-index"
	indexSessionsUser       = "user_id-index"
	indexSessionsRefresh    = "refresh_token-index"
	indexLeavesRequester    = "requester_id-requested_at-index"
	indexLeavesManager      = "manager_id-requested_at-index"
	indexLeavesStatus       = "status-manager_approved_at-index"
	indexNotificationsInbox = "user_id-created_at-index"
)
