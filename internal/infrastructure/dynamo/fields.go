package dynamo

// DynamoDB attribute and index names shared by the repos and Bootstrap.
const (
	fieldUserID    = "user_id"
	fieldEmail     = "email"
	fieldToken     = "token"
	fieldCodeKey   = "code_key"
	fieldExpiresAt = "expires_at"
	fieldUpdatedAt = "updated_at"

	indexUserID = "user_id-index"
)
