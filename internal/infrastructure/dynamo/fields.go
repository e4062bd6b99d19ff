package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEnable    = "enable"
	fieldStatus    = "status"
	fieldUpdatedAt = "updated_at"
	fieldIsVoted   = "is_voted"
	fieldVotes     = "votes"
)
