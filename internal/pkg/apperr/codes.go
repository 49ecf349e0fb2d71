package apperr

// Entity model names used in domain codes and not-found reporting.
const (
	ModelUser           = "User"
	ModelBadge          = "Badge"
	ModelBadgeAssertion = "BadgeAssertion"
	ModelBadgeComment   = "BadgeComment"
)

// Numeric domain codes, grouped per model. The transport layer forwards the
// code alongside the human message so clients can branch without parsing text.
const (
	CodeUserNotExist = 1001

	CodeBadgeNotExist = 2001

	CodeBadgeAssertionNotExist     = 3001
	CodeBadgeAssertionNotPublished = 3002

	CodeBadgeCommentNotExist = 4001
)

var codeMessages = map[string]map[int]string{
	ModelUser: {
		CodeUserNotExist: "The user does not exist",
	},
	ModelBadge: {
		CodeBadgeNotExist: "The badge does not exist",
	},
	ModelBadgeAssertion: {
		CodeBadgeAssertionNotExist:     "The badge assertion does not exist",
		CodeBadgeAssertionNotPublished: "The badge assertion is not published",
	},
	ModelBadgeComment: {
		CodeBadgeCommentNotExist: "The badge comment does not exist",
	},
}

// CodeMessage resolves the human message for a (model, code) pair.
func CodeMessage(model string, code int) string {
	if m, ok := codeMessages[model]; ok {
		if msg, ok := m[code]; ok {
			return msg
		}
	}
	return "resource not found"
}
