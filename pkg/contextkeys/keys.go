package contextkeys

type contextKey string

const (
	SubjectKey contextKey = "Subject"
	RoleKey    contextKey = "Role"
)
