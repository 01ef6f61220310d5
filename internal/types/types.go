package types

// Resource names a remote entity type exposed by the API under test
type Resource string

const (
	Posts Resource = "posts"
	Users Resource = "users"
)

// Operation names a fixture scenario group within a resource
type Operation string

const (
	Create Operation = "create"
	Update Operation = "update"
	Patch  Operation = "patch"
)

// Field names shared by fixtures and payloads
const (
	FieldID     = "id"
	FieldTitle  = "title"
	FieldBody   = "body"
	FieldUserID = "userId"
	FieldName   = "name"
	FieldJob    = "job"
)

// ScenarioPath returns the dotted document path for a resource scenario, e.g. "posts.update"
func ScenarioPath(resource Resource, op Operation) string {
	return string(resource) + "." + string(op)
}

// Payload represents one outbound request body
type Payload map[string]interface{}
