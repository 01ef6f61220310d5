// Package payload assembles request bodies. Every function returns a fresh map.
package payload

import "practice-api-tester/internal/types"

// PostCreate builds the body for creating a post
func PostCreate(title, body string, userID int) types.Payload {
	return types.Payload{
		types.FieldTitle:  title,
		types.FieldBody:   body,
		types.FieldUserID: userID,
	}
}

// PostUpdate builds a full-replacement post body: PostCreate plus the id
func PostUpdate(id int, title, body string, userID int) types.Payload {
	p := PostCreate(title, body, userID)
	p[types.FieldID] = id
	return p
}

// PostPatch builds a partial post body carrying only the title
func PostPatch(title string) types.Payload {
	return types.Payload{types.FieldTitle: title}
}

// UserCreate builds the body for creating a user
func UserCreate(name, job string) types.Payload {
	return types.Payload{
		types.FieldName: name,
		types.FieldJob:  job,
	}
}

// UserUpdate builds a full-replacement user body: UserCreate plus the id
func UserUpdate(id int, name, job string) types.Payload {
	p := UserCreate(name, job)
	p[types.FieldID] = id
	return p
}

// Create copies fields into a new create body. The resource is accepted for
// symmetry with Update and does not change the result.
func Create(_ types.Resource, fields map[string]interface{}) types.Payload {
	return copyFields(fields, len(fields))
}

// Update copies fields into a new body and sets the id
func Update(_ types.Resource, id interface{}, fields map[string]interface{}) types.Payload {
	p := copyFields(fields, len(fields)+1)
	p[types.FieldID] = id
	return p
}

// Patch copies only the changed fields into a new body
func Patch(changed map[string]interface{}) types.Payload {
	return copyFields(changed, len(changed))
}

func copyFields(fields map[string]interface{}, size int) types.Payload {
	p := make(types.Payload, size)
	for k, v := range fields {
		p[k] = v
	}
	return p
}
