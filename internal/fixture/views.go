package fixture

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"practice-api-tester/internal/errs"
	"practice-api-tester/internal/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// PostCreateData is the posts.create scenario
type PostCreateData struct {
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body" validate:"required"`
	UserID int    `json:"userId" validate:"min=1"`
}

// PostUpdateData is the posts.update scenario
type PostUpdateData struct {
	ID     int    `json:"id" validate:"min=1"`
	Title  string `json:"title" validate:"required"`
	Body   string `json:"body" validate:"required"`
	UserID int    `json:"userId" validate:"min=1"`
}

// PostPatchData is the posts.patch scenario
type PostPatchData struct {
	ID    int    `json:"id" validate:"min=1"`
	Title string `json:"title" validate:"required"`
}

// UserCreateData is the users.create scenario
type UserCreateData struct {
	Name string `json:"name" validate:"required"`
	Job  string `json:"job" validate:"required"`
}

// UserUpdateData is the users.update scenario
type UserUpdateData struct {
	ID   int    `json:"id" validate:"min=1"`
	Name string `json:"name" validate:"required"`
	Job  string `json:"job" validate:"required"`
}

// PostCreate returns the typed posts.create dataset
func (d *Document) PostCreate() (PostCreateData, error) {
	var out PostCreateData
	r, err := d.reader(types.Posts, types.Create)
	if err != nil {
		return out, err
	}
	out.Title = r.text(types.FieldTitle)
	out.Body = r.text(types.FieldBody)
	out.UserID = r.number(types.FieldUserID)
	return out, r.finish(&out)
}

// PostUpdate returns the typed posts.update dataset
func (d *Document) PostUpdate() (PostUpdateData, error) {
	var out PostUpdateData
	r, err := d.reader(types.Posts, types.Update)
	if err != nil {
		return out, err
	}
	out.ID = r.number(types.FieldID)
	out.Title = r.text(types.FieldTitle)
	out.Body = r.text(types.FieldBody)
	out.UserID = r.number(types.FieldUserID)
	return out, r.finish(&out)
}

// PostPatch returns the typed posts.patch dataset
func (d *Document) PostPatch() (PostPatchData, error) {
	var out PostPatchData
	r, err := d.reader(types.Posts, types.Patch)
	if err != nil {
		return out, err
	}
	out.ID = r.number(types.FieldID)
	out.Title = r.text(types.FieldTitle)
	return out, r.finish(&out)
}

// UserCreate returns the typed users.create dataset
func (d *Document) UserCreate() (UserCreateData, error) {
	var out UserCreateData
	r, err := d.reader(types.Users, types.Create)
	if err != nil {
		return out, err
	}
	out.Name = r.text(types.FieldName)
	out.Job = r.text(types.FieldJob)
	return out, r.finish(&out)
}

// UserUpdate returns the typed users.update dataset
func (d *Document) UserUpdate() (UserUpdateData, error) {
	var out UserUpdateData
	r, err := d.reader(types.Users, types.Update)
	if err != nil {
		return out, err
	}
	out.ID = r.number(types.FieldID)
	out.Name = r.text(types.FieldName)
	out.Job = r.text(types.FieldJob)
	return out, r.finish(&out)
}

// fieldReader coerces loosely-typed scalars and keeps the first failure
type fieldReader struct {
	scope  string
	fields map[string]interface{}
	err    error
}

func (d *Document) reader(res types.Resource, op types.Operation) (*fieldReader, error) {
	fields, err := d.Scenario(res, op)
	if err != nil {
		return nil, err
	}
	return &fieldReader{scope: types.ScenarioPath(res, op), fields: fields}, nil
}

func (r *fieldReader) text(field string) string {
	v, ok := r.fields[field]
	if !ok || v == nil {
		return ""
	}
	return scalarString(v)
}

// number reports an absent field itself, since the zero value it leaves
// behind is indistinguishable from a configured 0
func (r *fieldReader) number(field string) int {
	v, ok := r.fields[field]
	if !ok || v == nil {
		if r.err == nil {
			r.err = errs.MissingField(r.scope, field)
		}
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(scalarString(v)))
	if err != nil && r.err == nil {
		r.err = errs.MalformedField(r.scope, field, err)
	}
	return n
}

// finish reports the first missing or malformed field, then the first value
// the view's validate tags reject
func (r *fieldReader) finish(view interface{}) error {
	if r.err != nil {
		return r.err
	}
	if err := validate.Struct(view); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Tag() == "required" {
				return errs.MissingField(r.scope, fe.Field())
			}
			return &errs.UsageError{Scope: r.scope, Field: fe.Field(), Message: "must be at least " + fe.Param()}
		}
		return &errs.UsageError{Scope: r.scope, Message: "invalid scenario", Cause: err}
	}
	return nil
}

func scalarString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}
