package fixture

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-api-tester/internal/errs"
	"practice-api-tester/internal/types"
)

const sampleJSON = `{
  "posts": {
    "create": {"title": "foo", "body": "bar", "userId": "1"},
    "update": {"id": "1", "title": "foo updated", "body": "bar updated", "userId": "1"},
    "patch": {"id": "1", "title": "foo patch"}
  },
  "users": {
    "create": {"name": "morpheus", "job": "leader"},
    "update": {"id": 2, "name": "morpheus", "job": "zion resident"}
  }
}`

const sampleYAML = `
posts:
  create:
    title: foo
    body: bar
    userId: 1
users:
  create:
    name: morpheus
    job: leader
`

func mustParse(t *testing.T, data string, format Format) *Document {
	t.Helper()
	doc, err := Parse([]byte(data), format)
	require.NoError(t, err)
	return doc
}

func TestExtract(t *testing.T) {
	doc := mustParse(t, sampleJSON, FormatJSON)

	fields := doc.Extract("posts.patch")
	assert.Len(t, fields, 2)
	assert.Equal(t, "foo patch", fields["title"])

	assert.Empty(t, doc.Extract("posts.missing"))
	assert.Empty(t, doc.Extract("comments.create"))
	assert.Empty(t, doc.Extract("posts.create.title"))
}

func TestExtractReturnsCopy(t *testing.T) {
	doc := mustParse(t, sampleJSON, FormatJSON)
	fields := doc.CreateData(types.Posts)
	fields["title"] = "changed"
	assert.Equal(t, "foo", doc.CreateData(types.Posts)["title"])
}

func TestScenarioAccessors(t *testing.T) {
	doc := mustParse(t, sampleJSON, FormatJSON)
	assert.Len(t, doc.CreateData(types.Posts), 3)
	assert.Len(t, doc.UpdateData(types.Posts), 4)
	assert.Len(t, doc.PatchData(types.Posts), 2)
	assert.Empty(t, doc.PatchData(types.Users))

	_, err := doc.Scenario(types.Users, types.Patch)
	var usage *errs.UsageError
	require.True(t, errors.As(err, &usage))
	assert.Equal(t, "users.patch", usage.Scope)
}

func TestTypedViews(t *testing.T) {
	doc := mustParse(t, sampleJSON, FormatJSON)

	create, err := doc.PostCreate()
	require.NoError(t, err)
	assert.Equal(t, PostCreateData{Title: "foo", Body: "bar", UserID: 1}, create)

	update, err := doc.PostUpdate()
	require.NoError(t, err)
	assert.Equal(t, 1, update.ID)
	assert.Equal(t, "foo updated", update.Title)

	patch, err := doc.PostPatch()
	require.NoError(t, err)
	assert.Equal(t, PostPatchData{ID: 1, Title: "foo patch"}, patch)

	user, err := doc.UserCreate()
	require.NoError(t, err)
	assert.Equal(t, "leader", user.Job)

	userUpdate, err := doc.UserUpdate()
	require.NoError(t, err)
	assert.Equal(t, 2, userUpdate.ID)
}

func TestTypedViewFailures(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "missing scenario",
			doc:     `{"posts": {}}`,
			wantErr: "posts.update: scenario is not defined in the fixture document",
		},
		{
			name:    "missing field",
			doc:     `{"posts": {"update": {"title": "t", "body": "b", "userId": "1"}}}`,
			wantErr: "posts.update.id: required field is missing",
		},
		{
			name:    "malformed id",
			doc:     `{"posts": {"update": {"id": "one", "title": "t", "body": "b", "userId": "1"}}}`,
			wantErr: "posts.update.id: malformed value",
		},
		{
			name:    "zero id",
			doc:     `{"posts": {"update": {"id": "0", "title": "t", "body": "b", "userId": "1"}}}`,
			wantErr: "posts.update.id: must be at least 1",
		},
		{
			name:    "negative user id",
			doc:     `{"posts": {"update": {"id": 3, "title": "t", "body": "b", "userId": -4}}}`,
			wantErr: "posts.update.userId: must be at least 1",
		},
		{
			name:    "null id",
			doc:     `{"posts": {"update": {"id": null, "title": "t", "body": "b", "userId": "1"}}}`,
			wantErr: "posts.update.id: required field is missing",
		},
		{
			name:    "blank title",
			doc:     `{"posts": {"update": {"id": "1", "title": "", "body": "b", "userId": "1"}}}`,
			wantErr: "posts.update.title: required field is missing",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.doc, FormatJSON)
			_, err := doc.PostUpdate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, errs.ExitUsage, errs.ExitCode(err))
		})
	}
}

func TestYAMLDocument(t *testing.T) {
	doc := mustParse(t, sampleYAML, FormatYAML)
	create, err := doc.PostCreate()
	require.NoError(t, err)
	assert.Equal(t, 1, create.UserID)

	user, err := doc.UserCreate()
	require.NoError(t, err)
	assert.Equal(t, "morpheus", user.Name)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFor("data/tests-data.json"))
	assert.Equal(t, FormatYAML, FormatFor("data/tests-data.yaml"))
	assert.Equal(t, FormatYAML, FormatFor("data/TESTS.YML"))
}

func TestLoad(t *testing.T) {
	doc, err := Load(fstest.MapFS{ResourceName: {Data: []byte(sampleJSON)}})
	require.NoError(t, err)
	assert.Equal(t, ResourceName, doc.Origin())
	assert.ElementsMatch(t, []string{"posts", "users"}, doc.Resources())
}

func TestLoadFallsBackToYAML(t *testing.T) {
	chdirForTest(t, t.TempDir())

	doc, err := Load(fstest.MapFS{"data/tests-data.yml": {Data: []byte(sampleYAML)}})
	require.NoError(t, err)
	assert.Equal(t, "data/tests-data.yml", doc.Origin())
	create, err := doc.PostCreate()
	require.NoError(t, err)
	assert.Equal(t, "foo", create.Title)

	// JSON wins when both exist
	doc, err = Load(fstest.MapFS{
		ResourceName:           {Data: []byte(sampleJSON)},
		"data/tests-data.yaml": {Data: []byte(sampleYAML)},
	})
	require.NoError(t, err)
	assert.Equal(t, ResourceName, doc.Origin())

	// a broken YAML document is reported, not skipped
	_, err = Load(fstest.MapFS{"data/tests-data.yaml": {Data: []byte("posts: [unclosed")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data/tests-data.yaml")
	assert.NotErrorIs(t, err, errs.ErrNotFound)
}

func TestLoadErrors(t *testing.T) {
	chdirForTest(t, t.TempDir())

	_, err := Load(fstest.MapFS{})
	require.Error(t, err)
	assert.Equal(t, errs.ExitStartup, errs.ExitCode(err))
	assert.Contains(t, err.Error(), ResourceName)

	_, err = Load(fstest.MapFS{ResourceName: {Data: []byte("{not json")}})
	require.Error(t, err)
	assert.Equal(t, errs.ExitStartup, errs.ExitCode(err))
}
