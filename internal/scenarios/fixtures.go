package scenarios

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-api-tester/internal/harness"
)

// fixturesSuite checks the fixture document before any request uses it
func fixturesSuite(env *Env) Suite {
	return Suite{Name: SuiteFixtures, Run: func(t *harness.T) {
		t.Run("posts create has required fields", func(t *harness.T) {
			_, err := env.Fixtures.PostCreate()
			require.NoError(t, err)
		})

		t.Run("posts update targets existing post", func(t *harness.T) {
			data, err := env.Fixtures.PostUpdate()
			require.NoError(t, err)
			assert.Equal(t, ExistingPostID, data.ID)
		})

		t.Run("posts patch targets existing post", func(t *harness.T) {
			data, err := env.Fixtures.PostPatch()
			require.NoError(t, err)
			assert.Equal(t, ExistingPostID, data.ID)
		})

		t.Run("users create has required fields", func(t *harness.T) {
			_, err := env.Fixtures.UserCreate()
			require.NoError(t, err)
		})

		t.Run("users update has required fields", func(t *harness.T) {
			_, err := env.Fixtures.UserUpdate()
			require.NoError(t, err)
		})
	}}
}
