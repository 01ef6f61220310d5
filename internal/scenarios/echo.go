package scenarios

import (
	"net/http"
	"net/url"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice-api-tester/internal/endpoint"
	"practice-api-tester/internal/harness"
)

func echoSuite(env *Env) Suite {
	return Suite{Name: SuiteEcho, Run: func(t *harness.T) {
		t.Require(harness.When(env.Config.HasProfile(endpoint.EchoProfile), "echo profile "+endpoint.EchoProfile+" is not configured"))

		echo, err := endpoint.NewEcho(env.Config, env.Transport)
		require.NoError(t, err, "building echo client")
		base, err := url.Parse(echo.BaseURL())
		require.NoError(t, err)

		t.Run("get echoes request", func(t *harness.T) {
			resp := env.call(t, endpoint.EchoProfile, echo.Get)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Path("url").StringValue(), base.Host+"/get")
			assert.Equal(t, base.Host, resp.Path("headers.Host").StringValue())
		})
	}}
}
