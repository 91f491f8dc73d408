package client

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellarboulter/MiniGit/api"
	"github.com/bellarboulter/MiniGit/config"
)

func newClientAgainstTestServer(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.DefaultConfig()
	server := api.NewServer(cfg)
	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)

	c, err := NewClient(ts.URL)
	require.NoError(t, err)
	return c
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)

	c, err := NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}

func TestClientRoundTrip(t *testing.T) {
	c := newClientAgainstTestServer(t)
	ctx := context.Background()

	repo, err := c.CreateRepo(ctx, "repo1")
	require.NoError(t, err)
	assert.Equal(t, "repo1", repo.Name)

	id1, err := c.Commit(ctx, "repo1", "Initial commit.")
	require.NoError(t, err)
	id2, err := c.Commit(ctx, "repo1", "Updated docs.")
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	history, err := c.History(ctx, "repo1", 5)
	require.NoError(t, err)
	lines := strings.Split(history, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Updated docs.")

	found, err := c.Contains(ctx, "repo1", id1)
	require.NoError(t, err)
	assert.True(t, found)

	dropped, err := c.Drop(ctx, "repo1", id1)
	require.NoError(t, err)
	assert.True(t, dropped)

	found, err = c.Contains(ctx, "repo1", id1)
	require.NoError(t, err)
	assert.False(t, found)

	dropped, err = c.Drop(ctx, "repo1", id1)
	require.NoError(t, err)
	assert.False(t, dropped)
}

func TestClientSynchronize(t *testing.T) {
	c := newClientAgainstTestServer(t)
	ctx := context.Background()

	_, err := c.CreateRepo(ctx, "target")
	require.NoError(t, err)
	_, err = c.CreateRepo(ctx, "source")
	require.NoError(t, err)
	_, err = c.Commit(ctx, "source", "Commit in source")
	require.NoError(t, err)

	resp, err := c.Synchronize(ctx, "target", "source")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Size)

	source, err := c.GetRepo(ctx, "source")
	require.NoError(t, err)
	assert.Equal(t, 0, source.Size)
}

func TestClientErrors(t *testing.T) {
	c := newClientAgainstTestServer(t)
	ctx := context.Background()

	_, err := c.GetRepo(ctx, "ghost")
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Equal(t, "REPO_NOT_FOUND", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "REPO_NOT_FOUND")

	_, err = c.Commit(ctx, "ghost", "message")
	assert.Error(t, err)
}

func TestClientListAndDelete(t *testing.T) {
	c := newClientAgainstTestServer(t)
	ctx := context.Background()

	_, err := c.CreateRepo(ctx, "repo1")
	require.NoError(t, err)

	names, err := c.ListRepos(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"repo1"}, names)

	require.NoError(t, c.DeleteRepo(ctx, "repo1"))

	names, err = c.ListRepos(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestClientHealth(t *testing.T) {
	c := newClientAgainstTestServer(t)

	resp, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
}
