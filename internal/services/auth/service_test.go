package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelwehr/ppclog/internal/creds"
	"github.com/joelwehr/ppclog/internal/events"
	"github.com/joelwehr/ppclog/internal/models"
	"github.com/joelwehr/ppclog/internal/transport"
)

type staticAuthorizer struct {
	code string
	err  error
}

func (a *staticAuthorizer) Authorize(ctx context.Context) (string, error) {
	return a.code, a.err
}

type recordingRunner struct {
	started int
	stopped int
}

func (r *recordingRunner) Start() { r.started++ }
func (r *recordingRunner) Stop()  { r.stopped++ }

func testLogger() *events.Logger {
	return events.NewTestLogger(events.ErrorLevel, "text", io.Discard)
}

func newTestService(mock *transport.MockClient) (*Service, *creds.Mock, *recordingRunner) {
	credStore := creds.NewMock()
	runner := &recordingRunner{}
	svc := NewService(mock, credStore, &staticAuthorizer{code: "auth-code"}, testLogger())
	svc.SetRunner(runner)
	return svc, credStore, runner
}

func TestSignInExchangesCodeAndStartsRunner(t *testing.T) {
	mock := transport.NewMockClient()
	mock.AddPostResponse(pathGoogleAuth, map[string]interface{}{
		"access":  "access-1",
		"refresh": "refresh-1",
	})

	svc, credStore, runner := newTestService(mock)
	require.NoError(t, svc.SignIn(context.Background()))

	assert.Equal(t, "access-1", mock.Token())
	assert.True(t, svc.IsAuthenticated())
	assert.Equal(t, 1, runner.started)

	access, _ := credStore.Get(models.KeyAccessToken)
	refresh, _ := credStore.Get(models.KeyRefreshToken)
	assert.Equal(t, "access-1", access)
	assert.Equal(t, "refresh-1", refresh)

	posts := mock.RequestsFor("POST", pathGoogleAuth)
	require.Len(t, posts, 1)
	payload := posts[0].Payload.(map[string]interface{})
	assert.Equal(t, "auth-code", payload["access_token"])
}

func TestSignInExchangeFailure(t *testing.T) {
	mock := transport.NewMockClient()
	mock.AddError(pathGoogleAuth, &models.APIError{StatusCode: 400, Message: "bad code"})

	svc, credStore, runner := newTestService(mock)
	require.Error(t, svc.SignIn(context.Background()))

	assert.False(t, svc.IsAuthenticated())
	assert.Zero(t, runner.started)
	access, _ := credStore.Get(models.KeyAccessToken)
	assert.Empty(t, access)
}

func TestSignOutClearsSessionAndStopsRunner(t *testing.T) {
	mock := transport.NewMockClient()
	mock.AddPostResponse(pathGoogleAuth, map[string]interface{}{
		"access": "access-1", "refresh": "refresh-1",
	})

	svc, credStore, runner := newTestService(mock)
	require.NoError(t, svc.SignIn(context.Background()))
	require.NoError(t, svc.SignOut())

	assert.Empty(t, mock.Token())
	assert.False(t, svc.IsAuthenticated())
	assert.Equal(t, 1, runner.stopped)

	access, _ := credStore.Get(models.KeyAccessToken)
	refresh, _ := credStore.Get(models.KeyRefreshToken)
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestTryRestoreSessionNoStoredTokens(t *testing.T) {
	mock := transport.NewMockClient()
	svc, _, runner := newTestService(mock)

	restored, err := svc.TryRestoreSession(context.Background())
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Zero(t, runner.started)
	assert.Empty(t, mock.Requests, "no probe without stored tokens")
}

func TestTryRestoreSessionValidToken(t *testing.T) {
	mock := transport.NewMockClient()
	mock.AddGetResponse(pathDashboard, map[string]interface{}{})

	svc, credStore, runner := newTestService(mock)
	require.NoError(t, credStore.Set(models.KeyAccessToken, "stored-access"))

	restored, err := svc.TryRestoreSession(context.Background())
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, "stored-access", mock.Token())
	assert.Equal(t, 1, runner.started)
}

func TestTryRestoreSessionRefreshesExpiredToken(t *testing.T) {
	mock := transport.NewMockClient()
	mock.AddError(pathDashboard, &models.APIError{StatusCode: 401, Message: "expired"})
	mock.AddPostResponse(pathTokenRefresh, map[string]interface{}{
		"access": "access-2",
	})

	svc, credStore, runner := newTestService(mock)
	require.NoError(t, credStore.Set(models.KeyAccessToken, "stale"))
	require.NoError(t, credStore.Set(models.KeyRefreshToken, "refresh-1"))

	restored, err := svc.TryRestoreSession(context.Background())
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, "access-2", mock.Token())
	assert.Equal(t, 1, runner.started)

	// Refresh token not rotated by the server: the old one stays.
	refresh, _ := credStore.Get(models.KeyRefreshToken)
	assert.Equal(t, "refresh-1", refresh)
}

func TestTryRestoreSessionRefreshRejected(t *testing.T) {
	mock := transport.NewMockClient()
	mock.AddError(pathDashboard, &models.APIError{StatusCode: 401, Message: "expired"})
	mock.AddError(pathTokenRefresh, &models.APIError{StatusCode: 401, Message: "invalid"})

	svc, credStore, runner := newTestService(mock)
	require.NoError(t, credStore.Set(models.KeyAccessToken, "stale"))
	require.NoError(t, credStore.Set(models.KeyRefreshToken, "dead"))

	restored, err := svc.TryRestoreSession(context.Background())
	require.NoError(t, err)
	assert.False(t, restored)
	assert.Zero(t, runner.started)

	access, _ := credStore.Get(models.KeyAccessToken)
	assert.Empty(t, access, "invalid session is cleared")
	assert.Empty(t, mock.Token())
}

func TestTryRestoreSessionProbeUnreachable(t *testing.T) {
	mock := transport.NewMockClient()
	mock.AddError(pathDashboard, errors.New("dial tcp: no route to host"))

	svc, credStore, runner := newTestService(mock)
	require.NoError(t, credStore.Set(models.KeyAccessToken, "stored-access"))

	restored, err := svc.TryRestoreSession(context.Background())
	require.NoError(t, err)
	assert.False(t, restored, "an unvalidated session is not restored")
	assert.Zero(t, runner.started)
	assert.Empty(t, mock.Token())

	// Stored tokens survive so the next attempt can succeed.
	access, _ := credStore.Get(models.KeyAccessToken)
	assert.Equal(t, "stored-access", access)

	mock.ClearError(pathDashboard)
	mock.AddGetResponse(pathDashboard, map[string]interface{}{})
	restored, err = svc.TryRestoreSession(context.Background())
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, 1, runner.started)
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	mock := transport.NewMockClient()
	svc, credStore, _ := newTestService(mock)
	require.NoError(t, credStore.Set(models.KeyAccessToken, "stale"))
	mock.SetToken("stale")

	err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, models.ErrRefreshFailed)
	assert.Empty(t, mock.Token())
}

func TestRefreshTransportErrorKeepsSession(t *testing.T) {
	mock := transport.NewMockClient()
	mock.AddError(pathTokenRefresh, errors.New("dial tcp: network unreachable"))

	svc, credStore, _ := newTestService(mock)
	require.NoError(t, credStore.Set(models.KeyAccessToken, "access-1"))
	require.NoError(t, credStore.Set(models.KeyRefreshToken, "refresh-1"))
	mock.SetToken("access-1")

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrRefreshFailed,
		"a transport failure is not a rejection")

	// Nothing is cleared: both stored tokens and the transport token
	// survive for the next attempt.
	access, _ := credStore.Get(models.KeyAccessToken)
	refresh, _ := credStore.Get(models.KeyRefreshToken)
	assert.Equal(t, "access-1", access)
	assert.Equal(t, "refresh-1", refresh)
	assert.Equal(t, "access-1", mock.Token())
}

func TestRefreshRejectionClearsSession(t *testing.T) {
	mock := transport.NewMockClient()
	mock.AddError(pathTokenRefresh, &models.APIError{StatusCode: 401, Message: "invalid"})

	svc, credStore, _ := newTestService(mock)
	require.NoError(t, credStore.Set(models.KeyAccessToken, "access-1"))
	require.NoError(t, credStore.Set(models.KeyRefreshToken, "dead"))
	mock.SetToken("access-1")

	err := svc.Refresh(context.Background())
	assert.ErrorIs(t, err, models.ErrRefreshFailed)

	access, _ := credStore.Get(models.KeyAccessToken)
	refresh, _ := credStore.Get(models.KeyRefreshToken)
	assert.Empty(t, access)
	assert.Empty(t, refresh)
	assert.Empty(t, mock.Token())
}

func TestRefreshRotatesTokens(t *testing.T) {
	mock := transport.NewMockClient()
	mock.AddPostResponse(pathTokenRefresh, map[string]interface{}{
		"access":  "access-2",
		"refresh": "refresh-2",
	})

	svc, credStore, _ := newTestService(mock)
	require.NoError(t, credStore.Set(models.KeyRefreshToken, "refresh-1"))

	require.NoError(t, svc.Refresh(context.Background()))
	assert.Equal(t, "access-2", mock.Token())

	refresh, _ := credStore.Get(models.KeyRefreshToken)
	assert.Equal(t, "refresh-2", refresh)

	posts := mock.RequestsFor("POST", pathTokenRefresh)
	require.Len(t, posts, 1)
	payload := posts[0].Payload.(map[string]interface{})
	assert.Equal(t, "refresh-1", payload["refresh"])
}
