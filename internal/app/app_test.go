package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/plantel/internal/club"
	"github.com/five82/plantel/internal/confirm"
	"github.com/five82/plantel/internal/notify"
)

const testToken = "opaque-test-token"

// clubServer serves every resource from fixed JSON bodies.
type clubServer struct {
	mu      sync.Mutex
	bodies  map[string]string
	status  int
	deletes []string
	hits    atomic.Int32
}

func (s *clubServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.hits.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != 0 {
		http.Error(w, `{"error":"nope"}`, s.status)
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+testToken {
		http.Error(w, `{"error":"missing token"}`, http.StatusUnauthorized)
		return
	}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "api" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		body, ok := s.bodies[parts[1]]
		if !ok {
			body = "[]"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	case http.MethodDelete:
		s.deletes = append(s.deletes, strings.Join(parts[1:], "/"))
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *clubServer) deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deletes...)
}

func writeConfig(t *testing.T, apiURL string, extra string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := fmt.Sprintf("api_url = %q\ntoken_db = %q\nlog_file = %q\nrequests_per_second = 0.0\n%s",
		apiURL,
		filepath.Join(dir, "session.db"),
		filepath.Join(dir, "logs", "plantel.log"),
		extra,
	)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path, dir
}

func setupEnv(t *testing.T, srv *httptest.Server, extra string) (*Env, string) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path, dir := writeConfig(t, srv.URL, extra)
	env, err := Setup(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env, dir
}

func TestSetupWiresConfig(t *testing.T) {
	srv := httptest.NewServer(&clubServer{})
	defer srv.Close()

	env, dir := setupEnv(t, srv, "confirm_mode = \"dialog\"\nlog_level = \"debug\"\n")

	assert.Equal(t, srv.URL, env.Client.BaseURL())
	assert.Equal(t, confirm.ModeDialog, env.Config.ConfirmMode)
	assert.Equal(t, slog.LevelDebug, env.Config.LogLevel)
	assert.FileExists(t, filepath.Join(dir, "logs", "plantel.log"))
	assert.False(t, env.Session.LoggedIn(context.Background()))
}

func TestSetupRejectsBadConfig(t *testing.T) {
	path, _ := writeConfig(t, "http://127.0.0.1:1", "confirm_mode = \"shout\"\n")
	_, err := Setup(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestSessionSurvivesRestart(t *testing.T) {
	srv := httptest.NewServer(&clubServer{})
	defer srv.Close()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path, _ := writeConfig(t, srv.URL, "")
	ctx := context.Background()

	env, err := Setup(path)
	require.NoError(t, err)
	require.NoError(t, env.Session.Login(ctx, "Bearer "+testToken))
	require.NoError(t, env.Close())

	env, err = Setup(path)
	require.NoError(t, err)
	defer env.Close()
	token, err := env.Session.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
}

func TestLoadAllPopulatesStores(t *testing.T) {
	api := &clubServer{bodies: map[string]string{
		club.ResourceInventory: `[{"id":1,"nome":"Bola","quantidade":"10"},{"id":2,"nome":"Cone","quantidade":4}]`,
		club.ResourceStaff:     `[{"id":"f1","nome":"Ana","cargo":"Técnica"}]`,
		club.ResourceAnalyses:  `[{"id":9,"atleta_id":3,"titulo":"Sprint","criado_em":"2026-03-01T10:00:00Z"}]`,
	}}
	srv := httptest.NewServer(api)
	defer srv.Close()

	env, _ := setupEnv(t, srv, "")
	ctx := context.Background()
	require.NoError(t, env.Session.Login(ctx, testToken))

	var changes atomic.Int32
	stores := env.NewStores(StoreOptions{Context: ctx, OnChange: func() { changes.Add(1) }})
	defer stores.Close()

	require.NoError(t, stores.LoadAll(ctx))

	assert.Equal(t, 2, stores.Inventory.Len())
	assert.Equal(t, 0, stores.Athletes.Len())
	assert.Equal(t, 1, stores.Staff.Len())
	assert.Equal(t, 1, stores.Analyses.Len())
	assert.True(t, stores.Athletes.Loaded())

	item, ok := stores.Inventory.Get("1")
	require.True(t, ok)
	assert.Equal(t, club.Quantity(10), item.Fields.Quantidade)
	assert.GreaterOrEqual(t, changes.Load(), int32(4))
}

func TestLoadAllAuthFailureInvalidatesSession(t *testing.T) {
	api := &clubServer{status: http.StatusUnauthorized}
	srv := httptest.NewServer(api)
	defer srv.Close()

	env, _ := setupEnv(t, srv, "")
	ctx := context.Background()
	require.NoError(t, env.Session.Login(ctx, testToken))

	var expired atomic.Int32
	env.Session.OnExpired(func(error) { expired.Add(1) })

	stores := env.NewStores(StoreOptions{Context: ctx})
	defer stores.Close()

	err := stores.LoadAll(ctx)
	require.Error(t, err)
	assert.False(t, env.Session.LoggedIn(ctx))
	assert.GreaterOrEqual(t, expired.Load(), int32(1))
	assert.Equal(t, 0, stores.Inventory.Len())
}

func TestLoadAllWithoutTokenSkipsNetwork(t *testing.T) {
	api := &clubServer{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	env, _ := setupEnv(t, srv, "")
	stores := env.NewStores(StoreOptions{})
	defer stores.Close()

	require.Error(t, stores.LoadAll(context.Background()))
	assert.Zero(t, api.hits.Load())
}

func TestTabsFollowResourceOrder(t *testing.T) {
	srv := httptest.NewServer(&clubServer{})
	defer srv.Close()

	env, _ := setupEnv(t, srv, "")
	stores := env.NewStores(StoreOptions{})
	defer stores.Close()

	tabs, err := env.Tabs(stores, notify.Discard, nil)
	require.NoError(t, err)
	require.Len(t, tabs, len(club.Resources))
	for i, name := range club.Resources {
		assert.Equal(t, name, tabs[i].Name())
	}
	assert.False(t, tabs[3].Creatable())
}

func TestTabsDialogModeNeedsPrompter(t *testing.T) {
	srv := httptest.NewServer(&clubServer{})
	defer srv.Close()

	env, _ := setupEnv(t, srv, "confirm_mode = \"dialog\"\n")
	stores := env.NewStores(StoreOptions{})
	defer stores.Close()

	_, err := env.Tabs(stores, notify.Discard, nil)
	require.Error(t, err)
}

func TestDialogTabDeletesAfterConfirmation(t *testing.T) {
	api := &clubServer{bodies: map[string]string{
		club.ResourceAthletes: `[{"id":7,"nome":"Rafa","data_nascimento":"2008-04-02"}]`,
	}}
	srv := httptest.NewServer(api)
	defer srv.Close()

	env, _ := setupEnv(t, srv, "confirm_mode = \"dialog\"\n")
	ctx := context.Background()
	require.NoError(t, env.Session.Login(ctx, testToken))

	stores := env.NewStores(StoreOptions{Context: ctx})
	defer stores.Close()
	require.NoError(t, stores.LoadAll(ctx))

	var asked atomic.Int32
	prompter := confirm.PrompterFunc(func(string) bool {
		asked.Add(1)
		return true
	})
	tabs, err := env.Tabs(stores, notify.Discard, prompter)
	require.NoError(t, err)

	tabs[1].RequestDelete("7")
	require.Eventually(t, func() bool {
		return len(api.deleted()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	stores.Wait()

	assert.Equal(t, []string{club.ResourceAthletes + "/7"}, api.deleted())
	assert.Equal(t, int32(1), asked.Load())
	assert.Equal(t, 0, stores.Athletes.Len())
}
