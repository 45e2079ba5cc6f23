package server

import (
	"context"
	"ctchen222/Todo-List/internal/api/controller"
	"ctchen222/Todo-List/internal/api/repository"
	"ctchen222/Todo-List/internal/api/service"
	"ctchen222/Todo-List/internal/db"
	"ctchen222/Todo-List/internal/session"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	url   string
	tasks repository.TaskRepository
	users repository.UserRepository
}

func newHarness(t *testing.T, opts ...service.TaskOption) *harness {
	t.Helper()
	DB, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { DB.Close() })

	userRepo := repository.NewUserRepository(DB)
	taskRepo := repository.NewTaskRepository(DB)
	sessions := session.NewManager([]byte(strings.Repeat("s", 32)), time.Hour, session.NewMemoryBackend())
	userService := service.NewUserService(userRepo, sessions, service.NewBcryptHasher(bcrypt.MinCost))
	taskService := service.NewTaskService(taskRepo, opts...)

	cookies := session.CookieOptions{MaxAge: time.Hour}
	srv, err := NewServer(DB, userService, cookies,
		controller.NewUserController(userService, cookies),
		controller.NewTaskController(taskService, cookies))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Engine())
	t.Cleanup(ts.Close)
	return &harness{url: ts.URL, tasks: taskRepo, users: userRepo}
}

// client does not follow redirects so tests can assert on them.
func (h *harness) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, c *http.Client, u string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func post(t *testing.T, c *http.Client, u string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(u, form)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func assertRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, location, resp.Header.Get("Location"))
}

func (h *harness) signUpAndLogIn(t *testing.T, login string) *http.Client {
	t.Helper()
	c := h.client(t)
	creds := url.Values{"login": {login}, "password": {"pw-" + login}}
	assertRedirect(t, post(t, c, h.url+"/register", creds), "/login")
	assertRedirect(t, post(t, c, h.url+"/login", creds), "/")
	return c
}

func (h *harness) taskIDs(t *testing.T, login string) []int64 {
	t.Helper()
	u, err := h.users.GetUserByLogin(context.Background(), login)
	require.NoError(t, err)
	require.NotNil(t, u)
	list, err := h.tasks.ListByOwner(context.Background(), u.ID)
	require.NoError(t, err)
	ids := make([]int64, 0, len(list))
	for _, task := range list {
		ids = append(ids, task.ID)
	}
	return ids
}

func TestUnauthenticatedRequestsRedirectToLogin(t *testing.T) {
	h := newHarness(t)
	c := h.client(t)

	for _, path := range []string{"/", "/task/1/toggle", "/task/1/delete", "/logout"} {
		t.Run(path, func(t *testing.T) {
			resp, _ := get(t, c, h.url+path)
			assertRedirect(t, resp, "/login")
		})
	}

	resp := post(t, c, h.url+"/", url.Values{"task": {"sneaky"}})
	assertRedirect(t, resp, "/login")

	_, body := get(t, c, h.url+"/login")
	assert.Contains(t, body, "Please log in to access this page.")
}

func TestRegisterAndLoginFlow(t *testing.T) {
	h := newHarness(t)
	c := h.client(t)
	creds := url.Values{"login": {"alice"}, "password": {"secret"}}

	assertRedirect(t, post(t, c, h.url+"/register", creds), "/login")
	_, body := get(t, c, h.url+"/login")
	assert.Contains(t, body, "Registered! You can now log in.")

	resp, _ := get(t, c, h.url+"/")
	assertRedirect(t, resp, "/login")

	assertRedirect(t, post(t, c, h.url+"/register", creds), "/register")
	_, body = get(t, c, h.url+"/register")
	assert.Contains(t, body, "Login already exists")

	bad := url.Values{"login": {"alice"}, "password": {"wrong"}}
	assertRedirect(t, post(t, c, h.url+"/login", bad), "/login")
	_, body = get(t, c, h.url+"/login")
	assert.Contains(t, body, "Invalid login or password")

	assertRedirect(t, post(t, c, h.url+"/login", creds), "/")
	resp, body = get(t, c, h.url+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "alice")
}

func TestLoginFailuresLookTheSame(t *testing.T) {
	h := newHarness(t)
	h.signUpAndLogIn(t, "alice")

	var bodies []string
	for _, creds := range []url.Values{
		{"login": {"alice"}, "password": {"wrong"}},
		{"login": {"nobody"}, "password": {"wrong"}},
	} {
		c := h.client(t)
		assertRedirect(t, post(t, c, h.url+"/login", creds), "/login")
		_, body := get(t, c, h.url+"/login")
		bodies = append(bodies, body)
	}
	assert.Equal(t, bodies[0], bodies[1])
}

func TestTaskLifecycle(t *testing.T) {
	h := newHarness(t)
	c := h.signUpAndLogIn(t, "alice")

	assertRedirect(t, post(t, c, h.url+"/", url.Values{"task": {"buy milk"}}), "/")
	_, body := get(t, c, h.url+"/")
	assert.Contains(t, body, "buy milk")
	assert.Contains(t, body, "1 open, 0 done")

	ids := h.taskIDs(t, "alice")
	require.Len(t, ids, 1)
	id := ids[0]

	resp, _ := get(t, c, fmt.Sprintf("%s/task/%d/toggle", h.url, id))
	assertRedirect(t, resp, "/")
	_, body = get(t, c, h.url+"/")
	assert.Contains(t, body, "0 open, 1 done")

	resp, _ = get(t, c, fmt.Sprintf("%s/task/%d/delete", h.url, id))
	assertRedirect(t, resp, "/")
	assert.Empty(t, h.taskIDs(t, "alice"))

	resp, _ = get(t, c, fmt.Sprintf("%s/task/%d/toggle", h.url, id))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = get(t, c, fmt.Sprintf("%s/task/%d/delete", h.url, id))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEmptyTaskIsRejected(t *testing.T) {
	h := newHarness(t)
	c := h.signUpAndLogIn(t, "alice")

	assertRedirect(t, post(t, c, h.url+"/", url.Values{"task": {""}}), "/")
	assert.Empty(t, h.taskIDs(t, "alice"))
	_, body := get(t, c, h.url+"/")
	assert.Contains(t, body, "task is required")
}

func TestNULInInputIsAValidationError(t *testing.T) {
	h := newHarness(t)
	c := h.signUpAndLogIn(t, "alice")

	for _, text := range []string{"\x00", "milk\x00"} {
		assertRedirect(t, post(t, c, h.url+"/", url.Values{"task": {text}}), "/")
		_, body := get(t, c, h.url+"/")
		assert.Contains(t, body, "task must not contain NUL characters")
	}
	assert.Empty(t, h.taskIDs(t, "alice"))

	anon := h.client(t)
	creds := url.Values{"login": {"\x00"}, "password": {"pw"}}
	assertRedirect(t, post(t, anon, h.url+"/register", creds), "/register")
	_, body := get(t, anon, h.url+"/register")
	assert.Contains(t, body, "login must not contain NUL characters")
}

func TestUnknownOrMalformedTaskIDIs404(t *testing.T) {
	h := newHarness(t)
	c := h.signUpAndLogIn(t, "alice")

	for _, path := range []string{"/task/999/toggle", "/task/999/delete", "/task/abc/toggle"} {
		resp, _ := get(t, c, h.url+path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

// User B touching user A's task gets the same redirect as a success and the row is unchanged.
func TestForeignTaskRequestsAreIgnored(t *testing.T) {
	h := newHarness(t)
	alice := h.signUpAndLogIn(t, "alice")
	bob := h.signUpAndLogIn(t, "bob")

	assertRedirect(t, post(t, alice, h.url+"/", url.Values{"task": {"X"}}), "/")
	id := h.taskIDs(t, "alice")[0]

	_, body := get(t, bob, h.url+"/")
	assert.NotContains(t, body, fmt.Sprintf("/task/%d/toggle", id))

	resp, _ := get(t, bob, fmt.Sprintf("%s/task/%d/toggle", h.url, id))
	assertRedirect(t, resp, "/")
	resp, _ = get(t, bob, fmt.Sprintf("%s/task/%d/delete", h.url, id))
	assertRedirect(t, resp, "/")

	task, err := h.tasks.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, task.Done)
	assert.Equal(t, "X", task.Text)
}

func TestForeignTaskRequestsAreForbiddenWhenStrict(t *testing.T) {
	h := newHarness(t, service.WithStrictOwnership())
	alice := h.signUpAndLogIn(t, "alice")
	bob := h.signUpAndLogIn(t, "bob")

	assertRedirect(t, post(t, alice, h.url+"/", url.Values{"task": {"X"}}), "/")
	id := h.taskIDs(t, "alice")[0]

	resp, _ := get(t, bob, fmt.Sprintf("%s/task/%d/toggle", h.url, id))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = get(t, bob, fmt.Sprintf("%s/task/%d/delete", h.url, id))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	c := h.signUpAndLogIn(t, "alice")

	resp, _ := get(t, c, h.url+"/logout")
	assertRedirect(t, resp, "/login")

	resp, _ = get(t, c, h.url+"/")
	assertRedirect(t, resp, "/login")
}

func TestStolenCookieIsDeadAfterLogout(t *testing.T) {
	h := newHarness(t)
	c := h.signUpAndLogIn(t, "alice")

	base, err := url.Parse(h.url)
	require.NoError(t, err)
	stolen := c.Jar.Cookies(base)

	resp, _ := get(t, c, h.url+"/logout")
	assertRedirect(t, resp, "/login")

	thief := h.client(t)
	thief.Jar.SetCookies(base, stolen)
	resp, _ = get(t, thief, h.url+"/")
	assertRedirect(t, resp, "/login")
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	resp, body := get(t, h.client(t), h.url+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"up"`)
}

func TestUnknownRouteIs404(t *testing.T) {
	h := newHarness(t)
	resp, _ := get(t, h.client(t), h.url+"/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
