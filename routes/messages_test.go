package routes_test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microblog/models"
	"microblog/repositories"
)

func TestCreatePostValidation(t *testing.T) {
	app := newTestApp(t)
	c := app.signedIn(t, "alice")

	for _, path := range []string{"/create_post", "/"} {
		resp := c.post(path, url.Values{"content": {""}})
		assert.Equal(t, "/", resp.location)
		assert.Contains(t, c.get("/").body, "Message content cannot be empty.")

		resp = c.post(path, url.Values{"content": {strings.Repeat("x", 201)}})
		assert.Equal(t, "/", resp.location)
		assert.Contains(t, c.get("/").body, "Message content must be 200 characters or less.")
	}
	assert.Zero(t, app.count(t, &models.Message{}))

	for _, content := range []string{"x", strings.Repeat("y", 200), strings.Repeat("é", 200)} {
		resp := c.post("/create_post", url.Values{"content": {content}})
		assert.Equal(t, "/", resp.location)
		assert.Contains(t, c.get("/").body, "Your message has been posted!")
	}
	assert.Equal(t, int64(3), app.count(t, &models.Message{}))

	var stored models.Message
	require.NoError(t, app.db.Order("id DESC").First(&stored).Error)
	assert.Equal(t, app.user(t, "alice").ID, stored.UserID)
}

func TestFeedShowsTwentyNewestFirst(t *testing.T) {
	app := newTestApp(t)
	c := app.signedIn(t, "alice")
	alice := app.user(t, "alice")

	messages := repositories.NewMessageRepository(app.db.DB)
	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 25; i++ {
		require.NoError(t, messages.Create(context.Background(), &models.Message{
			UserID:    alice.ID,
			Content:   fmt.Sprintf("msg-%02d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	body := c.get("/").body
	assert.Equal(t, 20, strings.Count(body, `<li class="message">`))

	last := -1
	for i := 25; i >= 6; i-- {
		pos := strings.Index(body, fmt.Sprintf("msg-%02d", i))
		require.Greater(t, pos, last, "msg-%02d out of order", i)
		last = pos
	}
	for i := 1; i <= 5; i++ {
		assert.NotContains(t, body, fmt.Sprintf("msg-%02d", i))
	}
}

func postAs(t *testing.T, app *testApp, username, content string) *models.Message {
	t.Helper()
	m := &models.Message{UserID: app.user(t, username).ID, Content: content}
	require.NoError(t, repositories.NewMessageRepository(app.db.DB).Create(context.Background(), m))
	return m
}

func TestFavoriteAndUnfavorite(t *testing.T) {
	app := newTestApp(t)
	app.signedIn(t, "bob")
	alice := app.signedIn(t, "alice")
	m := postAs(t, app, "bob", "worth keeping")
	favoritePath := fmt.Sprintf("/favorite/%d", m.ID)
	unfavoritePath := fmt.Sprintf("/unfavorite/%d", m.ID)

	resp := alice.post(favoritePath, nil)
	assert.Equal(t, http.StatusFound, resp.status)
	assert.Equal(t, "/", resp.location)
	feed := alice.get("/").body
	assert.Contains(t, feed, "Message added to favorites!")
	assert.Contains(t, feed, `action="`+unfavoritePath+`"`)

	// a second favorite is a silent no-op
	resp = alice.post(favoritePath, nil)
	assert.Equal(t, "/", resp.location)
	assert.NotContains(t, alice.get("/").body, "Message added to favorites!")
	assert.Equal(t, int64(1), app.count(t, &models.Favorite{}))

	favorites := alice.get("/favorites")
	assert.Equal(t, http.StatusOK, favorites.status)
	assert.Contains(t, favorites.body, "worth keeping")

	resp = alice.post(unfavoritePath, nil)
	assert.Equal(t, "/", resp.location)
	assert.Contains(t, alice.get("/").body, "Message removed from favorites!")
	assert.Zero(t, app.count(t, &models.Favorite{}))
	assert.NotContains(t, alice.get("/favorites").body, "worth keeping")

	resp = alice.post(unfavoritePath, nil)
	assert.Equal(t, http.StatusFound, resp.status)
	assert.NotContains(t, alice.get("/").body, "Message removed from favorites!")
	assert.Zero(t, app.count(t, &models.Favorite{}))
}

func TestFavoriteUnknownMessageIsNotFound(t *testing.T) {
	app := newTestApp(t)
	c := app.signedIn(t, "alice")

	for _, path := range []string{"/favorite/999", "/unfavorite/999", "/favorite/abc", "/favorite/99999999999999999999999"} {
		resp := c.post(path, nil)
		assert.Equal(t, http.StatusNotFound, resp.status, path)
	}
	assert.Zero(t, app.count(t, &models.Favorite{}))
}

func TestFavoritesPageIsPerUser(t *testing.T) {
	app := newTestApp(t)
	bob := app.signedIn(t, "bob")
	alice := app.signedIn(t, "alice")
	older := postAs(t, app, "bob", "older post")
	newer := postAs(t, app, "bob", "newer post")

	alice.post(fmt.Sprintf("/favorite/%d", older.ID), nil)
	alice.post(fmt.Sprintf("/favorite/%d", newer.ID), nil)

	body := alice.get("/favorites").body
	require.Contains(t, body, "newer post")
	require.Contains(t, body, "older post")
	assert.Less(t, strings.Index(body, "newer post"), strings.Index(body, "older post"))

	assert.Contains(t, bob.get("/favorites").body, "No messages yet.")
}
