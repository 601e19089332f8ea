package stubserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anushkaEsdev/alumni-client/internal/api"
	"github.com/anushkaEsdev/alumni-client/internal/content"
	"github.com/anushkaEsdev/alumni-client/internal/credentials"
	"github.com/anushkaEsdev/alumni-client/internal/models"
	"github.com/anushkaEsdev/alumni-client/internal/notify"
	"github.com/anushkaEsdev/alumni-client/internal/session"
)

// TestClientAgainstStub drives the whole SDK (client, session manager,
// content store) against the stub backend the way the CLI wires it.
func TestClientAgainstStub(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	srv := httptest.NewServer(New(Config{JWTSecret: "test-secret", Logger: log}).Handler())
	t.Cleanup(srv.Close)

	creds := &credentials.Memory{}
	notes := &notify.Recorder{}
	client := api.New(srv.URL+"/api", 2*time.Second, creds, notes, log)
	sess := session.NewManager(client, creds, notes)
	client.OnSignOut(sess.Invalidate)
	store := content.NewStore(client, sess, notes)

	ctx := context.Background()

	require.NoError(t, sess.Register(ctx, "asha", "asha@example.com", "secret123"))
	require.True(t, sess.IsAuthenticated())

	created, err := store.Create(ctx, models.CreatePostRequest{
		Title: "Reunion", Content: "Save the date", Type: models.PostTypeMeeting,
		MeetingDate: "2030-05-01", MeetingTime: "18:00",
	})
	require.NoError(t, err)
	_, err = store.Create(ctx, models.CreatePostRequest{
		Title: "Hello alumni", Content: "First post", Type: models.PostTypeBlog,
	})
	require.NoError(t, err)

	require.NoError(t, store.LoadAll(ctx))
	assert.Len(t, store.Posts(), 2)
	require.Len(t, store.Events(), 1)

	upcoming := store.UpcomingEvents()
	require.Len(t, upcoming, 1)
	assert.Equal(t, created.ID, upcoming[0].ID)

	require.NoError(t, store.AddComment(ctx, created.ID, "See you there"))
	for _, p := range store.Posts() {
		if p.ID == created.ID {
			require.Len(t, p.Comments, 1)
			assert.Equal(t, "asha", p.Comments[0].Author.Username)
		}
	}

	require.NoError(t, store.Like(ctx, created.ID))

	// A relogin from persisted state sees the same identity.
	fresh := session.NewManager(client, creds, notes)
	fresh.Restore()
	user, ok := fresh.Current()
	require.True(t, ok)
	assert.Equal(t, "asha@example.com", user.Email)

	bio := "Class of 2019"
	require.NoError(t, sess.UpdateProfile(ctx, models.UpdateProfileRequest{Bio: &bio}))
	user, _ = sess.Current()
	assert.Equal(t, bio, user.Bio)

	require.NoError(t, sess.UpdatePassword(ctx, "secret123", "stronger456"))
	sess.Logout()
	assert.False(t, sess.IsAuthenticated())

	require.NoError(t, sess.Login(ctx, "asha@example.com", "stronger456"))
	require.True(t, sess.IsAuthenticated())

	// An expired-credential request signs the session out end to end.
	require.NoError(t, creds.Save("tampered-token", user))
	err = sess.UpdateProfile(ctx, models.UpdateProfileRequest{Bio: &bio})
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindNotAuthenticated))
	assert.False(t, sess.IsAuthenticated())
	assert.Equal(t, "", creds.Token())
}
