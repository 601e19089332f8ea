package content

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anushkaEsdev/alumni-client/internal/api"
	"github.com/anushkaEsdev/alumni-client/internal/credentials"
	"github.com/anushkaEsdev/alumni-client/internal/models"
	"github.com/anushkaEsdev/alumni-client/internal/notify"
)

type stubAuth bool

func (a stubAuth) IsAuthenticated() bool { return bool(a) }

type fixture struct {
	store    *Store
	notes    *notify.Recorder
	requests *atomic.Int64
}

func newFixture(t *testing.T, authed bool, handler http.HandlerFunc) *fixture {
	t.Helper()

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if handler != nil {
			handler(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	notes := &notify.Recorder{}
	client := api.New(srv.URL, 2*time.Second, &credentials.Memory{}, notes, log)
	return &fixture{
		store:    NewStore(client, stubAuth(authed), notes),
		notes:    notes,
		requests: &requests,
	}
}

func post(id, title string, postType models.PostType) models.Post {
	return models.Post{ID: id, Title: title, Content: "body", Type: postType}
}

func event(id, date string) models.Post {
	p := post(id, "event "+id, models.PostTypeMeeting)
	p.MeetingDate = date
	return p
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.SuccessResponse{Status: status, Data: data})
}

func postsHandler(posts func() []models.Post) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, posts())
	}
}

func TestLoadAllPartitionsVariants(t *testing.T) {
	all := []models.Post{
		post("p1", "hello", models.PostTypeBlog),
		event("e1", "2024-06-15"),
		post("q1", "big-O", models.PostTypeInterview),
		post("p2", "again", models.PostTypeBlog),
	}
	f := newFixture(t, true, postsHandler(func() []models.Post { return all }))

	require.NoError(t, f.store.LoadAll(context.Background()))

	assert.Len(t, f.store.Posts(), 4)
	require.Len(t, f.store.Events(), 1)
	assert.Equal(t, "e1", f.store.Events()[0].ID)
	require.Len(t, f.store.Questions(), 1)
	assert.Equal(t, "q1", f.store.Questions()[0].ID)
	assert.Equal(t, "", f.store.Err())
	assert.Equal(t, int64(1), f.requests.Load(), "one fetch sources all three collections")
}

func TestLoadAllFailureKeepsPriorCollections(t *testing.T) {
	var fail atomic.Bool
	f := newFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Status: 500, Message: "boom"})
			return
		}
		writeData(w, http.StatusOK, []models.Post{post("p1", "hello", models.PostTypeBlog)})
	})

	require.NoError(t, f.store.LoadAll(context.Background()))
	fail.Store(true)

	err := f.store.LoadAll(context.Background())
	require.Error(t, err)
	assert.Len(t, f.store.Posts(), 1, "prior collection survives a failed reload")
	assert.NotEmpty(t, f.store.Err())
	assert.NotEmpty(t, f.notes.Errors())
}

func TestCreatePrepends(t *testing.T) {
	echoed := post("c1", "newest", models.PostTypeBlog)
	f := newFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeData(w, http.StatusOK, []models.Post{
				post("a", "A", models.PostTypeBlog),
				post("b", "B", models.PostTypeBlog),
			})
		case http.MethodPost:
			writeData(w, http.StatusCreated, echoed)
		}
	})
	require.NoError(t, f.store.LoadAll(context.Background()))

	created, err := f.store.Create(context.Background(), models.CreatePostRequest{
		Title: "newest", Content: "body", Type: models.PostTypeBlog,
	})
	require.NoError(t, err)
	assert.Equal(t, echoed, created)

	got := f.store.Posts()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c1", "a", "b"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestDeleteRemovesByID(t *testing.T) {
	f := newFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeData(w, http.StatusOK, []models.Post{
				post("a", "A", models.PostTypeBlog),
				post("b", "B", models.PostTypeBlog),
				post("c", "C", models.PostTypeBlog),
			})
		case http.MethodDelete:
			writeData(w, http.StatusOK, map[string]string{"message": "deleted"})
		}
	})
	require.NoError(t, f.store.LoadAll(context.Background()))

	require.NoError(t, f.store.Delete(context.Background(), "b"))

	got := f.store.Posts()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestUpdateReplacesInPlace(t *testing.T) {
	updated := post("b", "B2", models.PostTypeBlog)
	f := newFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeData(w, http.StatusOK, []models.Post{
				post("a", "A", models.PostTypeBlog),
				post("b", "B", models.PostTypeBlog),
				post("c", "C", models.PostTypeBlog),
			})
		case http.MethodPut:
			writeData(w, http.StatusOK, updated)
		}
	})
	require.NoError(t, f.store.LoadAll(context.Background()))

	title := "B2"
	_, err := f.store.Update(context.Background(), "b", models.UpdatePostRequest{Title: &title})
	require.NoError(t, err)

	got := f.store.Posts()
	require.Len(t, got, 3)
	assert.Equal(t, "B2", got[1].Title, "updated item keeps its position")
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "C", got[2].Title)
}

func TestNoOptimisticMutation(t *testing.T) {
	release := make(chan struct{})
	updated := post("a", "A2", models.PostTypeBlog)
	f := newFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeData(w, http.StatusOK, []models.Post{post("a", "A", models.PostTypeBlog)})
		case http.MethodPut:
			<-release
			writeData(w, http.StatusOK, updated)
		}
	})
	require.NoError(t, f.store.LoadAll(context.Background()))

	done := make(chan error, 1)
	go func() {
		title := "A2"
		_, err := f.store.Update(context.Background(), "a", models.UpdatePostRequest{Title: &title})
		done <- err
	}()

	// While the backend is holding the request, the collection must still
	// show the old value.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, "A", f.store.Posts()[0].Title)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, "A2", f.store.Posts()[0].Title)
}

func TestUpcomingEventsFilterAndOrder(t *testing.T) {
	f := newFixture(t, true, postsHandler(func() []models.Post {
		return []models.Post{
			event("past", "2024-01-01"),
			event("later", "2024-07-01"),
			event("sooner", "2024-06-15"),
			post("p1", "not an event", models.PostTypeBlog),
		}
	}))
	f.store.SetToday(func() string { return "2024-06-01" })
	require.NoError(t, f.store.LoadAll(context.Background()))

	got := f.store.UpcomingEvents()
	require.Len(t, got, 2)
	assert.Equal(t, "sooner", got[0].ID)
	assert.Equal(t, "later", got[1].ID)
}

func TestUpcomingEventsIncludesToday(t *testing.T) {
	f := newFixture(t, true, postsHandler(func() []models.Post {
		return []models.Post{event("today", "2024-06-01")}
	}))
	f.store.SetToday(func() string { return "2024-06-01" })
	require.NoError(t, f.store.LoadAll(context.Background()))

	require.Len(t, f.store.UpcomingEvents(), 1)
}

func TestByType(t *testing.T) {
	f := newFixture(t, true, postsHandler(func() []models.Post {
		return []models.Post{
			post("p1", "hello", models.PostTypeBlog),
			post("q1", "big-O", models.PostTypeInterview),
		}
	}))
	require.NoError(t, f.store.LoadAll(context.Background()))
	before := f.requests.Load()

	blogs := f.store.ByType(models.PostTypeBlog)
	require.Len(t, blogs, 1)
	assert.Equal(t, "p1", blogs[0].ID)
	assert.Equal(t, before, f.requests.Load(), "derived reads stay in memory")
}

func TestAddCommentRequiresSession(t *testing.T) {
	f := newFixture(t, false, nil)

	err := f.store.AddComment(context.Background(), "p1", "nice post")
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindNotAuthenticated))
	assert.Equal(t, int64(0), f.requests.Load(), "gate runs before any network call")
	require.Len(t, f.notes.Events(), 1)
}

func TestAddCommentReplacesParent(t *testing.T) {
	withComment := post("a", "A", models.PostTypeBlog)
	withComment.Comments = []models.Comment{{ID: "c1", Content: "nice post"}}

	f := newFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeData(w, http.StatusOK, []models.Post{post("a", "A", models.PostTypeBlog)})
		case http.MethodPost:
			writeData(w, http.StatusCreated, withComment)
		}
	})
	require.NoError(t, f.store.LoadAll(context.Background()))

	require.NoError(t, f.store.AddComment(context.Background(), "a", "nice post"))

	got := f.store.Posts()
	require.Len(t, got, 1)
	require.Len(t, got[0].Comments, 1)
	assert.Equal(t, "nice post", got[0].Comments[0].Content)
}

func TestRefreshOnlyTouchesPosts(t *testing.T) {
	first := []models.Post{
		post("p1", "old", models.PostTypeBlog),
		event("e1", "2030-01-01"),
	}
	second := []models.Post{post("p2", "new", models.PostTypeBlog)}

	var calls atomic.Int64
	f := newFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeData(w, http.StatusOK, first)
			return
		}
		writeData(w, http.StatusOK, second)
	})
	require.NoError(t, f.store.LoadAll(context.Background()))

	f.store.Refresh(context.Background())

	require.Len(t, f.store.Posts(), 1)
	assert.Equal(t, "p2", f.store.Posts()[0].ID)
	require.Len(t, f.store.Events(), 1, "events collection is deliberately left stale")
}

func TestRefreshSwallowsFailure(t *testing.T) {
	var fail atomic.Bool
	f := newFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Status: 500, Message: "boom"})
			return
		}
		writeData(w, http.StatusOK, []models.Post{post("p1", "hello", models.PostTypeBlog)})
	})
	require.NoError(t, f.store.LoadAll(context.Background()))
	fail.Store(true)

	f.store.Refresh(context.Background())

	// The toast is the only trace of the failure; the collection is intact.
	assert.Len(t, f.store.Posts(), 1)
	assert.NotEmpty(t, f.notes.Errors())
}

func TestLoadAllSupersedesInFlightCall(t *testing.T) {
	gate := make(chan struct{})
	var calls atomic.Int64
	f := newFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// First call parks until canceled by its successor.
			<-r.Context().Done()
			return
		}
		writeData(w, http.StatusOK, []models.Post{post("winner", "w", models.PostTypeBlog)})
	})

	firstDone := make(chan error, 1)
	go func() {
		close(gate)
		firstDone <- f.store.LoadAll(context.Background())
	}()
	<-gate
	// Wait until the first request is parked server-side.
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, f.store.LoadAll(context.Background()))

	err := <-firstDone
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	require.Len(t, f.store.Posts(), 1)
	assert.Equal(t, "winner", f.store.Posts()[0].ID)
}

func TestConcurrentCreatesBothLand(t *testing.T) {
	secondArrived := make(chan struct{})
	var calls atomic.Int64
	f := newFixture(t, true, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// First create is held until the second is in flight.
			<-secondArrived
			writeData(w, http.StatusCreated, post("c1", "first", models.PostTypeBlog))
			return
		}
		close(secondArrived)
		writeData(w, http.StatusCreated, post("c2", "second", models.PostTypeBlog))
	})

	firstDone := make(chan error, 1)
	go func() {
		_, err := f.store.Create(context.Background(), models.CreatePostRequest{
			Title: "first", Content: "body", Type: models.PostTypeBlog,
		})
		firstDone <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	_, err := f.store.Create(context.Background(), models.CreatePostRequest{
		Title: "second", Content: "body", Type: models.PostTypeBlog,
	})
	require.NoError(t, err)
	require.NoError(t, <-firstDone, "an independent draft must not cancel another")

	got := f.store.Posts()
	require.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"c1", "c2"}, []string{got[0].ID, got[1].ID})
}

func TestSubscribeObservesChanges(t *testing.T) {
	f := newFixture(t, true, postsHandler(func() []models.Post {
		return []models.Post{post("p1", "hello", models.PostTypeBlog)}
	}))

	var changes atomic.Int64
	f.store.Subscribe(func() { changes.Add(1) })

	require.NoError(t, f.store.LoadAll(context.Background()))
	assert.Equal(t, int64(1), changes.Load())
}
