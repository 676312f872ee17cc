package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"tweettoot/internal/config"
	"tweettoot/internal/external/mastodon"
	"tweettoot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	posts []model.Post
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context) ([]model.Post, error) {
	return f.posts, f.err
}

type memoryStore struct {
	mu    sync.Mutex
	value int64
	ok    bool
}

func (s *memoryStore) Load(ctx context.Context) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.ok, nil
}

func (s *memoryStore) Save(ctx context.Context, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value, s.ok = value, true
	return nil
}

// recordingPoster отвечает заданным кодом и запоминает ключи идемпотентности
type recordingPoster struct {
	code int
	err  error
	keys []string
}

func (p *recordingPoster) PostStatus(ctx context.Context, status mastodon.Status) (*mastodon.Response, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.keys = append(p.keys, status.IdempotencyKey)
	return &mastodon.Response{StatusCode: p.code}, nil
}

type notification struct {
	postID  string
	outcome Outcome
}

type fakeNotifier struct {
	sent []notification
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, post model.Post, outcome Outcome) error {
	n.sent = append(n.sent, notification{postID: post.ID, outcome: outcome})
	return n.err
}

var testMastodonConfig = config.MastodonConfig{HostInstance: "https://example.social", AccessToken: "token"}

func newTestMirror(posts []model.Post, store *memoryStore, poster *recordingPoster, notifier Notifier) *Mirror {
	publisher := NewPublisher(testMastodonConfig, store, poster, zap.NewNop())
	return NewMirror(&fakeFetcher{posts: posts}, publisher, notifier, zap.NewNop())
}

func TestMirror_BootstrapUsesNewestPost(t *testing.T) {
	store := &memoryStore{}
	poster := &recordingPoster{code: http.StatusOK}
	posts := []model.Post{
		{ID: "2", Text: "b", Time: 2000},
		{ID: "3", Text: "c", Time: 3000},
		{ID: "1", Text: "a", Time: 1000},
	}

	report, err := newTestMirror(posts, store, poster, nil).RunOnce(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Bootstrapped)
	assert.Equal(t, 3, report.Fetched)
	assert.Zero(t, report.Published)
	assert.NotEmpty(t, report.RunID)
	assert.Empty(t, poster.keys)
	assert.Equal(t, int64(3000), store.value)
}

func TestMirror_PublishesNewPostsOldestFirst(t *testing.T) {
	store := &memoryStore{value: 1500, ok: true}
	poster := &recordingPoster{code: http.StatusOK}
	notifier := &fakeNotifier{}
	posts := []model.Post{
		{ID: "3", Text: "c", Time: 3000},
		{ID: "1", Text: "a", Time: 1000},
		{ID: "2", Text: "b", Time: 2000},
	}

	report, err := newTestMirror(posts, store, poster, notifier).RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"2", "3"}, poster.keys)
	assert.Equal(t, 2, report.Published)
	assert.Equal(t, 1, report.Skipped)
	assert.False(t, report.Bootstrapped)
	assert.Equal(t, int64(3000), store.value)
	assert.Equal(t, []notification{
		{postID: "2", outcome: OutcomePublished},
		{postID: "3", outcome: OutcomePublished},
	}, notifier.sent)
}

func TestMirror_CountsRejectedPosts(t *testing.T) {
	store := &memoryStore{value: 1000, ok: true}
	poster := &recordingPoster{code: http.StatusInternalServerError}
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	posts := []model.Post{{ID: "2", Text: "b", Time: 2000}}

	report, err := newTestMirror(posts, store, poster, notifier).RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Rejected)
	assert.Zero(t, report.Published)
	assert.Equal(t, int64(2000), store.value)
	assert.Equal(t, []notification{{postID: "2", outcome: OutcomeRejected}}, notifier.sent)
}

func TestMirror_NoPosts(t *testing.T) {
	store := &memoryStore{}
	poster := &recordingPoster{code: http.StatusOK}

	report, err := newTestMirror(nil, store, poster, nil).RunOnce(context.Background())
	require.NoError(t, err)

	assert.Zero(t, report.Fetched)
	assert.False(t, store.ok)
}

func TestMirror_FetchError(t *testing.T) {
	fetchErr := errors.New("boom")
	publisher := NewPublisher(testMastodonConfig, &memoryStore{}, &recordingPoster{}, zap.NewNop())
	mirror := NewMirror(&fakeFetcher{err: fetchErr}, publisher, nil, zap.NewNop())

	report, err := mirror.RunOnce(context.Background())
	assert.ErrorIs(t, err, fetchErr)
	require.NotNil(t, report)
	assert.Contains(t, report.Error, "boom")
}

func TestMirror_StopsOnPublishError(t *testing.T) {
	transportErr := errors.New("connection refused")
	store := &memoryStore{value: 1000, ok: true}
	poster := &recordingPoster{err: transportErr}
	posts := []model.Post{
		{ID: "2", Text: "b", Time: 2000},
		{ID: "3", Text: "c", Time: 3000},
	}

	report, err := newTestMirror(posts, store, poster, nil).RunOnce(context.Background())
	assert.ErrorIs(t, err, transportErr)
	assert.Zero(t, report.Published)
	assert.Equal(t, int64(2000), store.value)
}
