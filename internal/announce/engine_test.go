package announce

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smeier/announce/internal/ledger"
	"github.com/smeier/announce/internal/model"
	"github.com/smeier/announce/internal/store"
	"github.com/smeier/announce/tests/testutil"
)

const validMessage = `{
	"id": 7,
	"title": "New release",
	"message": "Version 2.0 is out.",
	"buttons": [
		{"title": "Read more", "action": "url", "url": "https://example.com/news"},
		{"title": "Dismiss", "action": "dismiss"}
	]
}`

type fakeFetcher struct {
	calls int
	body  []byte
	err   error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

type fakePresenter struct {
	calls     int
	title     string
	body      string
	labels    []string
	selection int
	chosen    bool
	err       error

	// block, when set, stalls Present until the channel is closed;
	// entered, when set, is closed as soon as Present is reached.
	block   chan struct{}
	entered chan struct{}
}

func (p *fakePresenter) Present(
	ctx context.Context,
	title, body string,
	labels []string,
) (int, bool, error) {
	if p.entered != nil {
		close(p.entered)
		p.entered = nil
	}
	if p.block != nil {
		<-p.block
	}
	p.calls++
	p.title = title
	p.body = body
	p.labels = labels
	if p.err != nil {
		return 0, false, p.err
	}
	return p.selection, p.chosen, nil
}

type fakeOpener struct {
	uris []string
}

func (o *fakeOpener) OpenURI(uri string) error {
	o.uris = append(o.uris, uri)
	return nil
}

type engineFixture struct {
	engine    *Engine
	store     *store.SQLiteStore
	ledger    *ledger.Ledger
	fetcher   *fakeFetcher
	presenter *fakePresenter
	opener    *fakeOpener
}

func newFixture(t *testing.T, cfg Config, st *store.SQLiteStore) *engineFixture {
	t.Helper()

	if st == nil {
		st = testutil.NewTestStore(t)
	}

	f := &engineFixture{
		store:     st,
		ledger:    ledger.New(st),
		fetcher:   &fakeFetcher{body: []byte(validMessage)},
		presenter: &fakePresenter{chosen: true},
		opener:    &fakeOpener{},
	}
	f.engine = New(
		cfg,
		f.fetcher,
		f.presenter,
		f.opener,
		f.ledger,
		slog.New(slog.DiscardHandler),
	)
	return f
}

func defaultConfig() Config {
	return Config{
		URLTemplate:       "https://example.com/news.json?v=__VERSION__&l=__LANGUAGE__",
		ShowOnFirstLaunch: true,
		Runtime:           RuntimeContext{Version: "2.0", Language: "de"},
	}
}

func TestShow_MissingTemplateIsFatal(t *testing.T) {
	cfg := defaultConfig()
	cfg.URLTemplate = ""
	f := newFixture(t, cfg, nil)

	err := f.engine.Show(context.Background())
	assert.ErrorIs(t, err, ErrNoTemplate)
	assert.Zero(t, f.fetcher.calls)
}

func TestShow_FirstLaunchSuppressed(t *testing.T) {
	cfg := defaultConfig()
	cfg.ShowOnFirstLaunch = false
	f := newFixture(t, cfg, nil)

	ctx := context.Background()
	require.NoError(t, f.engine.Show(ctx))

	// No network call, but the first launch is consumed forever.
	assert.Zero(t, f.fetcher.calls)
	assert.Zero(t, f.presenter.calls)

	first, err := f.ledger.IsFirstLaunch(ctx)
	require.NoError(t, err)
	assert.False(t, first)

	_, seen, err := f.ledger.LastShownID(ctx)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestShow_FirstLaunchAllowed(t *testing.T) {
	f := newFixture(t, defaultConfig(), nil)

	var shownIDs []int
	f.engine.OnMessageShown(func(id int) { shownIDs = append(shownIDs, id) })

	ctx := context.Background()
	require.NoError(t, f.engine.Show(ctx))

	assert.Equal(t, 1, f.fetcher.calls)
	assert.Equal(t, 1, f.presenter.calls)
	assert.Equal(t, "New release", f.presenter.title)
	assert.Equal(t, "Version 2.0 is out.", f.presenter.body)
	assert.Equal(t, []string{"Read more", "Dismiss"}, f.presenter.labels)
	assert.Equal(t, []int{7}, shownIDs)

	id, seen, err := f.ledger.LastShownID(ctx)
	require.NoError(t, err)
	require.True(t, seen)
	assert.Equal(t, 7, id)

	first, err := f.ledger.IsFirstLaunch(ctx)
	require.NoError(t, err)
	assert.False(t, first)

	history, err := f.store.ShownHistory(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 7, history[0].MessageID)
	assert.Equal(t, "New release", history[0].Title)
}

func TestShow_DedupesLastShownID(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	// First invocation shows message 7.
	f1 := newFixture(t, defaultConfig(), st)
	require.NoError(t, f1.engine.Show(ctx))
	require.Equal(t, 1, f1.presenter.calls)

	// A later invocation (fresh engine, same store) sees the same id.
	f2 := newFixture(t, defaultConfig(), st)
	require.NoError(t, f2.engine.Show(ctx))

	assert.Equal(t, 1, f2.fetcher.calls)
	assert.Zero(t, f2.presenter.calls)

	id, seen, err := f2.ledger.LastShownID(ctx)
	require.NoError(t, err)
	require.True(t, seen)
	assert.Equal(t, 7, id)
}

func TestShow_NewIDAfterDedup(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	f1 := newFixture(t, defaultConfig(), st)
	require.NoError(t, f1.engine.Show(ctx))

	f2 := newFixture(t, defaultConfig(), st)
	f2.fetcher.body = []byte(`{"id":8,"title":"Next","message":"More news.","buttons":[]}`)
	require.NoError(t, f2.engine.Show(ctx))

	assert.Equal(t, 1, f2.presenter.calls)

	id, seen, err := f2.ledger.LastShownID(ctx)
	require.NoError(t, err)
	require.True(t, seen)
	assert.Equal(t, 8, id)
}

func TestShow_FetchFailureIsSilent(t *testing.T) {
	f := newFixture(t, defaultConfig(), nil)
	f.fetcher.err = errors.New("connection refused")

	ctx := context.Background()
	require.NoError(t, f.engine.Show(ctx))

	assert.Zero(t, f.presenter.calls)
	_, seen, err := f.ledger.LastShownID(ctx)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestShow_DecodeFailureIsSilent(t *testing.T) {
	f := newFixture(t, defaultConfig(), nil)
	f.fetcher.body = []byte("<html>not json</html>")

	require.NoError(t, f.engine.Show(context.Background()))
	assert.Zero(t, f.presenter.calls)
}

func TestShow_InvalidPayloadIsSilent(t *testing.T) {
	f := newFixture(t, defaultConfig(), nil)
	f.fetcher.body = []byte(`{"id":1,"title":"t","message":"m","buttons":"not-array"}`)

	ctx := context.Background()
	require.NoError(t, f.engine.Show(ctx))

	assert.Zero(t, f.presenter.calls)
	_, seen, err := f.ledger.LastShownID(ctx)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestShow_InvalidResolvedURLIsSilent(t *testing.T) {
	cfg := defaultConfig()
	cfg.URLTemplate = "__VERSION__"
	cfg.Runtime.Version = "not a url"
	f := newFixture(t, cfg, nil)

	require.NoError(t, f.engine.Show(context.Background()))
	assert.Zero(t, f.fetcher.calls)
}

func TestShow_URLActionOpensTarget(t *testing.T) {
	f := newFixture(t, defaultConfig(), nil)
	f.presenter.selection = 0 // "Read more"

	var touched []model.Action
	f.engine.OnButtonTouched(func(id int, action model.Action) {
		// The notification always precedes the URI-open side effect.
		assert.Empty(t, f.opener.uris)
		touched = append(touched, action)
		assert.Equal(t, 7, id)
	})

	require.NoError(t, f.engine.Show(context.Background()))

	require.Len(t, touched, 1)
	assert.Equal(t, "Read more", touched[0].Label)
	assert.Equal(t, model.ActionKindURL, touched[0].Kind)
	assert.Equal(t, []string{"https://example.com/news"}, f.opener.uris)
}

func TestShow_UnknownActionKindOnlyNotifies(t *testing.T) {
	f := newFixture(t, defaultConfig(), nil)
	f.presenter.selection = 1 // "Dismiss"

	var touched []model.Action
	f.engine.OnButtonTouched(func(id int, action model.Action) {
		touched = append(touched, action)
	})

	require.NoError(t, f.engine.Show(context.Background()))

	require.Len(t, touched, 1)
	assert.Equal(t, "dismiss", touched[0].Kind)
	assert.Empty(t, f.opener.uris)
}

func TestShow_NoSelectionStillRecords(t *testing.T) {
	f := newFixture(t, defaultConfig(), nil)
	f.presenter.chosen = false

	var touched int
	f.engine.OnButtonTouched(func(int, model.Action) { touched++ })

	ctx := context.Background()
	require.NoError(t, f.engine.Show(ctx))

	assert.Zero(t, touched)
	assert.Empty(t, f.opener.uris)

	id, seen, err := f.ledger.LastShownID(ctx)
	require.NoError(t, err)
	require.True(t, seen)
	assert.Equal(t, 7, id)
}

func TestShow_ReentrantCallRejected(t *testing.T) {
	f := newFixture(t, defaultConfig(), nil)
	f.presenter.block = make(chan struct{})
	f.presenter.entered = make(chan struct{})
	entered := f.presenter.entered

	done := make(chan error, 1)
	go func() { done <- f.engine.Show(context.Background()) }()

	// Wait until the first Show is parked inside the presenter.
	<-entered

	assert.ErrorIs(t, f.engine.Show(context.Background()), ErrShowInFlight)

	close(f.presenter.block)
	require.NoError(t, <-done)
}
