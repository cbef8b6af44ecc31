// Package viewmodel holds presentation state for the console's list views.
// Actions are safe to call concurrently; only the newest request for a state
// slot may write to it.
package viewmodel

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/chrimztech/unza-counseling-console/internal/api"
	"github.com/chrimztech/unza-counseling-console/internal/domain"
)

// User-facing messages for failed loads.
const (
	MsgLoadFailed     = "Failed to load resources. Please try again."
	MsgSearchFailed   = "Search failed. Please try again."
	MsgFilterFailed   = "Failed to filter resources."
	MsgFeaturedFailed = "Failed to load featured resources."
)

var (
	// ErrSuperseded is returned by an action whose result was discarded
	// because a newer action on the same slot started after it.
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrClosed is returned once the view-model has been closed.
	ErrClosed = errors.New("view-model closed")
)

// ResourceSource is the data the library view reads. *api.ResourcesAPI
// satisfies it.
type ResourceSource interface {
	All(ctx context.Context) ([]domain.Resource, error)
	Search(ctx context.Context, query string) ([]domain.Resource, error)
	ByType(ctx context.Context, resourceType string) ([]domain.Resource, error)
	ByCategory(ctx context.Context, category string) ([]domain.Resource, error)
	Featured(ctx context.Context) ([]domain.Resource, error)
	Highlights(ctx context.Context) ([]domain.Resource, error)
	Categories(ctx context.Context) ([]string, error)
	Download(ctx context.Context, id string) (*api.Download, error)
}

// Options configures a ResourceLibrary.
type Options struct {
	// AutoFetch loads categories, highlights and the main list on Mount.
	AutoFetch bool
	// The first non-empty of FeaturedOnly, InitialType and InitialCategory
	// selects the main list loaded on Mount.
	FeaturedOnly    bool
	InitialType     string
	InitialCategory string
	// OnChange receives a snapshot after every state change. Calls are
	// serialized and never go back in time: a snapshot older than one
	// already delivered is dropped. OnChange must not call actions on the
	// library.
	OnChange func(State)
	Logger   *slog.Logger
}

// State is the view state of the resource library.
type State struct {
	Items      []domain.Resource `json:"items"`
	Featured   []domain.Resource `json:"featured"`
	Categories []string          `json:"categories"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
}

func (s State) clone() State {
	s.Items = slices.Clone(s.Items)
	s.Featured = slices.Clone(s.Featured)
	s.Categories = slices.Clone(s.Categories)
	return s
}

// ResourceLibrary is the view-model behind the resource library.
type ResourceLibrary struct {
	src    ResourceSource
	opts   Options
	logger *slog.Logger

	// life is cancelled by Close and aborts every in-flight request.
	life context.Context
	stop context.CancelFunc

	mu      sync.Mutex
	state   State
	itemSeq uint64
	sideSeq uint64
	version uint64
	closed  bool

	notifyMu  sync.Mutex
	delivered uint64
}

// NewResourceLibrary creates a view-model over src. Nothing is fetched until
// Mount or an action is called.
func NewResourceLibrary(src ResourceSource, opts Options) *ResourceLibrary {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	life, stop := context.WithCancel(context.Background())
	return &ResourceLibrary{
		src:    src,
		opts:   opts,
		logger: opts.Logger,
		life:   life,
		stop:   stop,
		state:  State{Items: []domain.Resource{}, Featured: []domain.Resource{}, Categories: []string{}},
	}
}

// Mount performs the initial fan-out when AutoFetch is set. Categories,
// highlights and the main list load in parallel and are merged only after
// all three resolve.
func (l *ResourceLibrary) Mount(ctx context.Context) error {
	if !l.opts.AutoFetch {
		return nil
	}
	itemTok, sideTok, err := l.beginMount()
	if err != nil {
		return err
	}

	ctx, done := l.requestContext(ctx)
	defer done()

	var (
		g          errgroup.Group
		cats       []string
		highlights []domain.Resource
		items      []domain.Resource
	)
	g.Go(func() (err error) {
		cats, err = l.src.Categories(ctx)
		return err
	})
	g.Go(func() (err error) {
		highlights, err = l.src.Highlights(ctx)
		return err
	})
	g.Go(func() (err error) {
		items, err = l.initialList(ctx)
		return err
	})
	err = g.Wait()

	if err != nil {
		l.logger.WarnContext(ctx, "initial resource load failed", slog.String("error", err.Error()))
	}
	return l.finishMount(itemTok, sideTok, cats, highlights, items, err)
}

func (l *ResourceLibrary) initialList(ctx context.Context) ([]domain.Resource, error) {
	switch {
	case l.opts.FeaturedOnly:
		return l.src.Featured(ctx)
	case l.opts.InitialType != "":
		return l.src.ByType(ctx, l.opts.InitialType)
	case l.opts.InitialCategory != "":
		return l.src.ByCategory(ctx, l.opts.InitialCategory)
	default:
		return l.src.All(ctx)
	}
}

// All loads the unfiltered list.
func (l *ResourceLibrary) All(ctx context.Context) error {
	return l.load(ctx, "all", MsgLoadFailed, l.src.All)
}

// Refresh reloads the unfiltered list.
func (l *ResourceLibrary) Refresh(ctx context.Context) error {
	return l.All(ctx)
}

// Search loads resources matching query. A blank query is the same as All.
func (l *ResourceLibrary) Search(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return l.All(ctx)
	}
	return l.load(ctx, "search", MsgSearchFailed, func(ctx context.Context) ([]domain.Resource, error) {
		return l.src.Search(ctx, query)
	})
}

// FilterByType loads resources of one type. An empty type is the same as All.
func (l *ResourceLibrary) FilterByType(ctx context.Context, resourceType string) error {
	if resourceType == "" {
		return l.All(ctx)
	}
	return l.load(ctx, "filter_type", MsgFilterFailed, func(ctx context.Context) ([]domain.Resource, error) {
		return l.src.ByType(ctx, resourceType)
	})
}

// FilterByCategory loads resources in one category. An empty category is
// the same as All.
func (l *ResourceLibrary) FilterByCategory(ctx context.Context, category string) error {
	if category == "" {
		return l.All(ctx)
	}
	return l.load(ctx, "filter_category", MsgFilterFailed, func(ctx context.Context) ([]domain.Resource, error) {
		return l.src.ByCategory(ctx, category)
	})
}

// Featured replaces the main list with the featured resources.
func (l *ResourceLibrary) Featured(ctx context.Context) error {
	return l.load(ctx, "featured", MsgFeaturedFailed, l.src.Featured)
}

// Download fetches a resource file. It does not touch the view state.
func (l *ResourceLibrary) Download(ctx context.Context, id string) (*api.Download, error) {
	ctx, done := l.requestContext(ctx)
	defer done()
	return l.src.Download(ctx, id)
}

// Snapshot returns a copy of the current state.
func (l *ResourceLibrary) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state.clone()
}

// Close cancels in-flight requests; results arriving afterwards are
// dropped. Close is idempotent.
func (l *ResourceLibrary) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.stop()
}

func (l *ResourceLibrary) load(ctx context.Context, action, failMsg string, fetch func(context.Context) ([]domain.Resource, error)) error {
	tok, err := l.begin()
	if err != nil {
		return err
	}

	ctx, done := l.requestContext(ctx)
	defer done()

	items, fetchErr := fetch(ctx)
	if fetchErr != nil {
		l.logger.WarnContext(ctx, "resource load failed",
			slog.String("action", action),
			slog.String("error", fetchErr.Error()),
		)
	}
	return l.finish(tok, items, fetchErr, failMsg)
}

// requestContext derives a per-request context that is also cancelled by
// Close.
func (l *ResourceLibrary) requestContext(ctx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	unwatch := context.AfterFunc(l.life, cancel)
	return ctx, func() {
		unwatch()
		cancel()
	}
}

// begin claims the items slot: the previous error is cleared and loading
// is set in the same step.
func (l *ResourceLibrary) begin() (uint64, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return 0, ErrClosed
	}
	l.itemSeq++
	tok := l.itemSeq
	l.state.Loading = true
	l.state.Error = ""
	snap, ver := l.stamp()
	l.mu.Unlock()

	l.notify(snap, ver)
	return tok, nil
}

func (l *ResourceLibrary) beginMount() (uint64, uint64, error) {
	tok, err := l.begin()
	if err != nil {
		return 0, 0, err
	}
	l.mu.Lock()
	l.sideSeq++
	side := l.sideSeq
	l.mu.Unlock()
	return tok, side, nil
}

// finish applies a result to the items slot if tok is still the newest.
func (l *ResourceLibrary) finish(tok uint64, items []domain.Resource, fetchErr error, failMsg string) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if tok != l.itemSeq {
		l.mu.Unlock()
		return ErrSuperseded
	}
	l.applyItems(items, fetchErr, failMsg)
	snap, ver := l.stamp()
	l.mu.Unlock()

	l.notify(snap, ver)
	return fetchErr
}

func (l *ResourceLibrary) finishMount(itemTok, sideTok uint64, cats []string, highlights []domain.Resource, items []domain.Resource, fetchErr error) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	if sideTok == l.sideSeq {
		if cats != nil {
			l.state.Categories = cats
		}
		if highlights != nil {
			l.state.Featured = highlights
		}
	}
	superseded := itemTok != l.itemSeq
	if !superseded {
		l.applyItems(items, fetchErr, MsgLoadFailed)
	}
	snap, ver := l.stamp()
	l.mu.Unlock()

	l.notify(snap, ver)
	if superseded {
		return ErrSuperseded
	}
	return fetchErr
}

// applyItems writes exactly one of items or error. Prior items survive a
// failed load. Callers hold l.mu.
func (l *ResourceLibrary) applyItems(items []domain.Resource, fetchErr error, failMsg string) {
	l.state.Loading = false
	if fetchErr != nil {
		l.state.Error = failMsg
		return
	}
	if items == nil {
		items = []domain.Resource{}
	}
	l.state.Items = items
	l.state.Error = ""
}

// stamp snapshots the state under a new version. Callers hold l.mu.
func (l *ResourceLibrary) stamp() (State, uint64) {
	l.version++
	return l.state.clone(), l.version
}

// notify delivers s unless a newer snapshot already went out.
func (l *ResourceLibrary) notify(s State, ver uint64) {
	if l.opts.OnChange == nil {
		return
	}
	l.notifyMu.Lock()
	defer l.notifyMu.Unlock()
	if ver <= l.delivered {
		return
	}
	l.delivered = ver
	l.opts.OnChange(s)
}
