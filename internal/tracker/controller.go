// Package tracker orchestrates airdrops and their daily tasks against a
// backend: it loads them into a local cache, validates and dispatches
// mutations, and runs the optimistic reorder protocol.
package tracker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/airdrop-tracker/internal/ledger"
	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/reorder"
)

// DefaultTimeout bounds every backend request unless Options override it.
const DefaultTimeout = 10 * time.Second

// maxParallelFetches caps concurrent task-list requests during a load.
const maxParallelFetches = 8

// Backend is the command surface the controller dispatches to.
type Backend interface {
	ListAirdrops(ctx context.Context) ([]model.Airdrop, error)
	CreateAirdrop(ctx context.Context, draft model.AirdropDraft) (int64, error)
	UpdateAirdrop(ctx context.Context, id int64, patch model.AirdropPatch) error
	DeleteAirdrop(ctx context.Context, id int64) error
	ReorderAirdrops(ctx context.Context, items []model.OrderItem) error
	ListDailyTasks(ctx context.Context, airdropID int64) ([]model.DailyTask, error)
	CreateDailyTask(ctx context.Context, airdropID int64, title string, order int64) (int64, error)
	DeleteDailyTask(ctx context.Context, id int64) error
	MarkTaskDoneToday(ctx context.Context, taskID, airdropID int64) error
	ListAirdropTypes(ctx context.Context) ([]model.AirdropType, error)
	CreateAirdropType(ctx context.Context, name string, defaults []model.DefaultTask) (int64, error)
}

// Notifier receives every dispatch failure.
type Notifier interface {
	Notify(err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(err error)

func (f NotifierFunc) Notify(err error) { f(err) }

// ConfirmFunc asks the user to approve deleting item.
type ConfirmFunc func(item model.Airdrop) bool

// Options configures a Controller. Zero values select defaults.
type Options struct {
	Logger   *zap.Logger
	Notifier Notifier
	Clock    func() time.Time
	Timeout  time.Duration
	Cache    *Cache
}

// LoadReport summarises one Load.
type LoadReport struct {
	Items int
	// TaskErrors maps an airdrop id to the error fetching its tasks.
	TaskErrors map[int64]error
	// Stale is set when a newer load finished first and this result was
	// discarded.
	Stale bool
}

// PendingReorder is a move applied locally and not yet confirmed.
type PendingReorder struct {
	Token   Token
	From    int
	To      int
	Payload []model.OrderItem
}

// Controller owns the cache and is the only writer to it.
type Controller struct {
	backend  Backend
	cache    *Cache
	logger   *zap.Logger
	notifier Notifier
	now      func() time.Time
	timeout  time.Duration

	mu    sync.RWMutex
	query string
}

// New builds a controller over backend.
func New(backend Backend, opts Options) *Controller {
	c := &Controller{
		backend:  backend,
		cache:    opts.Cache,
		logger:   opts.Logger,
		notifier: opts.Notifier,
		now:      opts.Clock,
		timeout:  opts.Timeout,
	}
	if c.cache == nil {
		c.cache = NewCache()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(error) {})
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	return c
}

// Cache exposes the controller's cache for read access.
func (c *Controller) Cache() *Cache { return c.cache }

// Now returns the controller's clock reading.
func (c *Controller) Now() time.Time { return c.now() }

// Today is the calendar day used for every "done today" decision.
func (c *Controller) Today() string { return ledger.Today(c.now()) }

// === Reads ===

// Items returns every cached airdrop in display order.
func (c *Controller) Items() []model.Airdrop { return c.cache.Items() }

// Item returns one cached airdrop.
func (c *Controller) Item(id int64) (model.Airdrop, bool) { return c.cache.Item(id) }

// Visible returns the airdrops matching the current filter.
func (c *Controller) Visible() []model.Airdrop {
	return reorder.Filter(c.cache.Items(), c.Query())
}

// Tasks returns an airdrop's tasks in display order.
func (c *Controller) Tasks(airdropID int64) []model.DailyTask {
	return c.cache.Tasks(airdropID)
}

// Progress reports today's completion for an airdrop.
func (c *Controller) Progress(airdropID int64) ledger.Progress {
	return ledger.ComputeProgress(airdropID, c.cache.Tasks(airdropID), c.Today())
}

// SetFilter sets the search query that narrows Visible.
func (c *Controller) SetFilter(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
}

// Query returns the current search query.
func (c *Controller) Query() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

// Filtered reports whether the visible list is a subset of all airdrops.
func (c *Controller) Filtered() bool {
	return reorder.IsFiltered(c.Query())
}

// === Load ===

// Load fetches every airdrop and then each airdrop's tasks in parallel. A
// failed task fetch is recorded in the report and does not stop the
// others. The returned error is set only when the airdrop list itself
// could not be fetched; the cache is then left as it was.
func (c *Controller) Load(ctx context.Context) (LoadReport, error) {
	gen := c.cache.BeginLoad()

	var items []model.Airdrop
	err := c.dispatch(ctx, func(ctx context.Context) error {
		var err error
		items, err = c.backend.ListAirdrops(ctx)
		return err
	})
	if err != nil {
		return LoadReport{}, c.fail("load airdrops", "", err)
	}

	gens := make(map[int64]uint64, len(items))
	for _, a := range items {
		gens[a.ID] = c.cache.BeginTaskFetch(a.ID)
	}

	var (
		mu      sync.Mutex
		fetched = make(map[int64]TaskFetch, len(items))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for _, a := range items {
		id := a.ID
		g.Go(func() error {
			var tasks []model.DailyTask
			err := c.dispatch(gctx, func(ctx context.Context) error {
				var err error
				tasks, err = c.backend.ListDailyTasks(ctx, id)
				return err
			})
			if err != nil {
				c.logger.Warn("task_fetch_failed", zap.Int64("airdrop_id", id), zap.Error(err))
			}

			mu.Lock()
			fetched[id] = TaskFetch{Gen: gens[id], Tasks: tasks, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report := LoadReport{Items: len(items)}
	for id, f := range fetched {
		if f.Err != nil {
			if report.TaskErrors == nil {
				report.TaskErrors = make(map[int64]error)
			}
			report.TaskErrors[id] = f.Err
		}
	}

	if !c.cache.ReplaceAll(gen, items, fetched) {
		report.Stale = true
		c.logger.Debug("load_discarded", zap.Uint64("gen", gen))
		return report, nil
	}

	c.logger.Debug("load_ok",
		zap.Int("items", report.Items),
		zap.Int("task_errors", len(report.TaskErrors)),
	)
	return report, nil
}

// RefreshTasks re-fetches one airdrop's tasks.
func (c *Controller) RefreshTasks(ctx context.Context, airdropID int64) error {
	gen := c.cache.BeginTaskFetch(airdropID)

	var tasks []model.DailyTask
	err := c.dispatch(ctx, func(ctx context.Context) error {
		var err error
		tasks, err = c.backend.ListDailyTasks(ctx, airdropID)
		return err
	})
	if err != nil {
		return c.fail("reload tasks", "", err)
	}

	if !c.cache.ApplyTasks(airdropID, gen, tasks) {
		c.logger.Debug("tasks_discarded", zap.Int64("airdrop_id", airdropID), zap.Uint64("gen", gen))
	}
	return nil
}

// === Airdrop mutations ===

// Create validates and dispatches a new airdrop, then reloads to pick up
// the id and position the backend assigned.
func (c *Controller) Create(ctx context.Context, draft model.AirdropDraft) (int64, error) {
	if err := ValidateDraft(draft); err != nil {
		return 0, err
	}

	var id int64
	err := c.dispatch(ctx, func(ctx context.Context) error {
		var err error
		id, err = c.backend.CreateAirdrop(ctx, draft)
		return err
	})
	if err != nil {
		return 0, c.fail("create airdrop", draft.Name, err)
	}
	c.logger.Info("airdrop_create_ok", zap.Int64("id", id))

	if _, err := c.Load(ctx); err != nil {
		return id, err
	}
	return id, nil
}

// Update validates and dispatches a partial edit, then reloads.
func (c *Controller) Update(ctx context.Context, id int64, patch model.AirdropPatch) error {
	if err := ValidatePatch(patch); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return nil
	}
	if _, ok := c.cache.Item(id); !ok {
		return ErrUnknownItem
	}

	err := c.dispatch(ctx, func(ctx context.Context) error {
		return c.backend.UpdateAirdrop(ctx, id, patch)
	})
	if err != nil {
		return c.fail("update airdrop", "", err)
	}
	c.logger.Info("airdrop_update_ok", zap.Int64("id", id))

	_, err = c.Load(ctx)
	return err
}

// Delete asks confirm and, if approved, deletes the airdrop. On success
// the airdrop and its tasks leave the cache; on failure the cache is
// untouched.
func (c *Controller) Delete(ctx context.Context, id int64, confirm ConfirmFunc) error {
	item, ok := c.cache.Item(id)
	if !ok {
		return ErrUnknownItem
	}
	if confirm == nil || !confirm(item) {
		return ErrDeclined
	}

	err := c.dispatch(ctx, func(ctx context.Context) error {
		return c.backend.DeleteAirdrop(ctx, id)
	})
	if err != nil {
		return c.fail("delete airdrop", "", err)
	}

	c.cache.Remove(id)
	c.logger.Info("airdrop_delete_ok", zap.Int64("id", id))
	return nil
}

// === Reorder ===

// StageReorder moves the airdrop at from to to and applies the new order
// to the cache immediately. It refuses while a filter is active.
func (c *Controller) StageReorder(from, to int) (*PendingReorder, error) {
	if c.Filtered() {
		return nil, ErrReorderFiltered
	}

	var payload []model.OrderItem
	tok, err := c.cache.ApplyLocal(func(cur []model.Airdrop) ([]model.Airdrop, error) {
		next, err := reorder.Move(cur, from, to)
		if err != nil {
			return nil, err
		}
		payload = reorder.Payload(next)
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return &PendingReorder{Token: tok, From: from, To: to, Payload: payload}, nil
}

// CommitReorder sends a staged order to the backend. On failure the local
// order is discarded and a full load restores the stored one.
func (c *Controller) CommitReorder(ctx context.Context, p *PendingReorder) error {
	err := c.dispatch(ctx, func(ctx context.Context) error {
		return c.backend.ReorderAirdrops(ctx, p.Payload)
	})
	if err == nil {
		c.cache.Confirm(p.Token)
		c.logger.Debug("reorder_ok", zap.Int("from", p.From), zap.Int("to", p.To))
		return nil
	}

	c.cache.Rollback(p.Token)
	dispatchErr := c.fail("reorder airdrops", "", err)
	if _, loadErr := c.Load(ctx); loadErr != nil {
		c.logger.Warn("reorder_reload_failed", zap.Error(loadErr))
	}
	return dispatchErr
}

// Reorder stages and commits a move.
func (c *Controller) Reorder(ctx context.Context, from, to int) error {
	p, err := c.StageReorder(from, to)
	if err != nil {
		return err
	}
	return c.CommitReorder(ctx, p)
}

// === Task mutations ===

// MarkTaskDone records today for a task and re-fetches the airdrop's
// tasks. A task already done today is refused without dispatching.
func (c *Controller) MarkTaskDone(ctx context.Context, taskID, airdropID int64) error {
	task, ok := c.findTask(airdropID, taskID)
	if !ok {
		return ErrUnknownItem
	}
	if ledger.IsDoneOn(task, c.Today()) {
		return ErrAlreadyDone
	}

	err := c.dispatch(ctx, func(ctx context.Context) error {
		return c.backend.MarkTaskDoneToday(ctx, taskID, airdropID)
	})
	if err != nil {
		return c.fail("mark task done", "", err)
	}
	c.logger.Info("task_done_ok", zap.Int64("task_id", taskID), zap.Int64("airdrop_id", airdropID))

	return c.RefreshTasks(ctx, airdropID)
}

// AddTask appends a task after the airdrop's current last one. A failed
// dispatch returns a *DispatchError whose Draft holds the title.
func (c *Controller) AddTask(ctx context.Context, airdropID int64, title string) (int64, error) {
	t, err := validateTitle(title)
	if err != nil {
		return 0, err
	}
	if _, ok := c.cache.Item(airdropID); !ok {
		return 0, ErrUnknownItem
	}

	order := ledger.NextOrder(c.cache.Tasks(airdropID))

	var id int64
	err = c.dispatch(ctx, func(ctx context.Context) error {
		var err error
		id, err = c.backend.CreateDailyTask(ctx, airdropID, t, order)
		return err
	})
	if err != nil {
		return 0, c.fail("add task", title, err)
	}
	c.logger.Info("task_create_ok", zap.Int64("id", id), zap.Int64("order", order))

	return id, c.RefreshTasks(ctx, airdropID)
}

// DeleteTask removes a task and re-fetches the airdrop's tasks.
func (c *Controller) DeleteTask(ctx context.Context, taskID, airdropID int64) error {
	if _, ok := c.findTask(airdropID, taskID); !ok {
		return ErrUnknownItem
	}

	err := c.dispatch(ctx, func(ctx context.Context) error {
		return c.backend.DeleteDailyTask(ctx, taskID)
	})
	if err != nil {
		return c.fail("delete task", "", err)
	}

	return c.RefreshTasks(ctx, airdropID)
}

// === Types ===

// Types lists the airdrop type catalogue.
func (c *Controller) Types(ctx context.Context) ([]model.AirdropType, error) {
	var types []model.AirdropType
	err := c.dispatch(ctx, func(ctx context.Context) error {
		var err error
		types, err = c.backend.ListAirdropTypes(ctx)
		return err
	})
	if err != nil {
		return nil, c.fail("load airdrop types", "", err)
	}
	return types, nil
}

// CreateType adds an airdrop type with its default task titles.
func (c *Controller) CreateType(ctx context.Context, name string, titles []string) (int64, error) {
	fields := map[string]string{}
	n, err := validateTitle(name)
	if err != nil {
		fields["name"] = "required"
	}
	defaults := make([]model.DefaultTask, 0, len(titles))
	for _, raw := range titles {
		if t, err := validateTitle(raw); err == nil {
			defaults = append(defaults, model.DefaultTask{Title: t})
		}
	}
	if len(fields) > 0 {
		return 0, &ValidationError{Fields: fields}
	}

	var id int64
	err = c.dispatch(ctx, func(ctx context.Context) error {
		var err error
		id, err = c.backend.CreateAirdropType(ctx, n, defaults)
		return err
	})
	if err != nil {
		return 0, c.fail("create airdrop type", name, err)
	}
	return id, nil
}

// === helpers ===

// dispatch runs fn under the request timeout.
func (c *Controller) dispatch(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return fn(ctx)
}

// fail wraps err as a DispatchError, logs it and notifies.
func (c *Controller) fail(action, draft string, err error) error {
	de := &DispatchError{Action: action, Draft: draft, Err: err}
	c.logger.Error("dispatch_failed", zap.String("action", action), zap.Error(err))
	c.notifier.Notify(de)
	return de
}

func (c *Controller) findTask(airdropID, taskID int64) (model.DailyTask, bool) {
	for _, t := range c.cache.Tasks(airdropID) {
		if t.ID == taskID {
			return t, true
		}
	}
	return model.DailyTask{}, false
}
