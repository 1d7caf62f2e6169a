package tracker

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/nhle/airdrop-tracker/internal/ledger"
	"github.com/nhle/airdrop-tracker/internal/model"
)

// fakeBackend is an in-memory Backend with fault injection.
type fakeBackend struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]model.Airdrop
	tasks  map[int64]model.DailyTask
	types  []model.AirdropType
	today  string

	// fail maps a method name to the error it should return.
	fail map[string]error
	// failTasksFor makes ListDailyTasks fail for one airdrop.
	failTasksFor map[int64]error
	// beforeListTasks runs before ListDailyTasks reads state.
	beforeListTasks func(ctx context.Context, airdropID int64)

	calls    map[string]int
	reorders [][]model.OrderItem
	created  []createdTask
}

type createdTask struct {
	AirdropID int64
	Title     string
	Order     int64
}

func newFakeBackend(today string) *fakeBackend {
	return &fakeBackend{
		items:        make(map[int64]model.Airdrop),
		tasks:        make(map[int64]model.DailyTask),
		today:        today,
		fail:         make(map[string]error),
		failTasksFor: make(map[int64]error),
		calls:        make(map[string]int),
	}
}

func (f *fakeBackend) call(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	return f.fail[name]
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) setFail(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, name)
		return
	}
	f.fail[name] = err
}

func (f *fakeBackend) seed(names ...string) []int64 {
	ids := make([]int64, 0, len(names))
	for _, n := range names {
		id, err := f.CreateAirdrop(context.Background(), model.AirdropDraft{Name: n, Active: true})
		if err != nil {
			panic(err)
		}
		ids = append(ids, id)
	}
	f.resetCalls()
	return ids
}

func (f *fakeBackend) resetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = make(map[string]int)
}

func (f *fakeBackend) seedTask(airdropID int64, title string, order int64, done ...string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.tasks[f.nextID] = model.DailyTask{
		ID: f.nextID, AirdropID: airdropID, Title: title, Order: order,
		DoneDates: slices.Clone(done),
	}
	return f.nextID
}

func (f *fakeBackend) ListAirdrops(ctx context.Context) ([]model.Airdrop, error) {
	if err := f.call("ListAirdrops"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Airdrop, 0, len(f.items))
	for _, a := range f.items {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeBackend) CreateAirdrop(ctx context.Context, d model.AirdropDraft) (int64, error) {
	if err := f.call("CreateAirdrop"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	pos := int64(-1)
	for _, a := range f.items {
		pos = max(pos, a.Position)
	}
	f.nextID++
	f.items[f.nextID] = model.Airdrop{
		ID: f.nextID, Name: d.Name, URL: d.URL, Position: pos + 1, Active: d.Active,
		WalletAddress: d.WalletAddress,
	}
	return f.nextID, nil
}

func (f *fakeBackend) UpdateAirdrop(ctx context.Context, id int64, p model.AirdropPatch) error {
	if err := f.call("UpdateAirdrop"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return fmt.Errorf("airdrop %d not found", id)
	}
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.WalletAddress != nil {
		a.WalletAddress = model.OptionalString(*p.WalletAddress)
	}
	if p.Active != nil {
		a.Active = *p.Active
	}
	f.items[id] = a
	return nil
}

func (f *fakeBackend) DeleteAirdrop(ctx context.Context, id int64) error {
	if err := f.call("DeleteAirdrop"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	for tid, t := range f.tasks {
		if t.AirdropID == id {
			delete(f.tasks, tid)
		}
	}
	return nil
}

func (f *fakeBackend) ReorderAirdrops(ctx context.Context, items []model.OrderItem) error {
	f.mu.Lock()
	f.reorders = append(f.reorders, slices.Clone(items))
	f.mu.Unlock()
	if err := f.call("ReorderAirdrops"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		a := f.items[it.ID]
		a.Position = it.Position
		f.items[it.ID] = a
	}
	return nil
}

func (f *fakeBackend) ListDailyTasks(ctx context.Context, airdropID int64) ([]model.DailyTask, error) {
	if err := f.call("ListDailyTasks"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	hook := f.beforeListTasks
	failErr := f.failTasksFor[airdropID]
	f.mu.Unlock()

	if hook != nil {
		hook(ctx, airdropID)
	}
	if failErr != nil {
		return nil, failErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.DailyTask
	for _, t := range f.tasks {
		if t.AirdropID == airdropID {
			t.DoneDates = slices.Clone(t.DoneDates)
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBackend) CreateDailyTask(ctx context.Context, airdropID int64, title string, order int64) (int64, error) {
	f.mu.Lock()
	f.created = append(f.created, createdTask{airdropID, title, order})
	f.mu.Unlock()
	if err := f.call("CreateDailyTask"); err != nil {
		return 0, err
	}
	return f.seedTask(airdropID, title, order), nil
}

func (f *fakeBackend) DeleteDailyTask(ctx context.Context, id int64) error {
	if err := f.call("DeleteDailyTask"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tasks, id)
	return nil
}

func (f *fakeBackend) MarkTaskDoneToday(ctx context.Context, taskID, airdropID int64) error {
	if err := f.call("MarkTaskDoneToday"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[taskID]
	if !ok || t.AirdropID != airdropID {
		return fmt.Errorf("task %d not found", taskID)
	}
	f.tasks[taskID] = ledger.MarkDone(t, f.today)
	return nil
}

func (f *fakeBackend) ListAirdropTypes(ctx context.Context) ([]model.AirdropType, error) {
	if err := f.call("ListAirdropTypes"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.types), nil
}

func (f *fakeBackend) CreateAirdropType(ctx context.Context, name string, defaults []model.DefaultTask) (int64, error) {
	if err := f.call("CreateAirdropType"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.types = append(f.types, model.AirdropType{ID: f.nextID, Name: name, DefaultTasks: defaults})
	return f.nextID, nil
}
