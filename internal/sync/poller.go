// Package sync keeps the tracker fresh in the background: it reloads on an
// interval and reports when the local calendar day rolls over.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/airdrop-tracker/internal/ledger"
	"github.com/nhle/airdrop-tracker/internal/tracker"
)

// RefreshMsg is a tea.Msg sent when a background reload completes.
type RefreshMsg struct {
	Report tracker.LoadReport
	Err    error
}

// DayChangedMsg is a tea.Msg sent when the local calendar day changes.
// Every "done today" flag must be re-derived for the new Day.
type DayChangedMsg struct {
	Day string
}

// Loader reloads tracker state.
type Loader interface {
	Load(ctx context.Context) (tracker.LoadReport, error)
}

// refreshTimeout is the maximum time allowed for a single background load.
const refreshTimeout = 30 * time.Second

// dayCheckInterval is how often the day watcher samples the clock.
const dayCheckInterval = 30 * time.Second

// Poller runs the refresh and day-rollover loops.
type Poller struct {
	loader   Loader
	interval time.Duration
	now      func() time.Time
	logger   *zap.Logger

	resultCh  chan tea.Msg
	triggerCh chan struct{}
	stopCh    chan struct{}
	done      gosync.WaitGroup

	mu      gosync.Mutex
	running bool
	stopped bool
	day     string
}

// New creates a poller that reloads every interval. A nil clock means
// time.Now.
func New(loader Loader, interval time.Duration, now func() time.Time, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		loader:    loader,
		interval:  interval,
		now:       now,
		logger:    logger,
		resultCh:  make(chan tea.Msg, 16),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
		day:       ledger.Today(now()),
	}
}

// Start launches the background loops and returns a tea.Cmd that delivers
// the first message. Call WaitForNextResult after handling each message.
// A poller cannot be restarted once stopped.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running || p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	p.done.Add(2)
	go p.refreshLoop()
	go p.dayLoop(dayCheckInterval)

	return p.waitForResult()
}

// Stop halts the background loops and waits for them to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.running = false
	p.stopped = true
	p.mu.Unlock()

	p.done.Wait()
}

// RefreshNow asks the refresh loop to reload immediately.
func (p *Poller) RefreshNow() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A refresh is already queued.
	}
}

// Day returns the calendar day the poller last observed.
func (p *Poller) Day() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.day
}

func (p *Poller) refreshLoop() {
	defer p.done.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.refresh()
		case <-p.triggerCh:
			p.refresh()
		}
	}
}

func (p *Poller) dayLoop(every time.Duration) {
	defer p.done.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.checkDay()
		}
	}
}

// checkDay emits DayChangedMsg if the clock has moved to a new day.
func (p *Poller) checkDay() {
	today := ledger.Today(p.now())

	p.mu.Lock()
	changed := today != p.day
	p.day = today
	p.mu.Unlock()

	if changed {
		p.logger.Info("day_changed", zap.String("day", today))
		p.sendResult(DayChangedMsg{Day: today})
	}
}

// refresh performs a single load and sends a RefreshMsg.
func (p *Poller) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	report, err := p.loader.Load(ctx)
	if err != nil {
		p.logger.Warn("background_refresh_failed", zap.Error(err))
	}
	p.sendResult(RefreshMsg{Report: report, Err: err})
}

// sendResult sends a message without blocking.
func (p *Poller) sendResult(msg tea.Msg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

// waitForResult returns a tea.Cmd that waits for the next message from
// the result channel. It returns nil once the poller has stopped.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-p.resultCh:
			return msg
		case <-p.stopCh:
			return nil
		}
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next poller
// message. Call it after handling RefreshMsg or DayChangedMsg.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
