// Package invoke is the named-command boundary between the tracker and the
// store. Each command takes a JSON argument bag and returns a JSON result.
package invoke

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrUnknownCommand is returned for a name with no registered handler.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrBadArguments is returned when an argument bag fails to decode or
	// validate.
	ErrBadArguments = errors.New("bad arguments")
)

// Handler runs one command against its raw argument bag.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Invoker dispatches a named command. args is marshalled to JSON and the
// result is unmarshalled into out when out is non-nil.
type Invoker interface {
	Invoke(ctx context.Context, name string, args any, out any) error
}

// Bus is an in-process command registry.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	logger   *zap.Logger
}

// NewBus returns an empty bus. A nil logger disables logging.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Handle registers h under name, replacing any previous handler.
func (b *Bus) Handle(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = h
}

// Commands lists the registered command names in sorted order.
func (b *Bus) Commands() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.handlers))
	for n := range b.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the named command.
func (b *Bus) Invoke(ctx context.Context, name string, args any, out any) error {
	b.mu.RLock()
	h, ok := b.handlers[name]
	b.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownCommand)
	}

	raw := json.RawMessage("{}")
	if args != nil {
		data, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("%s: encoding arguments: %w", name, err)
		}
		raw = data
	}

	reqID := uuid.NewString()
	log := b.logger.With(zap.String("command", name), zap.String("request_id", reqID))

	if err := ctx.Err(); err != nil {
		log.Warn("invoke_cancelled", zap.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}

	start := time.Now()
	log.Debug("invoke_start")

	result, err := h(ctx, raw)
	if err != nil {
		log.Error("invoke_failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Debug("invoke_ok", zap.Duration("took", time.Since(start)))

	if out == nil || result == nil {
		return nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%s: encoding result: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decoding result: %w", name, err)
	}
	return nil
}

// decodeArgs strictly decodes an argument bag into dst.
func decodeArgs(raw json.RawMessage, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadArguments, err)
	}
	return nil
}

// badArgs formats a validation failure as ErrBadArguments.
func badArgs(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrBadArguments, fmt.Sprintf(format, a...))
}
