package invoke

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/nhle/airdrop-tracker/internal/ledger"
	"github.com/nhle/airdrop-tracker/internal/model"
	"github.com/nhle/airdrop-tracker/internal/store"
)

// Command names understood by the bus.
const (
	CmdListAirdrops      = "list_airdrops"
	CmdCreateAirdrop     = "create_airdrop"
	CmdUpdateAirdrop     = "update_airdrop"
	CmdDeleteAirdrop     = "delete_airdrop"
	CmdReorderAirdrops   = "reorder_airdrops"
	CmdListAirdropTypes  = "list_airdrop_types"
	CmdCreateAirdropType = "create_airdrop_type"
	CmdListDailyTasks    = "list_airdrop_daily_tasks"
	CmdCreateDailyTask   = "create_airdrop_daily_task"
	CmdDeleteDailyTask   = "delete_airdrop_daily_task"
	CmdMarkTaskDoneToday = "mark_task_done_today"
)

// Clock returns the current time.
type Clock func() time.Time

// Argument bags. Field names follow the wire format of each command.
type (
	idArgs struct {
		ID int64 `json:"id"`
	}

	createAirdropArgs struct {
		Req model.AirdropDraft `json:"req"`
	}

	updateAirdropRequest struct {
		ID int64 `json:"id"`
		model.AirdropPatch
	}

	updateAirdropArgs struct {
		Req updateAirdropRequest `json:"req"`
	}

	reorderRequest struct {
		Items []model.OrderItem `json:"items"`
	}

	reorderArgs struct {
		Req reorderRequest `json:"req"`
	}

	createTypeRequest struct {
		Name         string          `json:"name"`
		DefaultTasks json.RawMessage `json:"default_tasks"`
	}

	createTypeArgs struct {
		Req createTypeRequest `json:"req"`
	}

	listTasksArgs struct {
		AirdropID int64 `json:"airdropId"`
	}

	createTaskRequest struct {
		AirdropID int64  `json:"airdrop_id"`
		Title     string `json:"title"`
		Order     int64  `json:"order"`
	}

	createTaskArgs struct {
		Req createTaskRequest `json:"req"`
	}

	markDoneArgs struct {
		TaskID    int64 `json:"taskId"`
		AirdropID int64 `json:"airdropId"`
	}
)

// Register binds every tracker command to s. clock decides which calendar
// day mark_task_done_today records; nil means time.Now.
func Register(bus *Bus, s store.Store, clock Clock) {
	if clock == nil {
		clock = time.Now
	}

	bus.Handle(CmdListAirdrops, func(ctx context.Context, _ json.RawMessage) (any, error) {
		items, err := s.ListAirdrops(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []model.Airdrop{}
		}
		return items, nil
	})

	bus.Handle(CmdCreateAirdrop, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args createAirdropArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if strings.TrimSpace(args.Req.Name) == "" {
			return nil, badArgs("name is required")
		}
		return s.CreateAirdrop(ctx, args.Req)
	})

	bus.Handle(CmdUpdateAirdrop, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args updateAirdropArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if args.Req.ID <= 0 {
			return nil, badArgs("id is required")
		}
		return nil, s.UpdateAirdrop(ctx, args.Req.ID, args.Req.AirdropPatch)
	})

	bus.Handle(CmdDeleteAirdrop, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args idArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return nil, s.DeleteAirdrop(ctx, args.ID)
	})

	bus.Handle(CmdReorderAirdrops, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args reorderArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		seen := make(map[int64]struct{}, len(args.Req.Items))
		for _, it := range args.Req.Items {
			if _, dup := seen[it.ID]; dup {
				return nil, badArgs("airdrop %d listed twice", it.ID)
			}
			seen[it.ID] = struct{}{}
		}
		return nil, s.ReorderAirdrops(ctx, args.Req.Items)
	})

	bus.Handle(CmdListAirdropTypes, func(ctx context.Context, _ json.RawMessage) (any, error) {
		types, err := s.ListAirdropTypes(ctx)
		if err != nil {
			return nil, err
		}
		if types == nil {
			types = []model.AirdropType{}
		}
		return types, nil
	})

	bus.Handle(CmdCreateAirdropType, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args createTypeArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if strings.TrimSpace(args.Req.Name) == "" {
			return nil, badArgs("name is required")
		}
		defaults, err := model.ParseDefaultTasks(args.Req.DefaultTasks)
		if err != nil {
			return nil, badArgs("default_tasks: %v", err)
		}
		return s.CreateAirdropType(ctx, args.Req.Name, defaults)
	})

	bus.Handle(CmdListDailyTasks, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args listTasksArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		tasks, err := s.ListDailyTasks(ctx, args.AirdropID)
		if err != nil {
			return nil, err
		}
		if tasks == nil {
			tasks = []model.DailyTask{}
		}
		return tasks, nil
	})

	bus.Handle(CmdCreateDailyTask, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args createTaskArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		if strings.TrimSpace(args.Req.Title) == "" {
			return nil, badArgs("title is required")
		}
		return s.CreateDailyTask(ctx, args.Req.AirdropID, args.Req.Title, args.Req.Order)
	})

	bus.Handle(CmdDeleteDailyTask, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args idArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return nil, s.DeleteDailyTask(ctx, args.ID)
	})

	bus.Handle(CmdMarkTaskDoneToday, func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args markDoneArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return nil, s.MarkTaskDone(ctx, args.TaskID, args.AirdropID, ledger.Today(clock()))
	})
}
