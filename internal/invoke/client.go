package invoke

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nhle/airdrop-tracker/internal/model"
)

// Client is a typed front for an Invoker.
type Client struct {
	inv Invoker
}

// NewClient wraps inv.
func NewClient(inv Invoker) *Client {
	return &Client{inv: inv}
}

func (c *Client) ListAirdrops(ctx context.Context) ([]model.Airdrop, error) {
	var items []model.Airdrop
	if err := c.inv.Invoke(ctx, CmdListAirdrops, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateAirdrop(ctx context.Context, draft model.AirdropDraft) (int64, error) {
	var id int64
	err := c.inv.Invoke(ctx, CmdCreateAirdrop, createAirdropArgs{Req: draft}, &id)
	return id, err
}

func (c *Client) UpdateAirdrop(ctx context.Context, id int64, patch model.AirdropPatch) error {
	args := updateAirdropArgs{Req: updateAirdropRequest{ID: id, AirdropPatch: patch}}
	return c.inv.Invoke(ctx, CmdUpdateAirdrop, args, nil)
}

func (c *Client) DeleteAirdrop(ctx context.Context, id int64) error {
	return c.inv.Invoke(ctx, CmdDeleteAirdrop, idArgs{ID: id}, nil)
}

func (c *Client) ReorderAirdrops(ctx context.Context, items []model.OrderItem) error {
	if items == nil {
		items = []model.OrderItem{}
	}
	return c.inv.Invoke(ctx, CmdReorderAirdrops, reorderArgs{Req: reorderRequest{Items: items}}, nil)
}

func (c *Client) ListDailyTasks(ctx context.Context, airdropID int64) ([]model.DailyTask, error) {
	var tasks []model.DailyTask
	if err := c.inv.Invoke(ctx, CmdListDailyTasks, listTasksArgs{AirdropID: airdropID}, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateDailyTask(ctx context.Context, airdropID int64, title string, order int64) (int64, error) {
	var id int64
	args := createTaskArgs{Req: createTaskRequest{AirdropID: airdropID, Title: title, Order: order}}
	err := c.inv.Invoke(ctx, CmdCreateDailyTask, args, &id)
	return id, err
}

func (c *Client) DeleteDailyTask(ctx context.Context, id int64) error {
	return c.inv.Invoke(ctx, CmdDeleteDailyTask, idArgs{ID: id}, nil)
}

// MarkTaskDoneToday records today in the task's ledger. The day is decided
// on the handler side.
func (c *Client) MarkTaskDoneToday(ctx context.Context, taskID, airdropID int64) error {
	return c.inv.Invoke(ctx, CmdMarkTaskDoneToday, markDoneArgs{TaskID: taskID, AirdropID: airdropID}, nil)
}

func (c *Client) ListAirdropTypes(ctx context.Context) ([]model.AirdropType, error) {
	var types []model.AirdropType
	if err := c.inv.Invoke(ctx, CmdListAirdropTypes, nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *Client) CreateAirdropType(ctx context.Context, name string, defaults []model.DefaultTask) (int64, error) {
	if defaults == nil {
		defaults = []model.DefaultTask{}
	}
	raw, err := json.Marshal(defaults)
	if err != nil {
		return 0, fmt.Errorf("encoding default tasks: %w", err)
	}

	var id int64
	args := createTypeArgs{Req: createTypeRequest{Name: name, DefaultTasks: raw}}
	err = c.inv.Invoke(ctx, CmdCreateAirdropType, args, &id)
	return id, err
}
