package controllers

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/pizzagpt/services"
)

type listMenuItemsArgs struct {
	Name       *string   `json:"name"`
	OnlyActive *flexBool `json:"only_active"`
}

type idArgs struct {
	ID string `json:"id"`
}

func menuTools(menu *services.MenuService) []*Tool {
	return []*Tool{
		{
			Name:        "menu.list_items",
			Description: "List menu items. Optional filters: name (substring, case-insensitive), only_active (default true).",
			Args: []ArgSpec{
				{Name: "name", Type: "string", Description: "case-insensitive substring of the item name"},
				{Name: "only_active", Type: "boolean", Default: true},
			},
			invoke: func(ctx context.Context, raw json.RawMessage) (gin.H, error) {
				var args listMenuItemsArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				items, err := menu.ListItems(ctx, services.ListMenuItemsParams{
					Name:       stringOr(args.Name, ""),
					OnlyActive: boolOr(args.OnlyActive, true),
				})
				if err != nil {
					return nil, err
				}
				return gin.H{"items": items}, nil
			},
		},
		{
			Name:        "menu.get_item",
			Description: "Get a single menu item by id.",
			Args: []ArgSpec{
				{Name: "id", Type: "string", Required: true, Description: "menu item id"},
			},
			invoke: func(ctx context.Context, raw json.RawMessage) (gin.H, error) {
				var args idArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				item, err := menu.GetItem(ctx, args.ID)
				if err != nil {
					return nil, err
				}
				return gin.H{"item": item}, nil
			},
		},
	}
}
