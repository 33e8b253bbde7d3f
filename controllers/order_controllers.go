package controllers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/pizzagpt/models"
	"github.com/yeremiapane/pizzagpt/services"
)

type orderItemArgs struct {
	MenuItemID      string   `json:"menu_item_id"`
	Quantity        *flexInt `json:"quantity"`
	SpecialRequests *string  `json:"special_requests"`
}

type createOrderArgs struct {
	CustomerID    string          `json:"customer_id"`
	Items         []orderItemArgs `json:"items"`
	Notes         *string         `json:"notes"`
	DiscountCents *flexInt        `json:"discount_cents"`
}

type addOrderItemArgs struct {
	OrderID         string   `json:"order_id"`
	MenuItemID      string   `json:"menu_item_id"`
	Quantity        *flexInt `json:"quantity"`
	SpecialRequests *string  `json:"special_requests"`
}

type setOrderStatusArgs struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type listOrdersArgs struct {
	CustomerID *string  `json:"customer_id"`
	Status     *string  `json:"status"`
	Limit      *flexInt `json:"limit"`
}

func statusNames() []string {
	names := make([]string, 0, len(models.OrderStatuses))
	for _, s := range models.OrderStatuses {
		names = append(names, s.String())
	}
	return names
}

func orderTools(orders *services.OrderService) []*Tool {
	return []*Tool{
		{
			Name:        "orders.create",
			Description: "Create a pending order for a customer. items is a list of {menu_item_id, quantity (default 1), special_requests}. Optional notes and discount_cents.",
			Args: []ArgSpec{
				{Name: "customer_id", Type: "string", Required: true},
				{Name: "items", Type: "array", Required: true, Description: "objects with menu_item_id, quantity, special_requests"},
				{Name: "notes", Type: "string"},
				{Name: "discount_cents", Type: "integer", Default: 0},
			},
			invoke: func(ctx context.Context, raw json.RawMessage) (gin.H, error) {
				var args createOrderArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				items := make([]services.OrderItemInput, 0, len(args.Items))
				for _, it := range args.Items {
					items = append(items, services.OrderItemInput{
						MenuItemID:      it.MenuItemID,
						Quantity:        int(intOr(it.Quantity, 1)),
						SpecialRequests: it.SpecialRequests,
					})
				}
				order, err := orders.Create(ctx, services.CreateOrderParams{
					CustomerID:    args.CustomerID,
					Items:         items,
					Notes:         args.Notes,
					DiscountCents: intOr(args.DiscountCents, 0),
				})
				if err != nil {
					return nil, err
				}
				return gin.H{"order": order}, nil
			},
		},
		{
			Name:        "orders.add_item",
			Description: "Add an item to an existing order and recompute its totals.",
			Args: []ArgSpec{
				{Name: "order_id", Type: "string", Required: true},
				{Name: "menu_item_id", Type: "string", Required: true},
				{Name: "quantity", Type: "integer", Default: 1},
				{Name: "special_requests", Type: "string"},
			},
			invoke: func(ctx context.Context, raw json.RawMessage) (gin.H, error) {
				var args addOrderItemArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				order, err := orders.AddItem(ctx, services.AddOrderItemParams{
					OrderID:         args.OrderID,
					MenuItemID:      args.MenuItemID,
					Quantity:        int(intOr(args.Quantity, 1)),
					SpecialRequests: args.SpecialRequests,
				})
				if err != nil {
					return nil, err
				}
				return gin.H{"order": order}, nil
			},
		},
		{
			Name:        "orders.set_status",
			Description: "Set the status of an order.",
			Args: []ArgSpec{
				{Name: "order_id", Type: "string", Required: true},
				{Name: "status", Type: "string", Required: true, Description: "one of: " + strings.Join(statusNames(), ", ")},
			},
			invoke: func(ctx context.Context, raw json.RawMessage) (gin.H, error) {
				var args setOrderStatusArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				order, err := orders.SetStatus(ctx, args.OrderID, args.Status)
				if err != nil {
					return nil, err
				}
				return gin.H{"order": order}, nil
			},
		},
		{
			Name:        "orders.get",
			Description: "Get an order with its items by id.",
			Args: []ArgSpec{
				{Name: "id", Type: "string", Required: true, Description: "order id"},
			},
			invoke: func(ctx context.Context, raw json.RawMessage) (gin.H, error) {
				var args idArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				order, err := orders.Get(ctx, args.ID)
				if err != nil {
					return nil, err
				}
				return gin.H{"order": order}, nil
			},
		},
		{
			Name:        "orders.list",
			Description: "List recent orders, newest first. Optional filters: customer_id, status, limit (default 50).",
			Args: []ArgSpec{
				{Name: "customer_id", Type: "string"},
				{Name: "status", Type: "string"},
				{Name: "limit", Type: "integer", Default: services.DefaultOrderListLimit},
			},
			invoke: func(ctx context.Context, raw json.RawMessage) (gin.H, error) {
				var args listOrdersArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				list, err := orders.List(ctx, services.ListOrdersParams{
					CustomerID: stringOr(args.CustomerID, ""),
					Status:     stringOr(args.Status, ""),
					Limit:      int(intOr(args.Limit, services.DefaultOrderListLimit)),
				})
				if err != nil {
					return nil, err
				}
				return gin.H{"orders": list}, nil
			},
		},
	}
}
