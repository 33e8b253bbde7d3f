package controllers

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/pizzagpt/services"
)

type findOrCreateCustomerArgs struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

func customerTools(customers *services.CustomerService) []*Tool {
	return []*Tool{
		{
			Name:        "customers.find_or_create",
			Description: "Find a customer by email, phone or name (first one given wins), creating one if nothing matches.",
			Args: []ArgSpec{
				{Name: "name", Type: "string"},
				{Name: "email", Type: "string"},
				{Name: "phone", Type: "string"},
			},
			invoke: func(ctx context.Context, raw json.RawMessage) (gin.H, error) {
				var args findOrCreateCustomerArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				customer, created, err := customers.FindOrCreate(ctx, services.FindOrCreateCustomerParams{
					Name:  stringOr(args.Name, ""),
					Email: stringOr(args.Email, ""),
					Phone: stringOr(args.Phone, ""),
				})
				if err != nil {
					return nil, err
				}
				return gin.H{"customer": customer, "created": created}, nil
			},
		},
		{
			Name:        "customers.get",
			Description: "Get a customer by id.",
			Args: []ArgSpec{
				{Name: "id", Type: "string", Required: true, Description: "customer id"},
			},
			invoke: func(ctx context.Context, raw json.RawMessage) (gin.H, error) {
				var args idArgs
				if err := decodeArgs(raw, &args); err != nil {
					return nil, err
				}
				customer, err := customers.Get(ctx, args.ID)
				if err != nil {
					return nil, err
				}
				return gin.H{"customer": customer}, nil
			},
		},
	}
}
