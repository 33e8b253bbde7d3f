package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/yeremiapane/pizzagpt/services"
	"github.com/yeremiapane/pizzagpt/utils"
)

// ArgSpec describes one named argument of a tool for discovery.
type ArgSpec struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Tool is one named operation the agent can call.
type Tool struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Args        []ArgSpec `json:"args"`

	invoke func(ctx context.Context, args json.RawMessage) (gin.H, error)
}

type ToolController struct {
	tools map[string]*Tool
	names []string
}

func NewToolController(menu *services.MenuService, customers *services.CustomerService, orders *services.OrderService) *ToolController {
	tc := &ToolController{tools: make(map[string]*Tool)}
	for _, t := range menuTools(menu) {
		tc.register(t)
	}
	for _, t := range customerTools(customers) {
		tc.register(t)
	}
	for _, t := range orderTools(orders) {
		tc.register(t)
	}
	return tc
}

func (tc *ToolController) register(t *Tool) {
	if _, dup := tc.tools[t.Name]; dup {
		panic("duplicate tool " + t.Name)
	}
	tc.tools[t.Name] = t
	tc.names = append(tc.names, t.Name)
}

// Tools returns the registered tools in registration order.
func (tc *ToolController) Tools() []*Tool {
	out := make([]*Tool, 0, len(tc.names))
	for _, name := range tc.names {
		out = append(out, tc.tools[name])
	}
	return out
}

// Invoke runs a tool by name. Expected failures come back as errors matching
// services.ErrInvalidArgument or services.ErrNotFound.
func (tc *ToolController) Invoke(ctx context.Context, name string, args json.RawMessage) (gin.H, error) {
	t, ok := tc.tools[name]
	if !ok {
		return nil, errUnknownTool(name)
	}
	return t.invoke(ctx, args)
}

// ListTools -> GET /tools, operation name mapped to its description
func (tc *ToolController) ListTools(c *gin.Context) {
	out := make(map[string]string, len(tc.tools))
	for name, t := range tc.tools {
		out[name] = t.Description
	}
	c.JSON(http.StatusOK, out)
}

// ToolSchemas -> GET /tools/schema
func (tc *ToolController) ToolSchemas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": tc.Tools()})
}

// InvokeTool -> POST /tools/:name with a JSON object of arguments
func (tc *ToolController) InvokeTool(c *gin.Context) {
	name := c.Param("name")
	if _, ok := tc.tools[name]; !ok {
		utils.RespondFailure(c, http.StatusNotFound, utils.CodeNotFound, errUnknownTool(name))
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		utils.RespondFailure(c, http.StatusBadRequest, utils.CodeInvalidArgument, fmt.Errorf("failed to read request body: %w", err))
		return
	}

	payload, err := tc.Invoke(c.Request.Context(), name, body)
	switch {
	case err == nil:
		utils.RespondOK(c, http.StatusOK, payload)
	case errors.Is(err, services.ErrInvalidArgument):
		utils.InfoLogger.Printf("Tool %s rejected: %v", name, err)
		utils.RespondFailure(c, http.StatusOK, utils.CodeInvalidArgument, err)
	case errors.Is(err, services.ErrNotFound):
		utils.InfoLogger.Printf("Tool %s: %v", name, err)
		utils.RespondFailure(c, http.StatusOK, utils.CodeNotFound, err)
	default:
		utils.ErrorLogger.Printf("Tool %s failed: %v", name, err)
		utils.RespondFailure(c, http.StatusInternalServerError, utils.CodeInternal, errors.New("internal error"))
	}
}

func errUnknownTool(name string) error {
	return &services.OpError{Kind: services.ErrNotFound, Msg: fmt.Sprintf("unknown tool: %s", name)}
}

// decodeArgs unmarshals the argument object into dst. An empty body is
// treated as {}.
func decodeArgs(raw json.RawMessage, dst interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] != '{' {
		return &services.OpError{Kind: services.ErrInvalidArgument, Msg: "arguments must be a JSON object"}
	}
	if err := binding.JSON.BindBody(raw, dst); err != nil {
		return &services.OpError{Kind: services.ErrInvalidArgument, Msg: fmt.Sprintf("malformed arguments: %v", err)}
	}
	return nil
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = flexInt(n)
		return nil
	}
	fl, err := strconv.ParseFloat(s, 64)
	if err != nil || fl != float64(int64(fl)) {
		return fmt.Errorf("%s is not an integer", string(b))
	}
	*f = flexInt(int64(fl))
	return nil
}

// flexBool accepts true/false as JSON booleans or strings.
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("%s is not a boolean", string(b))
	}
	*f = flexBool(v)
	return nil
}

func intOr(v *flexInt, def int64) int64 {
	if v == nil {
		return def
	}
	return int64(*v)
}

func boolOr(v *flexBool, def bool) bool {
	if v == nil {
		return def
	}
	return bool(*v)
}

func stringOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return *v
}
