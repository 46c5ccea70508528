package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/urmzd/singingbell/pkg/controller"
	"github.com/urmzd/singingbell/pkg/device"
	"github.com/urmzd/singingbell/pkg/service"
)

func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reply, errResult := s.submit(ctx, controller.KindStatus, nil)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(formatJSON(SnapshotToOutput(reply.State))), nil
}

func (s *Server) handleChime(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := url.Values{}
	for _, key := range []string{"type", "action"} {
		v, err := requiredString(request, key)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		params.Set(key, v)
	}

	reply, errResult := s.submit(ctx, controller.KindChime, params)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(formatJSON(SnapshotToOutput(reply.State))), nil
}

func (s *Server) handleCalibrate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := url.Values{}
	if v, ok := optionalNumber(request, "angle"); ok {
		params.Set("angle", v)
	}

	reply, errResult := s.submit(ctx, controller.KindCalibrate, params)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(formatJSON(SnapshotToOutput(reply.State))), nil
}

func (s *Server) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := url.Values{}
	if v, ok := optionalNumber(request, "limit"); ok {
		params.Set("limit", v)
	}

	reply, errResult := s.submit(ctx, controller.KindHistory, params)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(formatJSON(EventsToOutput(reply.Events))), nil
}

// submit queues the request and converts a failure into a tool error result.
func (s *Server) submit(ctx context.Context, kind controller.Kind, params url.Values) (controller.Reply, *mcp.CallToolResult) {
	reply, err := s.submitter.Submit(ctx, controller.Request{
		Kind:   kind,
		Params: params,
		Source: device.SourceMCP,
	})
	if err == nil {
		return reply, nil
	}

	switch {
	case errors.Is(err, controller.ErrRejected):
		return reply, mcp.NewToolResultError("request rejected")
	case errors.Is(err, service.ErrBusy):
		return reply, mcp.NewToolResultError("bell is busy, try again shortly")
	case errors.Is(err, service.ErrUnavailable):
		return reply, mcp.NewToolResultError("bell is shutting down")
	default:
		return reply, mcp.NewToolResultError(fmt.Sprintf("%s failed: %s", kind, err))
	}
}

// --- helpers ---

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

// optionalNumber returns a numeric or string argument in query parameter form.
func optionalNumber(request mcp.CallToolRequest, key string) (string, bool) {
	switch v := request.GetArguments()[key].(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case string:
		return v, v != ""
	default:
		return "", false
	}
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
