package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urmzd/singingbell/pkg/controller"
	"github.com/urmzd/singingbell/pkg/device"
	"github.com/urmzd/singingbell/pkg/service"
)

type fakeSubmitter struct {
	last  controller.Request
	reply controller.Reply
	err   error
}

func (f *fakeSubmitter) Submit(_ context.Context, req controller.Request) (controller.Reply, error) {
	f.last = req
	return f.reply, f.err
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestChimeTool(t *testing.T) {
	sub := &fakeSubmitter{reply: controller.Reply{State: device.Snapshot{Mode: device.ModeMeditate, Action: device.ActionStart, Status: device.StatusChiming}}}
	s := NewServer(sub)

	res, err := s.handleChime(context.Background(), call(map[string]any{"type": "meditate", "action": "start"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var out StatusOutput
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.Equal(t, StatusOutput{Type: "meditate", Action: "start", Status: "chiming"}, out)
	assert.Equal(t, controller.KindChime, sub.last.Kind)
	assert.Equal(t, device.SourceMCP, sub.last.Source)
	assert.Equal(t, "meditate", sub.last.Params.Get("type"))
}

func TestChimeTool_MissingArgument(t *testing.T) {
	sub := &fakeSubmitter{}
	s := NewServer(sub)

	res, err := s.handleChime(context.Background(), call(map[string]any{"type": "alarm"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Empty(t, sub.last.Kind)
}

func TestChimeTool_Rejected(t *testing.T) {
	sub := &fakeSubmitter{err: fmt.Errorf("type %q: %w", "gong", controller.ErrRejected)}
	s := NewServer(sub)

	res, err := s.handleChime(context.Background(), call(map[string]any{"type": "gong", "action": "start"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, "request rejected", text(t, res))
}

func TestCalibrateTool_Angle(t *testing.T) {
	sub := &fakeSubmitter{reply: controller.Reply{State: controller.CalibrateReply}}
	s := NewServer(sub)

	res, err := s.handleCalibrate(context.Background(), call(map[string]any{"angle": float64(90)}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "90", sub.last.Params.Get("angle"))

	_, err = s.handleCalibrate(context.Background(), call(nil))
	require.NoError(t, err)
	assert.False(t, sub.last.Params.Has("angle"))
}

func TestGetStatusTool_Busy(t *testing.T) {
	s := NewServer(&fakeSubmitter{err: service.ErrBusy})

	res, err := s.handleGetStatus(context.Background(), call(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "busy")
}

func TestGetHistoryTool(t *testing.T) {
	at := time.Date(2026, 3, 1, 7, 0, 0, 0, time.UTC)
	sub := &fakeSubmitter{reply: controller.Reply{Events: []device.Event{{
		ID: 3,
		Transition: device.Transition{
			Snapshot:  device.Snapshot{Mode: device.ModeAlarm, Action: device.ActionStop, Status: device.StatusIdle},
			Source:    device.SourceChime,
			Timestamp: at,
		},
	}}}}
	s := NewServer(sub)

	res, err := s.handleGetHistory(context.Background(), call(map[string]any{"limit": float64(5)}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, "5", sub.last.Params.Get("limit"))

	var out HistoryOutput
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "chime", out.Events[0].Source)
	assert.Equal(t, "2026-03-01T07:00:00.000Z", out.Events[0].Timestamp)
}

func TestHandler(t *testing.T) {
	s := NewServer(&fakeSubmitter{})
	assert.NotNil(t, s.Handler())
}
