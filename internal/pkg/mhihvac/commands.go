package mhihvac

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// SetGroupProperty changes properties on a single group. GroupNo is
// defaulted to the given group if the caller did not set it.
func (c *Client) SetGroupProperty(ctx context.Context, groupNo string, properties map[string]any) (map[string]any, error) {
	payload := make(map[string]any, len(properties)+1)
	for k, v := range properties {
		payload[k] = v
	}
	if _, ok := payload["GroupNo"]; !ok {
		payload["GroupNo"] = groupNo
	}
	return c.sendCommand(ctx, map[string]any{"SetReqChangeGroup": payload})
}

// SetAllProperty changes properties on every group at once.
func (c *Client) SetAllProperty(ctx context.Context, properties map[string]any) (map[string]any, error) {
	payload := make(map[string]any, len(properties))
	for k, v := range properties {
		payload[k] = v
	}
	return c.sendCommand(ctx, map[string]any{"SetReqChangeAll": payload})
}

func (c *Client) sendCommand(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return withReauth(ctx, c, func(ctx context.Context) (map[string]any, error) {
		return c.sendCommandOnce(ctx, payload)
	})
}

func (c *Client) sendCommandOnce(ctx context.Context, payload map[string]any) (map[string]any, error) {
	if c.httpClient == nil {
		return nil, ErrSessionNotInitialized
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	// The endpoint expects value-only form data.
	data := "=" + string(encoded)

	c.logger.Debug("sending command", zap.String("data", data))
	status, body, err := c.post(ctx, data)
	if err != nil {
		c.logger.Error("command failed", zap.Error(err))
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APICallFailedError{Status: status}
	}
	// An empty body is the expiry sentinel on the command path.
	if strings.TrimSpace(string(body)) == "" {
		return nil, errSessionExpired
	}

	result := map[string]any{}
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("error decoding command response", zap.Error(err))
		return nil, err
	}
	return result, nil
}
