package mhihvac

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// The controller only serves floor 1 on this endpoint.
const groupDataRequest = `={"GetReqGroupData":{"FloorNo":["1"]}}`

type groupListResponse struct {
	GetResGroupData struct {
		FloorData []floorData `json:"FloorData"`
	} `json:"GetResGroupData"`
}

type floorData struct {
	FloorNo   string         `json:"FloorNo"`
	GroupData map[string]any `json:"GroupData"`
}

// RawGroupData fetches the current group data. A missing session triggers
// a bootstrap login first; an expired one is handled by the retry wrapper.
func (c *Client) RawGroupData(ctx context.Context) (map[string]any, error) {
	return withReauth(ctx, c, c.rawGroupData)
}

func (c *Client) rawGroupData(ctx context.Context) (map[string]any, error) {
	if c.httpClient == nil {
		return nil, ErrSessionNotInitialized
	}
	if c.cookie == "" {
		cookie, err := c.login(ctx)
		if err != nil {
			return nil, err
		}
		c.cookie = cookie
	}

	_, body, err := c.post(ctx, groupDataRequest)
	if err != nil {
		c.logger.Error("error fetching group data", zap.Error(err))
		return nil, err
	}

	data := groupListResponse{}
	if err := json.Unmarshal(body, &data); err != nil {
		c.logger.Error("error decoding group data", zap.Error(err))
		return nil, err
	}
	if len(data.GetResGroupData.FloorData) == 0 {
		return map[string]any{}, nil
	}
	floor := data.GetResGroupData.FloorData[0]
	// A floor number of "-1" is the controller's way of rejecting the
	// presented cookie on this endpoint.
	if floor.FloorNo == "-1" {
		return nil, errSessionExpired
	}
	if floor.GroupData == nil {
		return map[string]any{}, nil
	}
	return floor.GroupData, nil
}
