package cmd

import (
	"context"
)

// HvacService defines the interface that cmd.run expects from the HVAC
// client.
type HvacService interface {
	RawGroupData(ctx context.Context) (map[string]any, error)
	SetGroupProperty(ctx context.Context, groupNo string, properties map[string]any) (map[string]any, error)
	SetAllProperty(ctx context.Context, properties map[string]any) (map[string]any, error)
}
