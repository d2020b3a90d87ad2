package cmd

import (
	"context"
	"errors"
)

// MockHvacService is a mock implementation of the HvacService interface.
type MockHvacService struct {
	RawGroupDataFunc     func(ctx context.Context) (map[string]any, error)
	SetGroupPropertyFunc func(ctx context.Context, groupNo string, properties map[string]any) (map[string]any, error)
	SetAllPropertyFunc   func(ctx context.Context, properties map[string]any) (map[string]any, error)
}

func (m *MockHvacService) RawGroupData(ctx context.Context) (map[string]any, error) {
	if m.RawGroupDataFunc != nil {
		return m.RawGroupDataFunc(ctx)
	}
	return map[string]any{}, nil
}

func (m *MockHvacService) SetGroupProperty(ctx context.Context, groupNo string, properties map[string]any) (map[string]any, error) {
	if m.SetGroupPropertyFunc != nil {
		return m.SetGroupPropertyFunc(ctx, groupNo, properties)
	}
	return nil, errors.New("mocked SetGroupProperty not implemented")
}

func (m *MockHvacService) SetAllProperty(ctx context.Context, properties map[string]any) (map[string]any, error) {
	if m.SetAllPropertyFunc != nil {
		return m.SetAllPropertyFunc(ctx, properties)
	}
	return nil, errors.New("mocked SetAllProperty not implemented")
}
