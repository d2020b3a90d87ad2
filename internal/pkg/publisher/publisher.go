package publisher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/anicoll/mhihvac-integration/internal/pkg/model"
	"github.com/gosimple/slug"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

var errAlreadyRegistered = errors.New("publisher already registered")

var (
	registeredPublishers = make(map[string]publisher)
	sensors              sync.Map
)

type publisher interface {
	// Write publishes the flattened group states to the adapter.
	Write(ctx context.Context, states []model.GroupState) error
	RegisterGroup(group *model.Group) error
}

func RegisterPublisher(name string, publisher publisher) error {
	if _, ok := registeredPublishers[name]; ok {
		return errAlreadyRegistered
	}
	registeredPublishers[name] = publisher
	return nil
}

// PublishSnapshot flattens a raw group-data snapshot and fans it out to
// every registered adapter. Values unchanged since the previous snapshot
// are skipped.
func PublishSnapshot(ctx context.Context, snapshot map[string]any) error {
	states := Flatten(snapshot)
	count := 0
	changed := make([]model.GroupState, 0, len(states))
	for _, state := range states {
		if !shouldUpdate(state.Identifier, state.Slug, state.Value) {
			continue
		}
		count++
		changed = append(changed, state)
	}
	if len(changed) == 0 {
		return nil
	}
	for name, publisher := range registeredPublishers {
		if err := publisher.Write(ctx, changed); err != nil {
			zap.L().Error("failed to publish states", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("updated sensors", zap.Int("count", count), zap.String("publisher", name))
	}
	return nil
}

func RegisterGroup(group *model.Group) error {
	for name, publisher := range registeredPublishers {
		if err := publisher.RegisterGroup(group); err != nil {
			zap.L().Error("failed to register group", zap.Error(err), zap.String("publisher", name))
			continue
		}
		zap.L().Debug("registered group", zap.String("group", group.ID), zap.String("publisher", name))
	}
	return nil
}

// Flatten turns the controller's opaque snapshot into per-group records.
// Nested maps become one record per field; scalar entries become a single
// "state" record. Output order is deterministic.
func Flatten(snapshot map[string]any) []model.GroupState {
	now := time.Now()
	states := make([]model.GroupState, 0, len(snapshot))

	groupKeys := lo.Keys(snapshot)
	sort.Strings(groupKeys)
	for _, groupKey := range groupKeys {
		identifier := slug.Make(groupKey)
		switch value := snapshot[groupKey].(type) {
		case map[string]any:
			fieldKeys := lo.Keys(value)
			sort.Strings(fieldKeys)
			for _, fieldKey := range fieldKeys {
				states = append(states, model.GroupState{
					Identifier: identifier,
					Slug:       slug.Make(fieldKey),
					Value:      formatValue(value[fieldKey]),
					Timestamp:  now,
				})
			}
		default:
			states = append(states, model.GroupState{
				Identifier: identifier,
				Slug:       "state",
				Value:      formatValue(value),
				Timestamp:  now,
			})
		}
	}
	return states
}

func formatValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return fmt.Sprintf("%g", typed)
	case bool:
		return fmt.Sprintf("%t", typed)
	default:
		return fmt.Sprintf("%v", typed)
	}
}

func shouldUpdate(identifier, sensorSlug, newValue string) bool {
	key := fmt.Sprintf("%s_%s", identifier, sensorSlug)
	oldValue, exists := sensors.Load(key)
	if exists && oldValue.(string) == newValue {
		return false
	}
	if !exists {
		zap.L().Info("configured sensor", zap.String("group", identifier), zap.String("sensor", sensorSlug), zap.String("value", newValue))
	}
	sensors.Store(key, newValue)
	return true
}
