package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anicoll/mhihvac-integration/internal/pkg/model"
)

var configuredGroups = make(map[string]struct{})

func (s *service) Write(ctx context.Context, states []model.GroupState) error {
	for _, state := range states {
		if err := s.PublishState(state); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) RegisterGroup(group *model.Group) error {
	if _, exists := configuredGroups[group.ID]; exists {
		return nil
	}
	registerMessage := defaultRegisterMsg(group)

	topic := fmt.Sprintf("homeassistant/sensor/hvac_%s/config", group.ID)

	payload, err := json.Marshal(registerMessage)
	if err != nil {
		return err
	}
	token := s.client.Publish(topic, 1, true, payload)
	if err := token.Error(); err != nil {
		return err
	}
	if res := token.WaitTimeout(time.Second * 5); res {
		configuredGroups[group.ID] = struct{}{}
		return nil
	}
	return nil
}

func (s *service) PublishState(state model.GroupState) error {
	topic := fmt.Sprintf("homeassistant/sensor/hvac_%s/%s/state", state.Identifier, state.Slug)

	publishData, err := json.Marshal(map[string]string{
		"value": state.Value,
	})
	if err != nil {
		return err
	}

	token := s.client.Publish(topic, 0, false, publishData)
	res := token.WaitTimeout(time.Second * 10)
	if res {
		return nil
	}
	if err := token.Error(); err != nil {
		return err
	}
	return nil
}

func defaultRegisterMsg(group *model.Group) model.RegisterMessage {
	name := fmt.Sprintf("HVAC %s", group.Name)
	slugIdentifier := fmt.Sprintf("hvac_%s", group.ID)

	return model.RegisterMessage{
		Tilda:      fmt.Sprintf("homeassistant/sensor/%s", slugIdentifier),
		Name:       name,
		ID:         strings.ToLower(slugIdentifier),
		StateTopic: "~/state",
		Device: model.RegisterDevice{
			Name:         name,
			Identifiers:  []string{slugIdentifier},
			Model:        "HVAC group",
			Manufacturer: "Mitsubishi Heavy Industries",
		},
	}
}
