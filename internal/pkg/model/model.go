package model

import "time"

// Group is a single HVAC group (an indoor-unit cluster) as exposed by the
// controller's group list.
type Group struct {
	ID   string
	Name string
}

// GroupState is one flattened reading from a group-data snapshot.
type GroupState struct {
	Identifier string    `json:"identifier"`
	Slug       string    `json:"slug"`
	Value      string    `json:"value"`
	Timestamp  time.Time `json:"timestamp"`
}
