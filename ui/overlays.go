package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies a toggleable display layer.
type OverlayID string

// Display layers.
const (
	OverlayContacts  OverlayID = "contacts"
	OverlayJoints    OverlayID = "joints"
	OverlaySettings  OverlayID = "settings"
	OverlayInspector OverlayID = "inspector"
	OverlayPerf      OverlayID = "perf"
)

// OverlayDescriptor defines a layer that can be toggled.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32 // 0 = no key
	KeyLabel  string
	Category  string
	Exclusive []OverlayID // Layers to disable when this one is enabled
	Default   bool
}

// OverlayRegistry manages layer state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the sandbox layers.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:       OverlayContacts,
		Name:     "Contacts",
		Key:      rl.KeyC,
		KeyLabel: "C",
		Category: "world",
		Default:  true,
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayJoints,
		Name:     "Joints",
		Key:      rl.KeyJ,
		KeyLabel: "J",
		Category: "world",
		Default:  true,
	})
	r.Register(OverlayDescriptor{
		ID:       OverlaySettings,
		Name:     "Settings",
		Key:      rl.KeyTab,
		KeyLabel: "Tab",
		Category: "panels",
		Default:  true,
	})
	r.Register(OverlayDescriptor{
		ID:        OverlayInspector,
		Name:      "Inspector",
		Key:       rl.KeyI,
		KeyLabel:  "I",
		Category:  "panels",
		Exclusive: []OverlayID{OverlayPerf},
	})
	r.Register(OverlayDescriptor{
		ID:        OverlayPerf,
		Name:      "Frame timings",
		Key:       rl.KeyF3,
		KeyLabel:  "F3",
		Category:  "panels",
		Exclusive: []OverlayID{OverlayInspector},
	})
}

// Register adds a layer to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches a layer on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets a layer's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether a layer is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered layers in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeyPress toggles the layer bound to key.
// Returns the layer ID, its new state and whether a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// Keys returns every bound toggle key.
func (r *OverlayRegistry) Keys() []int32 {
	var keys []int32
	for _, desc := range r.descriptors {
		if desc.Key != 0 {
			keys = append(keys, desc.Key)
		}
	}
	return keys
}
