package core

import (
	"fmt"
	"sync"
)

var (
	registry      = make(map[string]ColumnDefinition)
	registryOrder []string
	registryMu    sync.RWMutex
)

// Register adds a column definition to the registry.
// Registration order is the static column order used for display.
// Panics if the key is empty or already registered.
func Register(def ColumnDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if def.Key == "" {
		panic("column definition without key")
	}
	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("column already registered: %s", def.Key))
	}
	if def.Group == "" {
		def.Group = GroupGeneral
	}
	if def.Label == "" {
		def.Label = def.Key
	}

	registry[def.Key] = def
	registryOrder = append(registryOrder, def.Key)
}

// Get returns a column definition by key.
// Returns false if not found.
func Get(key string) (ColumnDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered column definitions in registration order.
func All() []ColumnDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]ColumnDefinition, 0, len(registryOrder))
	for _, key := range registryOrder {
		result = append(result, registry[key])
	}
	return result
}

// ByGroup returns the column definitions of one group in registration order.
func ByGroup(group ColumnGroup) []ColumnDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []ColumnDefinition
	for _, key := range registryOrder {
		if def := registry[key]; def.Group == group {
			result = append(result, def)
		}
	}
	return result
}

// Keys returns all registered keys in registration order.
func Keys() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	keys := make([]string, len(registryOrder))
	copy(keys, registryOrder)
	return keys
}

// CourseKeys returns the keys of the per-course semester columns.
func CourseKeys() []string {
	defs := ByGroup(GroupCourse)
	keys := make([]string, len(defs))
	for i, def := range defs {
		keys[i] = def.Key
	}
	return keys
}

// CenterAligned returns the set of keys whose cells are centered in the source table.
func CenterAligned() map[string]bool {
	registryMu.RLock()
	defer registryMu.RUnlock()

	set := make(map[string]bool)
	for key, def := range registry {
		if def.CenterAligned {
			set[key] = true
		}
	}
	return set
}

// Accepts runs the classifier registered for key.
// Unknown keys and definitions without a classifier accept any value.
func Accepts(key, value string) bool {
	def, ok := Get(key)
	if !ok || def.Accepts == nil {
		return true
	}
	return def.Accepts(value)
}

// ColumnCount returns the number of registered columns.
func ColumnCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered columns.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]ColumnDefinition)
	registryOrder = nil
}
