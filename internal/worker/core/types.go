package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var ErrUnknownNodeType = errors.New("unknown node type")

// ExecutionContext contains all data needed for node execution
type ExecutionContext struct {
	ExecutionID uuid.UUID
	NodeID      string
	Input       map[string]interface{}
	Config      map[string]interface{}
}

// NewExecutionContext builds a context with a fresh execution id.
func NewExecutionContext(nodeID string, config, input map[string]interface{}) *ExecutionContext {
	if config == nil {
		config = make(map[string]interface{})
	}
	if input == nil {
		input = make(map[string]interface{})
	}
	return &ExecutionContext{
		ExecutionID: uuid.New(),
		NodeID:      nodeID,
		Input:       input,
		Config:      config,
	}
}

// Node is the interface all nodes must implement
type Node interface {
	Type() string
	Execute(ctx context.Context, execCtx *ExecutionContext) (map[string]interface{}, error)
}

// Port declares a named input or output of a node.
type Port struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Required    bool        `json:"required"`
	Default     interface{} `json:"default,omitempty"`
	Dynamic     bool        `json:"dynamic,omitempty"`
}

// NodeMeta contains metadata about a node for UI and discovery
type NodeMeta struct {
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Icon        string   `json:"icon"`
	Version     string   `json:"version"`
	Tags        []string `json:"tags,omitempty"`
	Inputs      []Port   `json:"inputs,omitempty"`
	Outputs     []Port   `json:"outputs,omitempty"`
}

// Global registry
var (
	globalRegistry = &Registry{
		nodes: make(map[string]Node),
		meta:  make(map[string]NodeMeta),
	}
	registryMu sync.RWMutex
)

// Registry holds all registered nodes
type Registry struct {
	nodes map[string]Node
	meta  map[string]NodeMeta
}

// Register adds a node to the global registry (called from init())
func Register(node Node, meta ...NodeMeta) {
	registryMu.Lock()
	defer registryMu.Unlock()

	nodeType := node.Type()
	globalRegistry.nodes[nodeType] = node

	if len(meta) > 0 {
		m := meta[0]
		m.Type = nodeType
		if m.Name == "" {
			m.Name = nodeType
		}
		if m.Category == "" {
			m.Category = getCategoryFromType(nodeType)
		}
		globalRegistry.meta[nodeType] = m
	} else {
		globalRegistry.meta[nodeType] = NodeMeta{
			Type:     nodeType,
			Name:     nodeType,
			Category: getCategoryFromType(nodeType),
		}
	}
}

// Get returns a node by type from global registry
func Get(nodeType string) Node {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return globalRegistry.nodes[nodeType]
}

// GetMeta returns metadata for a node type
func GetMeta(nodeType string) (NodeMeta, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	meta, ok := globalRegistry.meta[nodeType]
	return meta, ok
}

// Execute runs a registered node.
func Execute(ctx context.Context, nodeType string, execCtx *ExecutionContext) (map[string]interface{}, error) {
	node := Get(nodeType)
	if node == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNodeType, nodeType)
	}
	return node.Execute(ctx, execCtx)
}

// List returns all registered node types, sorted
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	types := make([]string, 0, len(globalRegistry.nodes))
	for t := range globalRegistry.nodes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// ListByCategory returns nodes filtered by category
func ListByCategory(category string) []NodeMeta {
	registryMu.RLock()
	defer registryMu.RUnlock()

	var result []NodeMeta
	for _, meta := range globalRegistry.meta {
		if meta.Category == category {
			result = append(result, meta)
		}
	}
	sortMeta(result)
	return result
}

// ListAll returns all node metadata
func ListAll() []NodeMeta {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]NodeMeta, 0, len(globalRegistry.meta))
	for _, meta := range globalRegistry.meta {
		result = append(result, meta)
	}
	sortMeta(result)
	return result
}

// Categories returns the distinct categories with their node counts.
func Categories() map[string]int {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make(map[string]int)
	for _, meta := range globalRegistry.meta {
		result[meta.Category]++
	}
	return result
}

// Count returns total number of registered nodes
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(globalRegistry.nodes)
}

func sortMeta(metas []NodeMeta) {
	sort.Slice(metas, func(i, j int) bool { return metas[i].Type < metas[j].Type })
}

// getCategoryFromType extracts category from node type string
func getCategoryFromType(nodeType string) string {
	for i, c := range nodeType {
		if c == '.' {
			return nodeType[:i]
		}
	}
	return "other"
}
