package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/linkflow-ai/mathnodes/internal/api/dto"
	"github.com/linkflow-ai/mathnodes/internal/worker/core"
	"github.com/linkflow-ai/mathnodes/internal/worker/middleware"
)

type NodeTypeHandler struct {
	nodes *middleware.Chain
}

func NewNodeTypeHandler(nodes *middleware.Chain) *NodeTypeHandler {
	return &NodeTypeHandler{nodes: nodes}
}

// ListNodeTypes returns all registered node types, optionally by category
func (h *NodeTypeHandler) ListNodeTypes(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	var metas []core.NodeMeta
	if category != "" {
		metas = core.ListByCategory(category)
	} else {
		metas = core.ListAll()
	}
	if metas == nil {
		metas = []core.NodeMeta{}
	}

	dto.OK(w, metas)
}

// GetNodeType returns details for a specific node type
func (h *NodeTypeHandler) GetNodeType(w http.ResponseWriter, r *http.Request) {
	nodeType := chi.URLParam(r, "nodeType")

	meta, ok := core.GetMeta(nodeType)
	if !ok {
		dto.NotFound(w, "Node type")
		return
	}

	dto.OK(w, meta)
}

type categoryResponse struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// GetNodeCategories returns available node categories
func (h *NodeTypeHandler) GetNodeCategories(w http.ResponseWriter, r *http.Request) {
	counts := core.Categories()

	categories := make([]categoryResponse, 0, len(counts))
	for cat, count := range counts {
		categories = append(categories, categoryResponse{ID: cat, Count: count})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].ID < categories[j].ID
	})

	dto.OK(w, categories)
}

type testNodeRequest struct {
	Config map[string]interface{} `json:"config"`
	Input  map[string]interface{} `json:"input"`
}

// TestNode executes a single node with the given config and input.
func (h *NodeTypeHandler) TestNode(w http.ResponseWriter, r *http.Request) {
	nodeType := chi.URLParam(r, "nodeType")

	var req testNodeRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			dto.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	execCtx := core.NewExecutionContext("test", req.Config, req.Input)
	start := time.Now()
	output, err := h.nodes.Execute(r.Context(), nodeType, execCtx)
	duration := time.Since(start)

	if errors.Is(err, core.ErrUnknownNodeType) {
		dto.NotFound(w, "Node type")
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}

	dto.OK(w, map[string]interface{}{
		"execution_id": execCtx.ExecutionID.String(),
		"node_type":    nodeType,
		"output":       output,
		"duration_ms":  float64(duration.Microseconds()) / 1000,
	})
}
