package store

import (
	"context"

	"github.com/seckatie/linklift/internal/core/domain"
)

const (
	msgLoadGraph   = "Failed to load graph data."
	msgLoadRelated = "Failed to load related links."
)

// GraphState is the related-links graph as currently explored.
type GraphState struct {
	Data      domain.GraphData
	IsLoading bool
	Err       error
	Message   string
}

// Graph returns a copy of the graph slice.
func (s *Store) Graph() GraphState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graphSnapshotLocked()
}

func (s *Store) graphSnapshotLocked() GraphState {
	st := s.graph
	st.Data.Nodes = append([]domain.GraphNode(nil), s.graph.Data.Nodes...)
	st.Data.Edges = append([]domain.GraphEdge(nil), s.graph.Data.Edges...)
	return st
}

func (s *Store) updateGraph(fn func(*GraphState)) {
	s.mu.Lock()
	fn(&s.graph)
	st := s.graphSnapshotLocked()
	s.mu.Unlock()
	s.emit(GraphChangedEvent{State: st})
}

// FetchGraph replaces the graph with the backend's full graph.
func (s *Store) FetchGraph(ctx context.Context) error {
	s.updateGraph(func(st *GraphState) {
		st.IsLoading = true
		st.Err = nil
		st.Message = ""
	})

	data, err := s.uc.GetGraph.Execute(ctx)
	if err != nil {
		s.log.WithError(err).Error("failed to fetch graph")
		s.updateGraph(func(st *GraphState) {
			st.IsLoading = false
			st.Err = err
			st.Message = msgLoadGraph
		})
		return err
	}

	s.updateGraph(func(st *GraphState) {
		st.IsLoading = false
		st.Data = mergeGraph(domain.GraphData{}, data.Nodes, data.Edges)
	})
	return nil
}

// ExpandNode merges the links related to linkID into the graph and returns
// them.
func (s *Store) ExpandNode(ctx context.Context, linkID string) ([]domain.Link, error) {
	s.updateGraph(func(st *GraphState) {
		st.IsLoading = true
		st.Err = nil
		st.Message = ""
	})

	related, err := s.uc.GetRelatedLinks.Execute(ctx, linkID)
	if err != nil {
		s.log.WithError(err).WithField("link_id", linkID).Error("failed to fetch related links")
		s.updateGraph(func(st *GraphState) {
			st.IsLoading = false
			st.Err = err
			st.Message = msgLoadRelated
		})
		return nil, err
	}

	nodes := make([]domain.GraphNode, 0, len(related))
	edges := make([]domain.GraphEdge, 0, len(related))
	for _, l := range related {
		nodes = append(nodes, domain.GraphNode{ID: l.ID, Label: l.Title, URL: l.URL})
		edges = append(edges, domain.GraphEdge{Source: linkID, Target: l.ID})
	}

	s.updateGraph(func(st *GraphState) {
		st.IsLoading = false
		st.Data = mergeGraph(st.Data, nodes, edges)
	})
	return related, nil
}

// mergeGraph adds nodes and edges to g, skipping nodes whose id and edges
// whose source-target pair are already present.
func mergeGraph(g domain.GraphData, nodes []domain.GraphNode, edges []domain.GraphEdge) domain.GraphData {
	seenNodes := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		seenNodes[n.ID] = true
	}
	seenEdges := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		seenEdges[e.EdgeKey()] = true
	}

	out := domain.GraphData{
		Nodes: append([]domain.GraphNode{}, g.Nodes...),
		Edges: append([]domain.GraphEdge{}, g.Edges...),
	}
	for _, n := range nodes {
		if !seenNodes[n.ID] {
			seenNodes[n.ID] = true
			out.Nodes = append(out.Nodes, n)
		}
	}
	for _, e := range edges {
		if !seenEdges[e.EdgeKey()] {
			seenEdges[e.EdgeKey()] = true
			out.Edges = append(out.Edges, e)
		}
	}
	return out
}
