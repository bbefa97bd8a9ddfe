package domain

// GraphNode is a link rendered as a node of the related-links graph.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// GraphEdge connects two links by id.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GraphData is the related-links graph.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// EdgeKey identifies an edge for de-duplication.
func (e GraphEdge) EdgeKey() string {
	return e.Source + "-" + e.Target
}
