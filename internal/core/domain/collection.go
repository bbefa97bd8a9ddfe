package domain

// Collection is a named, user-defined grouping of links. Membership is managed
// through add/remove calls and is not embedded in Link.
type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Query       string `json:"query,omitempty"`
}

// CollectionWithLinks is a collection together with its member links.
type CollectionWithLinks struct {
	Collection Collection `json:"collection"`
	Links      []Link     `json:"links"`
}

// NewCollection is the payload for creating a collection.
type NewCollection struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Query       string `json:"query,omitempty"`
}
