package figma

// File is the remote file model: a document tree plus a flat component
// index. Only the fields the pipeline reads are modeled.
type File struct {
	Name       string               `json:"name"`
	Document   Node                 `json:"document"`
	Components map[string]Component `json:"components"`
}

// Node is one node of the remote document tree. Top-level children of the
// document are pages (type CANVAS); each page maps to one brand.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Children []Node `json:"children,omitempty"`
}

// Component is one registered component in the file's component index,
// keyed by node id.
type Component struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// componentMeta is the shape returned by the components listing endpoint.
type componentMeta struct {
	Meta struct {
		Components []struct {
			NodeID      string `json:"node_id"`
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"components"`
	} `json:"meta"`
}

// imagesResponse is the shape returned by the export endpoint.
type imagesResponse struct {
	Err    string            `json:"err"`
	Images map[string]string `json:"images"`
}

// IconDescriptor is a design-tool-sourced icon reference: the right-hand
// side of every sync diff. Never persisted directly.
type IconDescriptor struct {
	Brand        string
	NodeID       string
	Name         string
	OriginalName string
	Description  string
}
