package domain

// Document is a retrieved passage as returned by the graph backend.
type Document struct {
	ID          *string        `json:"id"`
	PageContent string         `json:"page_content"`
	Metadata    map[string]any `json:"metadata"`
	Type        string         `json:"type,omitempty"`
}

type QueryRequest struct {
	Question  string `json:"question"`
	Retriever string `json:"retriever,omitempty"`
	ThreadID  string `json:"thread_id,omitempty"`
}

type QueryResponse struct {
	Answer    string     `json:"answer"`
	Contexts  []Document `json:"contexts"`
	Strategy  string     `json:"strategy"`
	Manifests []string   `json:"manifests"`
	ThreadID  string     `json:"thread_id"`
}
