package domain

// SearchHit is one matching line inside a lesson body.
type SearchHit struct {
	Path    string `json:"path"`
	Number  int    `json:"number,omitempty"`
	Title   string `json:"title,omitempty"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
}
