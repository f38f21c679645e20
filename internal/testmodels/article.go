package testmodels

// Article is a host-side document type. It is stored through encoding/json,
// so unexported fields never reach the document.
type Article struct {
	Title   string         `json:"title"`
	Content string         `json:"content"`
	Status  string         `json:"status"`
	Items   []Item         `json:"items"`
	Meta    *Meta          `json:"meta,omitempty"`
	Counts  map[string]int `json:"counts,omitempty"`
	draft   string
}

type Item struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
}

type Meta struct {
	Author string `json:"author"`
}

// NewArticle creates an Article with the given unexported draft text.
func NewArticle(title, content, draft string) *Article {
	return &Article{
		Title:   title,
		Content: content,
		Status:  "draft",
		Items:   []Item{},
		draft:   draft,
	}
}

// Draft returns the unexported draft text.
func (a *Article) Draft() string {
	return a.draft
}
