package report

// Feature is one feature element of a cucumber json report
type Feature struct {
	URI         string    `json:"uri"`
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Line        int       `json:"line"`
	Tags        []Tag     `json:"tags,omitempty"`
	Elements    []Element `json:"elements,omitempty"`
}

// Element is a scenario
type Element struct {
	ID          string `json:"id"`
	Keyword     string `json:"keyword"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Line        int    `json:"line"`
	Type        string `json:"type"`
	Tags        []Tag  `json:"tags,omitempty"`
	Steps       []Step `json:"steps,omitempty"`
}

// Step is a step of an element
type Step struct {
	Keyword    string      `json:"keyword"`
	Name       string      `json:"name"`
	Line       int         `json:"line"`
	DocString  *DocString  `json:"doc_string,omitempty"`
	Rows       []Row       `json:"rows,omitempty"`
	Result     Result      `json:"result"`
	Embeddings []Embedding `json:"embeddings,omitempty"`
}

// Result is the outcome of a step. Duration is in nanoseconds.
type Result struct {
	Status   string `json:"status"`
	Duration *int64 `json:"duration,omitempty"`
	Error    string `json:"error_message,omitempty"`
}

// Embedding is a base64 attachment
type Embedding struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}

type Tag struct {
	Name string `json:"name"`
	Line int    `json:"line,omitempty"`
}

type DocString struct {
	Value       string `json:"value"`
	ContentType string `json:"content_type,omitempty"`
	Line        int    `json:"line"`
}

type Row struct {
	Cells []string `json:"cells"`
}
