package dto

// ChatRequest is a message to the help assistant.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ArticleResponse is a knowledge base entry.
type ArticleResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Difficulty  string `json:"difficulty"`
	ReadTime    string `json:"read_time"`
}

// DepartmentResponse lists a department and its offices.
type DepartmentResponse struct {
	Name    string   `json:"name"`
	Offices []string `json:"offices"`
}

// RouteResponse is a screen the caller may open.
type RouteResponse struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}
