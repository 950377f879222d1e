package models

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Page is one window of the homes listing.
type Page struct {
	Results  []Home   `json:"results"`
	Previous *PageRef `json:"previous,omitempty"`
	Next     *PageRef `json:"next,omitempty"`
	Total    int64    `json:"total"`
}

type APIResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"home,omitempty"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
