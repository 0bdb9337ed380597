package models

// SearchQuery — параметры поискового запроса к провайдеру.
type SearchQuery struct {
	Provider string            `json:"provider"`
	Term     string            `json:"term"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Filters  map[string]string `json:"filters,omitempty"`
}

// SearchResult — ответ провайдера поиска, передаваемый интерфейсу как есть,
// с указанием породившего его запроса.
type SearchResult struct {
	Query   SearchQuery    `json:"query"`
	Total   int            `json:"total"`
	Results map[string]any `json:"results"`
}
