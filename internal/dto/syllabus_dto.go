package dto

type AnalyzeSyllabusResponse struct {
	Analysis string `json:"analysis"` // markdown
}
