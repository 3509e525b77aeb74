package dto

// Formula responses
type EvaluationResponse struct {
	Formula    string   `json:"formula"`
	Result     float64  `json:"result"`
	Variables  []string `json:"variables"`
	Cached     bool     `json:"cached"`
	DurationMs float64  `json:"duration_ms"`
}

type TokenizeResponse struct {
	Formula   string   `json:"formula"`
	Tokens    []string `json:"tokens"`
	Postfix   []string `json:"postfix"`
	Variables []string `json:"variables"`
}

type FunctionResponse struct {
	Name     string `json:"name"`
	Arity    int    `json:"arity"`
	Constant bool   `json:"constant"`
	Usage    string `json:"usage"`
}

type FormulaResponse struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Description     *string                `json:"description,omitempty"`
	Expression      string                 `json:"expression"`
	Variables       []string               `json:"variables"`
	Defaults        map[string]interface{} `json:"defaults"`
	EvaluationCount int                    `json:"evaluation_count"`
	LastEvaluatedAt *int64                 `json:"last_evaluated_at,omitempty"`
	CreatedAt       int64                  `json:"created_at"`
	UpdatedAt       int64                  `json:"updated_at"`
}
