package dto

// Formulas
type EvaluateRequest struct {
	Formula   string                 `json:"formula" validate:"required,max=4096"`
	Variables map[string]interface{} `json:"variables,omitempty" validate:"omitempty,dive,keys,varname,endkeys"`
}

type TokenizeRequest struct {
	Formula string `json:"formula" validate:"required,max=4096"`
}

type EvaluateSavedRequest struct {
	Variables map[string]interface{} `json:"variables,omitempty" validate:"omitempty,dive,keys,varname,endkeys"`
}

// Formula library
type CreateFormulaRequest struct {
	Name        string                 `json:"name" validate:"required,min=1,max=255"`
	Description *string                `json:"description,omitempty" validate:"omitempty,max=2000"`
	Expression  string                 `json:"expression" validate:"required,max=4096,formula"`
	Defaults    map[string]interface{} `json:"defaults,omitempty" validate:"omitempty,dive,keys,varname,endkeys"`
}

type UpdateFormulaRequest struct {
	Name        *string                `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string                `json:"description,omitempty" validate:"omitempty,max=2000"`
	Expression  *string                `json:"expression,omitempty" validate:"omitempty,max=4096,formula"`
	Defaults    map[string]interface{} `json:"defaults,omitempty" validate:"omitempty,dive,keys,varname,endkeys"`
}
