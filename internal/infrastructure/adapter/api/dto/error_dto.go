package dto

// DetailResponse is the standard error payload: a single user-facing message
type DetailResponse struct {
	Detail string `json:"detail"`
}

// FieldErrors is a field-scoped validation error payload, keyed by field name
type FieldErrors map[string][]string
