package querybuilder

// UpdateData maps column names to their new values for UPDATE statements
type UpdateData map[string]interface{}
