package query

import "fmt"

// Condition represents a WHERE clause condition.
// Implementations must generate SQL fragments and parameter maps
// using named parameters (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, etc.)
	SQL(paramIndex int) (string, map[string]interface{})
}

// cmpCondition implements a binary comparison (field op value).
type cmpCondition struct {
	field string
	op    string
	value interface{}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("category", "garden_tools") generates "category = @p0"
func Eq(field string, value interface{}) Condition {
	return &cmpCondition{field: field, op: "=", value: value}
}

// Gt creates a WHERE condition for a strict greater-than comparison.
// Used for keyset pagination: Gt("product_id", lastID).
func Gt(field string, value interface{}) Condition {
	return &cmpCondition{field: field, op: ">", value: value}
}

// SQL generates the SQL fragment for the comparison.
func (c *cmpCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s %s @%s", c.field, c.op, paramName)
	params := map[string]interface{}{
		paramName: c.value,
	}
	return sql, params
}

// In creates a Spanner array membership condition.
// Example: In("history_id", ids) generates "history_id IN UNNEST(@p0)"
func In(field string, values []string) Condition {
	return &inCondition{field: field, values: values}
}

// inCondition implements IN UNNEST(array) comparison.
type inCondition struct {
	field  string
	values []string
}

// SQL generates the SQL fragment for array membership.
func (c *inCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s IN UNNEST(@%s)", c.field, paramName)
	return sql, map[string]interface{}{paramName: c.values}
}
