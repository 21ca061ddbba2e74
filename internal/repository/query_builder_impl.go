package repository

import (
	"github.com/doug-martin/goqu/v9"
)

type queryBuilderImpl struct {
	conditions map[string]interface{}
}

// NewQueryBuilder collects equality filters for a listing query.
func NewQueryBuilder() QueryBuilder {
	return &queryBuilderImpl{conditions: map[string]interface{}{}}
}

func (q *queryBuilderImpl) AddCondition(key string, value interface{}) {
	q.conditions[key] = value
}

// BuildConditions renders the collected filters as a goqu expression,
// translating keys through aliases so callers can filter on API field
// names while the repository queries aliased columns.
func (q *queryBuilderImpl) BuildConditions(aliases map[string]string) goqu.Ex {
	ex := goqu.Ex{}
	for key, value := range q.conditions {
		if column, ok := aliases[key]; ok {
			key = column
		}
		ex[key] = value
	}
	return ex
}
