package model

// Category is one of the fixed document classifications.
// Values are the labels persisted and returned to clients.
type Category string

const (
	CategoryFinancial Category = "Financeiro"
	CategoryHR        Category = "RH"
	CategoryTechnical Category = "Técnico"
	CategoryMarketing Category = "Marketing"
	CategoryLegal     Category = "Legal"
	CategoryGeneral   Category = "Geral"
)

// DefaultCategory is used whenever a category cannot be resolved.
const DefaultCategory = CategoryGeneral

// Categories lists every member of the fixed set.
var Categories = []Category{
	CategoryFinancial,
	CategoryHR,
	CategoryTechnical,
	CategoryMarketing,
	CategoryLegal,
	CategoryGeneral,
}

// Valid reports whether c is a member of the fixed set.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}
