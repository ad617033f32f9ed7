package domain

import "fmt"

// CostType selects how operator costs are seen by evaluators and g values.
type CostType string

const (
	CostNormal  CostType = "normal"
	CostOne     CostType = "one"
	CostPlusOne CostType = "plusone"
)

// ParseCostType validates a configured cost type. Empty means normal.
func ParseCostType(s string) (CostType, error) {
	switch CostType(s) {
	case "", CostNormal:
		return CostNormal, nil
	case CostOne, CostPlusOne:
		return CostType(s), nil
	}
	return "", fmt.Errorf("%w: unknown cost type %q", ErrInvalidConfig, s)
}

// AdjustCost maps a real operator cost under the given cost type.
// PlusOne leaves unit-cost tasks unchanged.
func AdjustCost(cost int, ct CostType, unitCost bool) int {
	switch ct {
	case CostOne:
		return 1
	case CostPlusOne:
		if unitCost {
			return 1
		}
		return cost + 1
	}
	return cost
}
