package metadata

import "fmt"

// Condition describes the physical state of an asset as observed during an
// inventory.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionGood    Condition = "good"
	ConditionMedium  Condition = "medium"
	ConditionDamaged Condition = "damaged"
	ConditionBroken  Condition = "broken"
)

type conditionLabels struct {
	labelEN string
	labelFR string
}

// conditionTable is initialized once and never mutated, so concurrent reads
// need no synchronization.
var conditionTable = map[Condition]conditionLabels{
	ConditionNew:     {labelEN: "New", labelFR: "Neuf"},
	ConditionGood:    {labelEN: "Good", labelFR: "Bon"},
	ConditionMedium:  {labelEN: "Medium", labelFR: "Moyen"},
	ConditionDamaged: {labelEN: "Damaged", labelFR: "Endommagé"},
	ConditionBroken:  {labelEN: "Broken", labelFR: "Hors service"},
}

func NewCondition(value string) (Condition, error) {
	condition := Condition(value)
	if !condition.IsValid() {
		return "", fmt.Errorf("invalid condition: %s", value)
	}
	return condition, nil
}

func (c Condition) IsValid() bool {
	_, ok := conditionTable[c]
	return ok
}

func (c Condition) String() string {
	return string(c)
}

// ConditionLabel translates a condition code into its display label for the
// given locale. Unknown codes come back verbatim so documents keep showing
// something even when new codes appear before the table is extended.
func ConditionLabel(code string, locale string) string {
	labels, ok := conditionTable[Condition(code)]
	if !ok {
		return code
	}

	label := labels.labelEN
	if locale == "fr" {
		label = labels.labelFR
	}
	if label == "" {
		return code
	}
	return label
}
