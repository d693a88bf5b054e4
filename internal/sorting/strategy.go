package sorting

import (
	"fmt"
	"strings"
)

// Strategy selects which algorithm a benchmark trial runs.
type Strategy string

const (
	StrategyInsertion Strategy = "insertion"
	StrategyCounting  Strategy = "counting"
	StrategyRadix     Strategy = "radix"
)

// Strategies returns every supported strategy in report order.
func Strategies() []Strategy {
	return []Strategy{StrategyInsertion, StrategyCounting, StrategyRadix}
}

// ParseStrategy resolves a case-insensitive strategy name.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case StrategyInsertion, StrategyCounting, StrategyRadix:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: insertion, counting, radix)", ErrUnknownStrategy, name)
	}
}

// Sort runs the strategy over values. bound is the exclusive key bound and is
// only consulted by the counting strategy.
func (s Strategy) Sort(values []uint64, bound int) ([]uint64, error) {
	switch s {
	case StrategyInsertion:
		return InsertionSort(values), nil
	case StrategyCounting:
		return CountingSort(values, bound)
	case StrategyRadix:
		return RadixSort(values), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(s))
	}
}

func (s Strategy) String() string { return string(s) }
