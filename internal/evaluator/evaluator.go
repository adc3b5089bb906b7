// Package evaluator implements pure, stateless rule evaluation: given a rule
// snapshot, a set of property values, and a clock reading, it decides whether
// the rule is triggered. It never touches storage and never returns errors —
// every malformed input degrades to a defined boolean outcome.
package evaluator

import (
	"log/slog"
	"math"
	"time"

	"github.com/shettyvedanth21/End-End-Factory-Ops-GA/internal/database"
)

// equalityEpsilon absorbs floating-point noise in EQ/NEQ comparisons.
const equalityEpsilon = 1e-3

// scheduleLayout is the wall-clock format of rule schedule bounds.
const scheduleLayout = "15:04:05"

// Evaluate reports whether the rule is triggered by the given properties at
// the given instant. Inactive rules and rules outside their schedule window
// never trigger. A condition referencing a property absent from the map is
// false, never an error.
//
// A rule with zero conditions evaluates to true under AND and false under OR,
// matching all-of-nothing / any-of-nothing semantics.
func Evaluate(rule *database.Rule, properties map[string]any, now time.Time) bool {
	if !rule.IsActive {
		return false
	}

	if !inSchedule(rule, now) {
		return false
	}

	if rule.ConditionOperator == "AND" {
		for _, cond := range rule.Conditions {
			if !conditionMet(cond, properties) {
				return false
			}
		}
		return true
	}

	// OR
	for _, cond := range rule.Conditions {
		if conditionMet(cond, properties) {
			return true
		}
	}
	return false
}

// inSchedule applies the rule's daily window gate. The window is inclusive on
// both bounds and may wrap midnight (start > end). Rules with either bound
// missing are always in schedule, and malformed bounds fail open so a typo in
// a schedule never silences a rule.
func inSchedule(rule *database.Rule, now time.Time) bool {
	if rule.ScheduleStart == "" || rule.ScheduleEnd == "" {
		return true
	}

	start, err := time.Parse(scheduleLayout, rule.ScheduleStart)
	if err != nil {
		slog.Warn("Unparsable schedule start, treating rule as always in schedule",
			"rule_id", rule.RuleID,
			"schedule_start", rule.ScheduleStart,
			"error", err,
		)
		return true
	}
	end, err := time.Parse(scheduleLayout, rule.ScheduleEnd)
	if err != nil {
		slog.Warn("Unparsable schedule end, treating rule as always in schedule",
			"rule_id", rule.RuleID,
			"schedule_end", rule.ScheduleEnd,
			"error", err,
		)
		return true
	}

	nowSec := secondOfDay(now.Hour(), now.Minute(), now.Second())
	startSec := secondOfDay(start.Hour(), start.Minute(), start.Second())
	endSec := secondOfDay(end.Hour(), end.Minute(), end.Second())

	if startSec <= endSec {
		return startSec <= nowSec && nowSec <= endSec
	}
	// Window wraps midnight.
	return nowSec >= startSec || nowSec <= endSec
}

func secondOfDay(h, m, s int) int {
	return h*3600 + m*60 + s
}

// conditionMet evaluates one threshold condition against the property map.
func conditionMet(cond database.Condition, properties map[string]any) bool {
	raw, ok := properties[cond.Property]
	if !ok {
		return false
	}
	value, ok := numericValue(raw)
	if !ok {
		return false
	}

	switch cond.Operator {
	case "GT":
		return value > cond.Threshold
	case "LT":
		return value < cond.Threshold
	case "GTE":
		return value >= cond.Threshold
	case "LTE":
		return value <= cond.Threshold
	case "EQ":
		return math.Abs(value-cond.Threshold) < equalityEpsilon
	case "NEQ":
		return math.Abs(value-cond.Threshold) >= equalityEpsilon
	}
	return false
}

// numericValue coerces a property value to float64 for comparison. Booleans
// compare as 1/0. JSON decoding yields float64 for all numbers, but the
// integer types are handled as well for callers constructing maps directly.
func numericValue(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case bool:
		if value {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
