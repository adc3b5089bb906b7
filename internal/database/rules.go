package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Condition is a single flat threshold check within a rule.
// Operator is one of GT, LT, GTE, LTE, EQ, NEQ.
type Condition struct {
	Property  string  `json:"property"`
	Operator  string  `json:"operator"`
	Threshold float64 `json:"threshold"`
}

// Rule represents a threshold rule attached to one device. The rule is read
// as a snapshot per event: evaluation never observes a partially updated rule.
type Rule struct {
	RuleID            string
	FactoryID         string
	DeviceID          string
	Name              string
	IsActive          bool
	Conditions        []Condition
	ConditionOperator string // AND or OR
	ScheduleStart     string // HH:MM:SS, empty when unscheduled
	ScheduleEnd       string
	CooldownSeconds   int
	AutoResolve       bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ActiveRulesForDevice retrieves the active rules for a device as a read
// snapshot. Conditions are stored as a JSONB array and decoded here; a rule
// whose conditions fail to decode fails the snapshot read, since evaluating
// against a partial rule set could silently drop alerts.
func (db *DB) ActiveRulesForDevice(ctx context.Context, factoryID, deviceID string) ([]*Rule, error) {
	query := `
		SELECT rule_id, factory_id, device_id, name, is_active, conditions,
		       condition_operator, COALESCE(schedule_start, ''), COALESCE(schedule_end, ''),
		       cooldown_seconds, auto_resolve, created_at, updated_at
		FROM rules
		WHERE factory_id = $1 AND device_id = $2 AND is_active = TRUE
		ORDER BY created_at ASC
	`
	rows, err := db.conn.QueryContext(ctx, query, factoryID, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var rules []*Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return rules, nil
}

// GetRule retrieves a rule by ID within a factory.
func (db *DB) GetRule(ctx context.Context, factoryID, ruleID string) (*Rule, error) {
	query := `
		SELECT rule_id, factory_id, device_id, name, is_active, conditions,
		       condition_operator, COALESCE(schedule_start, ''), COALESCE(schedule_end, ''),
		       cooldown_seconds, auto_resolve, created_at, updated_at
		FROM rules
		WHERE factory_id = $1 AND rule_id = $2
	`
	row := db.conn.QueryRowContext(ctx, query, factoryID, ruleID)
	rule, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rule not found: %s", ruleID)
	}
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// scanner abstracts *sql.Row and *sql.Rows for row scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanRule(s scanner) (*Rule, error) {
	var rule Rule
	var conditionsJSON []byte
	err := s.Scan(
		&rule.RuleID,
		&rule.FactoryID,
		&rule.DeviceID,
		&rule.Name,
		&rule.IsActive,
		&conditionsJSON,
		&rule.ConditionOperator,
		&rule.ScheduleStart,
		&rule.ScheduleEnd,
		&rule.CooldownSeconds,
		&rule.AutoResolve,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan rule: %w", err)
	}

	if len(conditionsJSON) > 0 {
		if err := json.Unmarshal(conditionsJSON, &rule.Conditions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conditions for rule %s: %w", rule.RuleID, err)
		}
	}

	return &rule, nil
}

// Cooldown returns the rule's cooldown as a duration.
func (r *Rule) Cooldown() time.Duration {
	return time.Duration(r.CooldownSeconds) * time.Second
}
