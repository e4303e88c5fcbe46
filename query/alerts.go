// Package query narrows the alert collection by location, severity and
// active flag. Filters accumulate on an AlertQuery and only touch the
// database when Find, Count or Page is called.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariebrainware/alert-board/model"
	"gorm.io/gorm"
)

// ErrUnknownSeverity is returned by ParseSeverities for a value outside the enumeration.
var ErrUnknownSeverity = errors.New("unknown severity")

// LocationRef is anything that identifies a location: a loaded
// model.Location or a bare LocationID.
type LocationRef interface {
	LocationKey() uint
}

// LocationID refers to a location by primary key without loading it.
type LocationID uint

// LocationKey implements LocationRef.
func (id LocationID) LocationKey() uint {
	return uint(id)
}

// AlertQuery is an immutable set of alert predicates. Every narrowing method
// returns a new query, so a base query can be shared and refined.
type AlertQuery struct {
	db          *gorm.DB
	locations   []uint
	severitySet [][]model.Severity
	active      *bool
}

// Alerts starts an unfiltered query over every alert.
func Alerts(db *gorm.DB) *AlertQuery {
	return &AlertQuery{db: db}
}

// FilterByLocation returns alerts linked to ref, optionally restricted to the
// given severities. No severities means no severity restriction.
func FilterByLocation(db *gorm.DB, ref LocationRef, severities ...model.Severity) *AlertQuery {
	return Alerts(db).AtLocation(ref).WithSeverities(severities...)
}

// FilterBySeverity returns alerts of any of the given severities regardless of
// location. No severities means every alert.
func FilterBySeverity(db *gorm.DB, severities ...model.Severity) *AlertQuery {
	return Alerts(db).WithSeverities(severities...)
}

// ActiveForLocation returns the active alerts linked to ref.
func ActiveForLocation(db *gorm.DB, ref LocationRef) *AlertQuery {
	return Alerts(db).AtLocation(ref).ActiveOnly()
}

func (q *AlertQuery) clone() *AlertQuery {
	c := *q
	c.locations = append([]uint(nil), q.locations...)
	c.severitySet = append([][]model.Severity(nil), q.severitySet...)
	return &c
}

// AtLocation keeps only alerts linked to ref.
func (q *AlertQuery) AtLocation(ref LocationRef) *AlertQuery {
	c := q.clone()
	c.locations = append(c.locations, ref.LocationKey())
	return c
}

// WithSeverities keeps only alerts whose severity is in the set. Called more
// than once, the sets intersect. An empty set is ignored.
func (q *AlertQuery) WithSeverities(severities ...model.Severity) *AlertQuery {
	if len(severities) == 0 {
		return q
	}
	c := q.clone()
	c.severitySet = append(c.severitySet, append([]model.Severity(nil), severities...))
	return c
}

// ActiveOnly drops inactive alerts.
func (q *AlertQuery) ActiveOnly() *AlertQuery {
	return q.WithActive(true)
}

// WithActive keeps only alerts whose active flag equals active. The last
// call wins.
func (q *AlertQuery) WithActive(active bool) *AlertQuery {
	c := q.clone()
	c.active = &active
	return c
}

// Scope applies the accumulated predicates and the default ordering. It can
// be passed to gorm's Scopes to combine with other conditions.
func (q *AlertQuery) Scope() func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		tx = q.where(tx)
		return tx.Order(model.AlertDefaultOrder)
	}
}

func (q *AlertQuery) where(tx *gorm.DB) *gorm.DB {
	for _, id := range q.locations {
		tx = tx.Where("alerts.id IN (?)",
			q.db.Session(&gorm.Session{NewDB: true}).
				Table("location_alerts").
				Select("alert_id").
				Where("location_id = ?", id))
	}
	for _, set := range q.severitySet {
		tx = tx.Where("alerts.severity IN ?", set)
	}
	if q.active != nil {
		tx = tx.Where("alerts.is_active = ?", *q.active)
	}
	return tx
}

func (q *AlertQuery) base(ctx context.Context) *gorm.DB {
	return q.db.WithContext(ctx).Model(&model.Alert{})
}

func preloadLocations(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Locations", func(db *gorm.DB) *gorm.DB {
		return db.Order(model.LocationDefaultOrder)
	})
}

// Find evaluates the query, newest alerts first, with locations loaded.
func (q *AlertQuery) Find(ctx context.Context) ([]model.Alert, error) {
	var alerts []model.Alert
	err := preloadLocations(q.base(ctx).Scopes(q.Scope())).Find(&alerts).Error
	return alerts, err
}

// Count returns how many alerts match.
func (q *AlertQuery) Count(ctx context.Context) (int64, error) {
	var n int64
	err := q.where(q.base(ctx)).Count(&n).Error
	return n, err
}

// Page returns the 1-based page of matching alerts and the total match count.
func (q *AlertQuery) Page(ctx context.Context, page, size int) ([]model.Alert, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		return nil, 0, fmt.Errorf("page size must be positive, got %d", size)
	}
	total, err := q.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	var alerts []model.Alert
	err = preloadLocations(q.base(ctx).Scopes(q.Scope())).
		Offset((page - 1) * size).
		Limit(size).
		Find(&alerts).Error
	return alerts, total, err
}

// ParseSeverities accepts repeated and comma separated values such as
// ["info,warning", "error"]. Blank entries are skipped.
func ParseSeverities(values []string) ([]model.Severity, error) {
	var out []model.Severity
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			s := model.Severity(part)
			if !s.Valid() {
				return nil, fmt.Errorf("%w: %q", ErrUnknownSeverity, part)
			}
			out = append(out, s)
		}
	}
	return out, nil
}
