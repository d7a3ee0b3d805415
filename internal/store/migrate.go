package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/vintervu/vintervu/ent/schema"
)

const (
	llmEventsTable = "llm_request_events"
	resultsTable   = "interview_results"
)

var tables = []*schema.Table{
	tableOf(llmEventsTable, "llmrequestevent", entschema.LLMRequestEvent{}),
	tableOf(resultsTable, "interviewresult", entschema.InterviewResult{}),
}

// tableOf builds the SQL table for an ent schema: an auto-increment id
// followed by the mixin fields and the schema's own fields. Index names are
// prefix_field[_field...].
func tableOf(name, prefix string, s ent.Interface) *schema.Table {
	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := &schema.Table{
		Name:       name,
		Columns:    []*schema.Column{id},
		PrimaryKey: []*schema.Column{id},
	}
	byName := map[string]*schema.Column{id.Name: id}
	for _, f := range fields {
		d := f.Descriptor()
		c := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional,
			Size:     int64(d.Size),
		}
		// Function defaults (time.Now) are applied by the insert code.
		if d.Default != nil && d.Info.Type != field.TypeTime {
			c.Default = d.Default
		}
		t.Columns = append(t.Columns, c)
		byName[c.Name] = c
	}

	for _, ix := range indexes {
		d := ix.Descriptor()
		idx := &schema.Index{
			Name:   prefix + "_" + strings.Join(d.Fields, "_"),
			Unique: d.Unique,
		}
		for _, f := range d.Fields {
			idx.Columns = append(idx.Columns, byName[f])
		}
		t.Indexes = append(t.Indexes, idx)
	}
	return t
}

// migrate creates or upgrades every table owned by the store.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
