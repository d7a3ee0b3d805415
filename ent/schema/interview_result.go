package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// InterviewResult is the scored summary saved when an interview ends.
type InterviewResult struct {
	ent.Schema
}

func (InterviewResult) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (InterviewResult) Fields() []ent.Field {
	return []ent.Field{
		field.String("email"),
		field.String("session_id").
			Default(""),
		field.Int("total_score"),
		field.Int("max_score"),
		field.Float("percentage"),
		field.Int("question_count").
			Default(0),
	}
}

func (InterviewResult) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("email", "timestamp"),
	}
}
