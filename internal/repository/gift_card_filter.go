package repository

import (
	"fmt"
	"strings"
)

// GiftCardFilter captures owner-scoped search parameters. Nil fields impose no constraint.
type GiftCardFilter struct {
	OwnerID        string
	Code           *string
	MinAmount      *int64
	MaxAmount      *int64
	RecipientName  *string
	RecipientEmail *string
	IsUsed         *bool
}

type predicate struct {
	column string
	op     string
	value  any
}

// predicates lists the filter's constraints in a fixed order, owner first.
func (f GiftCardFilter) predicates() []predicate {
	preds := []predicate{{column: "user_id", op: "=", value: f.OwnerID}}

	if term, ok := likeTerm(f.Code); ok {
		preds = append(preds, predicate{column: "code", op: "ILIKE", value: term})
	}
	if f.MinAmount != nil {
		preds = append(preds, predicate{column: "amount", op: ">=", value: *f.MinAmount})
	}
	if f.MaxAmount != nil {
		preds = append(preds, predicate{column: "amount", op: "<=", value: *f.MaxAmount})
	}
	if term, ok := likeTerm(f.RecipientName); ok {
		preds = append(preds, predicate{column: "recipient_name", op: "ILIKE", value: term})
	}
	if term, ok := likeTerm(f.RecipientEmail); ok {
		preds = append(preds, predicate{column: "recipient_email", op: "ILIKE", value: term})
	}
	if f.IsUsed != nil {
		preds = append(preds, predicate{column: "is_used", op: "=", value: *f.IsUsed})
	}
	return preds
}

// Where renders the filter as a conjunctive clause with $n placeholders.
func (f GiftCardFilter) Where() (string, []any) {
	return foldPredicates(f.predicates(), 1)
}

func foldPredicates(preds []predicate, firstPlaceholder int) (string, []any) {
	clauses := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	for _, p := range preds {
		args = append(args, p.value)
		clauses = append(clauses, fmt.Sprintf("%s %s $%d", p.column, p.op, firstPlaceholder+len(args)-1))
	}
	if len(clauses) == 0 {
		return "TRUE", args
	}
	return strings.Join(clauses, " AND "), args
}

// likeTerm turns a substring search into an ILIKE pattern matching it literally.
func likeTerm(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	term := strings.TrimSpace(*s)
	if term == "" {
		return "", false
	}
	return "%" + likeEscaper.Replace(term) + "%", true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
