package crud

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/5w1tchy/libapi/internal/models"
	"github.com/5w1tchy/libapi/internal/validate"
)

// BuildFilter turns validated params into an AND of equality predicates.
// Empty params yield a predicate matching every row. Values are parsed again
// so a caller that skipped validation still cannot produce a malformed query.
func BuildFilter(s validate.Schema, params map[string]string) (sq.Sqlizer, error) {
	and := sq.And{}

	if raw, ok := params[validate.KeyID]; ok {
		id, err := validate.ParseInt(raw)
		if err != nil {
			return nil, err
		}
		and = append(and, sq.Eq{validate.KeyID: id})
	}
	if raw, ok := params[validate.KeyIDs]; ok {
		ids, err := validate.ParseIDs(raw)
		if err != nil {
			return nil, err
		}
		and = append(and, sq.Eq{validate.KeyID: validate.UniqueIDs(ids)})
	}

	for _, f := range s.Fields {
		raw, ok := params[f.Name]
		if !ok {
			continue
		}
		var v any
		switch f.Kind {
		case validate.Int:
			n, err := validate.ParseInt(raw)
			if err != nil {
				return nil, err
			}
			v = n
		case validate.Float:
			x, err := validate.ParseFloat(raw)
			if err != nil {
				return nil, err
			}
			v = x
		default:
			v = models.NormalizeText(raw)
		}
		and = append(and, sq.Eq{f.Name: v})
	}
	return and, nil
}
