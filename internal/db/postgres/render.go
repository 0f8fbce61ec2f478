package postgres

import (
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/kailas-cloud/photosearch/internal/db/query"
)

// sortKey is the ordering expression; NULL capture times sort as query.NullTS.
const sortKey = `COALESCE(m.shot_ts, TIMESTAMPTZ '0001-01-01 00:00:00+00')`

// idKey compares ids bytewise, matching the cursor's ordering.
const idKey = `m.id COLLATE "C"`

var aliases = map[string]string{
	query.MediaRelation: "m",
	query.FaceRelation:  "f",
	query.TagRelation:   "t",
}

// renderer accumulates SQL text and positional arguments.
type renderer struct {
	sb   strings.Builder
	args []any
}

func (r *renderer) arg(v any) string {
	r.args = append(r.args, v)
	return "$" + strconv.Itoa(len(r.args))
}

func (r *renderer) write(parts ...string) {
	for _, p := range parts {
		r.sb.WriteString(p)
	}
}

func column(f query.Field) string {
	return aliases[f.Relation] + "." + f.Name
}

// where renders p as a boolean SQL expression over media alias m.
func (r *renderer) where(p query.Predicate) {
	switch n := p.(type) {
	case nil:
		r.write("TRUE")
	case query.And:
		r.join(n.Terms, " AND ", "TRUE")
	case query.Or:
		r.join(n.Terms, " OR ", "FALSE")
	case query.In:
		if len(n.Values) == 0 {
			r.write("FALSE")
			return
		}
		col := column(n.Field)
		if n.Fold {
			col = "lower(" + col + ")"
		}
		r.write(col, " = ANY(", r.arg(pq.Array(n.Values)), ")")
	case query.TimeRange:
		col := column(n.Field)
		switch {
		case n.From != nil && n.To != nil:
			r.write(col, " >= ", r.arg(n.From.UTC()), " AND ", col, " <= ", r.arg(n.To.UTC()))
		case n.From != nil:
			r.write(col, " >= ", r.arg(n.From.UTC()))
		case n.To != nil:
			r.write(col, " <= ", r.arg(n.To.UTC()))
		default:
			r.write(col, " IS NOT NULL")
		}
	case query.IntRange:
		col := column(n.Field)
		r.write(col, " >= ", r.arg(n.Lo), " AND ", col, " < ", r.arg(n.Hi))
	case query.Contains:
		r.write(column(n.Field), " ILIKE ", r.arg("%"+escapeLike(n.Pattern)+"%"))
	case query.Exists:
		alias := aliases[n.Relation.Name]
		r.write("EXISTS (SELECT 1 FROM ", n.Relation.Name, " ", alias,
			" WHERE ", column(n.Relation.MediaKey), " = m.id")
		if n.Where != nil {
			r.write(" AND (")
			r.where(n.Where)
			r.write(")")
		}
		r.write(")")
	case query.After:
		op := ">"
		if n.Desc {
			op = "<"
		}
		ts := r.arg(n.TS.UTC())
		id := r.arg(n.ID)
		r.write("(", sortKey, " ", op, " ", ts, " OR (", sortKey, " = ", ts, " AND ", idKey, " ", op, " ", id, "))")
	default:
		r.write("FALSE")
	}
}

func (r *renderer) join(terms []query.Predicate, sep, empty string) {
	if len(terms) == 0 {
		r.write(empty)
		return
	}
	r.write("(")
	for i, t := range terms {
		if i > 0 {
			r.write(sep)
		}
		r.where(t)
	}
	r.write(")")
}

// orderBy returns the ORDER BY clause for the keyset.
func orderBy(desc bool) string {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return " ORDER BY " + sortKey + " " + dir + ", " + idKey + " " + dir
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
