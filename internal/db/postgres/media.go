package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/kailas-cloud/photosearch/internal/db"
	"github.com/kailas-cloud/photosearch/internal/db/query"
	"github.com/kailas-cloud/photosearch/internal/domain/media"
	"github.com/kailas-cloud/photosearch/internal/domain/search/order"
)

var mediaSelect = func() string {
	cols := make([]string, len(query.MediaColumns))
	for i, f := range query.MediaColumns {
		cols[i] = column(f)
	}
	return "SELECT " + strings.Join(cols, ", ") + " FROM media m"
}()

func (ss *session) CountMedia(ctx context.Context, p query.Predicate) (int, error) {
	return countMedia(ctx, ss.tx, p)
}

func (ss *session) ListMedia(
	ctx context.Context, p query.Predicate, dir order.Direction, limit int,
) ([]media.Record, error) {
	return listMedia(ctx, ss.tx, p, dir == order.Desc, limit)
}

func (ss *session) MediaIDs(ctx context.Context, p query.Predicate) ([]string, error) {
	return mediaIDs(ctx, ss.tx, p)
}

func (ss *session) TagsFor(ctx context.Context, ids []string) (map[string][]string, error) {
	return tagsFor(ctx, ss.tx, ids)
}

func (ss *session) FacesFor(ctx context.Context, ids []string) (map[string][]media.Face, error) {
	return facesFor(ctx, ss.tx, ids)
}

func countMedia(ctx context.Context, q querier, p query.Predicate) (int, error) {
	var r renderer
	r.write("SELECT COUNT(*) FROM media m WHERE ")
	r.where(p)

	var n int
	if err := q.QueryRowContext(ctx, r.sb.String(), r.args...).Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpCount, Err: err}
	}
	return n, nil
}

func listMedia(ctx context.Context, q querier, p query.Predicate, desc bool, limit int) ([]media.Record, error) {
	var r renderer
	r.write(mediaSelect, " WHERE ")
	r.where(p)
	r.write(orderBy(desc), " LIMIT ", strconv.Itoa(max(limit, 0)))

	rows, err := q.QueryContext(ctx, r.sb.String(), r.args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	var out []media.Record
	for rows.Next() {
		rec, err := scanMedia(rows)
		if err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

func scanMedia(rows *sql.Rows) (media.Record, error) {
	var (
		rec              media.Record
		camera, orient   sql.NullString
		shot             sql.NullTime
		content, percept sql.NullString
	)
	err := rows.Scan(&rec.ID, &rec.Path, &rec.Ext, &camera, &orient, &shot, &rec.Filesize, &content, &percept)
	if err != nil {
		return media.Record{}, err
	}
	if camera.Valid {
		rec.CameraMake = &camera.String
	}
	if orient.Valid {
		rec.Orientation = &orient.String
	}
	if shot.Valid {
		t := shot.Time.UTC()
		rec.ShotTS = &t
	}
	rec.ContentHash = content.String
	rec.PerceptualHash = percept.String
	return rec, nil
}

func mediaIDs(ctx context.Context, q querier, p query.Predicate) ([]string, error) {
	var r renderer
	r.write("SELECT m.id FROM media m WHERE ")
	r.where(p)

	rows, err := q.QueryContext(ctx, r.sb.String(), r.args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return ids, nil
}

func tagsFor(ctx context.Context, q querier, ids []string) (map[string][]string, error) {
	out := make(map[string][]string)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := q.QueryContext(ctx,
		`SELECT media_id, tag FROM tag_associations WHERE media_id = ANY($1) ORDER BY media_id, tag`,
		pq.Array(ids))
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		out[id] = append(out[id], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}

func facesFor(ctx context.Context, q querier, ids []string) (map[string][]media.Face, error) {
	out := make(map[string][]media.Face)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := q.QueryContext(ctx,
		`SELECT media_id, person_id FROM face_annotations WHERE media_id = ANY($1) ORDER BY media_id, id`,
		pq.Array(ids))
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     string
			person sql.NullString
		)
		if err := rows.Scan(&id, &person); err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		face := media.Face{}
		if person.Valid {
			face.PersonID = &person.String
		}
		out[id] = append(out[id], face)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return out, nil
}
