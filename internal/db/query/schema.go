// Package query compiles search filters into a typed predicate tree over
// statically described relations. Stores render or evaluate the tree.
package query

// FieldType is the storage type of a column.
type FieldType int

// Column types.
const (
	TypeText FieldType = iota
	TypeInt
	TypeTime
)

// Field describes one column of a relation.
type Field struct {
	Relation string
	Name     string
	Type     FieldType
	Nullable bool
}

// Relation describes a table. MediaKey is the column that references media.id.
type Relation struct {
	Name     string
	MediaKey Field
}

// Relation names.
const (
	MediaRelation = "media"
	FaceRelation  = "face_annotations"
	TagRelation   = "tag_associations"
)

// Media columns.
var (
	MediaID             = Field{MediaRelation, "id", TypeText, false}
	MediaPath           = Field{MediaRelation, "path", TypeText, false}
	MediaExt            = Field{MediaRelation, "ext", TypeText, false}
	MediaCameraMake     = Field{MediaRelation, "camera_make", TypeText, true}
	MediaOrientation    = Field{MediaRelation, "orientation", TypeText, true}
	MediaShotTS         = Field{MediaRelation, "shot_ts", TypeTime, true}
	MediaFilesize       = Field{MediaRelation, "filesize", TypeInt, false}
	MediaContentHash    = Field{MediaRelation, "sha256", TypeText, false}
	MediaPerceptualHash = Field{MediaRelation, "phash", TypeText, false}
)

// Face annotation columns.
var (
	FaceMediaID  = Field{FaceRelation, "media_id", TypeText, false}
	FacePersonID = Field{FaceRelation, "person_id", TypeText, true}
)

// Tag association columns.
var (
	TagMediaID = Field{TagRelation, "media_id", TypeText, false}
	TagValue   = Field{TagRelation, "tag", TypeText, false}
)

// Relations.
var (
	Media = Relation{Name: MediaRelation, MediaKey: MediaID}
	Faces = Relation{Name: FaceRelation, MediaKey: FaceMediaID}
	Tags  = Relation{Name: TagRelation, MediaKey: TagMediaID}
)

// MediaColumns lists media columns in select order.
var MediaColumns = []Field{
	MediaID, MediaPath, MediaExt, MediaCameraMake, MediaOrientation,
	MediaShotTS, MediaFilesize, MediaContentHash, MediaPerceptualHash,
}
