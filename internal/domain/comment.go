package domain

// Comment belongs to an annotation. Replies reference their parent comment
// through ReplyToID, forming a thread.
type Comment struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	AnnotationID int64  `gorm:"index;not null;column:annotation_id" json:"annotation_id"`
	ReplyToID    *int64 `gorm:"index;column:reply_to_id" json:"reply_to_id,omitempty"`
	Text         string `gorm:"not null;column:text" json:"text"`
	Resource     `gorm:"embedded"`
}

func (Comment) TableName() string {
	return "annotation_comment"
}
