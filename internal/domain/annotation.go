package domain

// Annotation is a time-anchored entry on a track. Start and Duration are
// seconds relative to the beginning of the video; a nil Duration means a
// point annotation.
type Annotation struct {
	ID                       int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TrackID                  int64    `gorm:"index;not null;column:track_id" json:"track_id"`
	Start                    float64  `gorm:"not null;column:start" json:"start"`
	Duration                 *float64 `gorm:"column:duration" json:"duration,omitempty"`
	Content                  string   `gorm:"not null;column:content" json:"content"`
	CreatedFromQuestionnaire int64    `gorm:"not null;default:0;column:created_from_questionnaire" json:"created_from_questionnaire"`
	Settings                 *string  `gorm:"column:settings" json:"settings,omitempty"`
	Resource                 `gorm:"embedded"`
}

func (Annotation) TableName() string {
	return "annotation_annotation"
}
