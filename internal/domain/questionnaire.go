package domain

// Questionnaire holds a form definition as opaque JSON content. A nil
// VideoID marks a template questionnaire.
type Questionnaire struct {
	ID       int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID  *int64  `gorm:"index;column:video_id" json:"video_id,omitempty"`
	Title    string  `gorm:"not null;column:title" json:"title"`
	Content  string  `gorm:"not null;column:content" json:"content"`
	Settings *string `gorm:"column:settings" json:"settings,omitempty"`
	Resource `gorm:"embedded"`
}

func (Questionnaire) TableName() string {
	return "annotation_questionnaire"
}
