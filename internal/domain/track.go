package domain

type Track struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID     int64   `gorm:"index;not null;column:video_id" json:"video_id"`
	Name        string  `gorm:"not null;column:name" json:"name"`
	Description *string `gorm:"column:description" json:"description,omitempty"`
	Settings    *string `gorm:"column:settings" json:"settings,omitempty"`
	Resource    `gorm:"embedded"`
}

func (Track) TableName() string {
	return "annotation_track"
}
