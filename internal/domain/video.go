package domain

// Video mirrors a media package of the host video platform. ExtID is the
// host-level identifier; everything else the tool knows about the video
// hangs off this row.
type Video struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ExtID    string `gorm:"uniqueIndex;not null;column:ext_id" json:"ext_id"`
	Resource `gorm:"embedded"`
}

func (Video) TableName() string {
	return "annotation_video"
}
