package domain

// Scale is a categorical rating scale. A nil VideoID marks a template scale
// that only serves as a copy source for per-video scales.
type Scale struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID     *int64  `gorm:"index;column:video_id" json:"video_id,omitempty"`
	Name        string  `gorm:"not null;column:name" json:"name"`
	Description *string `gorm:"column:description" json:"description,omitempty"`
	Resource    `gorm:"embedded"`
}

func (Scale) TableName() string {
	return "annotation_scale"
}

type ScaleValue struct {
	ID       int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	ScaleID  int64   `gorm:"index;not null;column:scale_id" json:"scale_id"`
	Name     string  `gorm:"not null;column:name" json:"name"`
	Value    float64 `gorm:"not null;column:value" json:"value"`
	Order    int     `gorm:"not null;column:sort_order" json:"order"`
	Resource `gorm:"embedded"`
}

func (ScaleValue) TableName() string {
	return "annotation_scale_value"
}
