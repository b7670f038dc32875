package domain

// Category groups labels. Three shapes exist:
//
//	template:        VideoID nil, SeriesExtID nil
//	series master:   SeriesExtID set, SeriesCategoryID nil
//	per-video copy:  VideoID set, SeriesCategoryID pointing at the master
type Category struct {
	ID               int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	SeriesExtID      *string `gorm:"index;column:series_ext_id" json:"series_ext_id,omitempty"`
	SeriesCategoryID *int64  `gorm:"index;column:series_category_id" json:"series_category_id,omitempty"`
	VideoID          *int64  `gorm:"index;column:video_id" json:"video_id,omitempty"`
	ScaleID          *int64  `gorm:"column:scale_id" json:"scale_id,omitempty"`
	Name             string  `gorm:"not null;column:name" json:"name"`
	Description      *string `gorm:"column:description" json:"description,omitempty"`
	Settings         *string `gorm:"column:settings" json:"settings,omitempty"`
	Resource         `gorm:"embedded"`
}

func (Category) TableName() string {
	return "annotation_category"
}

// Label is a single choice inside a category. SeriesLabelID points at the
// originating master label when the label is a per-video copy.
type Label struct {
	ID            int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	SeriesLabelID *int64  `gorm:"index;column:series_label_id" json:"series_label_id,omitempty"`
	CategoryID    int64   `gorm:"index;not null;column:category_id" json:"category_id"`
	Value         string  `gorm:"not null;column:value" json:"value"`
	Abbreviation  string  `gorm:"not null;column:abbreviation" json:"abbreviation"`
	Description   *string `gorm:"column:description" json:"description,omitempty"`
	Settings      *string `gorm:"column:settings" json:"settings,omitempty"`
	Resource      `gorm:"embedded"`
}

func (Label) TableName() string {
	return "annotation_label"
}
