package domain

type User struct {
	ID       int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	ExtID    string  `gorm:"uniqueIndex;not null;column:ext_id" json:"ext_id"`
	Nickname string  `gorm:"not null;column:nickname" json:"nickname"`
	Email    *string `gorm:"column:email" json:"email,omitempty"`
	Resource `gorm:"embedded"`
}

func (User) TableName() string {
	return "annotation_user"
}
