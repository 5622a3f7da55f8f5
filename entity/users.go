package entity

type User struct {
	BaseEntity
	Username string `json:"username" gorm:"unique;type:varchar(50);not null"`
	Password string `json:"-" gorm:"type:varchar(255);not null"`
	NickName string `json:"nickName" gorm:"type:varchar(50)"`
	Email    string `json:"email" gorm:"type:varchar(100);index"`
	HeadPic  string `json:"headPic" gorm:"type:varchar(255)"`
}
