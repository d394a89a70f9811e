package models

import "time"

type User struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:text;not null" json:"name"`
	Email     string    `gorm:"column:email;type:text;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:password;type:text;not null" json:"-"`
	Avatar    string    `gorm:"column:avatar;type:text" json:"avatar"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (User) TableName() string { return "users" }

// Owner is the public part of a User joined onto profiles.
type Owner struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (u *User) Owner() *Owner {
	return &Owner{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
