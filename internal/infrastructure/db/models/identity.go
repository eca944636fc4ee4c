package models

import "time"

type Identity struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	FirstName      string `gorm:"size:120;not null"`
	LastName       string `gorm:"size:120;not null"`
	Email          string `gorm:"size:320;not null;uniqueIndex"`
	Identifier     string `gorm:"size:32;not null;uniqueIndex"`
	Role           string `gorm:"size:32;not null"`
	DepartmentID   *int64 `gorm:"index"`
	Designation    string `gorm:"size:120"`
	EmployeeID     string `gorm:"size:64"`
	Phone          string `gorm:"size:32"`
	CredentialHash string `gorm:"size:120;not null"`
	IsFirstLogin   bool   `gorm:"not null;default:true"`
	EmailSent      bool   `gorm:"not null;default:false"`
	CreatedBy      string `gorm:"size:120;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Identity) TableName() string {
	return "identities"
}

type Department struct {
	ID     int64  `gorm:"primaryKey"`
	Code   string `gorm:"size:16;not null;uniqueIndex"`
	Name   string `gorm:"size:255;not null"`
	Active bool   `gorm:"not null;default:true"`
}

func (Department) TableName() string {
	return "departments"
}
