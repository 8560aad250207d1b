package models

import "time"

// User represents every person in the system regardless of role. Students
// carry no credential columns; their records are reached through a parent.
// Rows are never hard-deleted, IsDelete tombstones them instead.
type User struct {
	ID         int64      `gorm:"primaryKey"`
	Created    time.Time  `gorm:"column:created;autoCreateTime"`
	FirstLogin *time.Time `gorm:"column:first_login"`
	LastLogin  *time.Time `gorm:"column:last_login"`
	FirstName  string     `gorm:"type:varchar(50);column:first_name;not null"`
	LastName   string     `gorm:"type:varchar(50);column:last_name;not null"`
	Email      *string    `gorm:"type:varchar(50)"`
	Address    string     `gorm:"type:varchar(100);not null"`
	City       string     `gorm:"type:varchar(50);not null"`
	Phone      *string    `gorm:"type:varchar(50)"`
	Salt       *string    `gorm:"type:varchar(255)"`
	Password   *string    `gorm:"type:varchar(255)"`
	IsActive   bool       `gorm:"column:is_active;not null;default:false"`
	IsDelete   bool       `gorm:"column:is_delete;not null;default:false"`
	Newsletter bool       `gorm:"column:newsletter;not null;default:false"`
	BirthDate  time.Time  `gorm:"column:birth_date;type:date;not null"`

	// Activation workflow state, cleared once the code is consumed.
	ActivationCode        *string    `gorm:"type:varchar(10);column:activation_code"`
	ExpiredActivationCode *time.Time `gorm:"column:expired_activation_code"`

	GenderID       *int64 `gorm:"column:gender_id"`
	Gender         *Gender
	RoleID         *int64 `gorm:"column:role_id"`
	Role           *Role
	ParentMotherID *int64 `gorm:"column:parent_mother_id"`
	ParentMother   *User  `gorm:"foreignKey:ParentMotherID"`
	ParentFatherID *int64 `gorm:"column:parent_father_id"`
	ParentFather   *User  `gorm:"foreignKey:ParentFatherID"`
}

func (User) TableName() string {
	return "users"
}

// RoleName returns the preloaded role name, or the empty string.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}

// EmailOrEmpty flattens the nullable email column.
func (u *User) EmailOrEmpty() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}
