package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

type User struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Email          string     `gorm:"unique;not null" json:"email"`
	Username       string     `gorm:"unique;not null" json:"username"`
	ImageURL       string     `gorm:"not null" json:"image_url"`
	HeaderImageURL string     `gorm:"not null" json:"header_image_url"`
	Bio            string     `json:"bio"`
	Location       string     `json:"location"`
	Password       string     `gorm:"not null" json:"-"` // bcrypt hash
	Messages       []Message  `json:"messages,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Followers      []*User    `json:"followers,omitempty" gorm:"many2many:follows;foreignKey:ID;joinForeignKey:FollowedID;References:ID;joinReferences:FollowerID;constraint:OnDelete:CASCADE"`
	Following      []*User    `json:"following,omitempty" gorm:"many2many:follows;foreignKey:ID;joinForeignKey:FollowerID;References:ID;joinReferences:FollowedID;constraint:OnDelete:CASCADE"`
	Likes          []*Message `json:"likes,omitempty" gorm:"many2many:likes;constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ImageURL == "" {
		u.ImageURL = DefaultImageURL
	}
	if u.HeaderImageURL == "" {
		u.HeaderImageURL = DefaultHeaderImageURL
	}
	return nil
}

func (u *User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}

// Follows reports whether other is in the loaded Following association.
func (u *User) Follows(other *User) bool {
	if other == nil {
		return false
	}
	for _, f := range u.Following {
		if f.ID == other.ID {
			return true
		}
	}
	return false
}

// FollowedBy reports whether other is in the loaded Followers association.
func (u *User) FollowedBy(other *User) bool {
	if other == nil {
		return false
	}
	for _, f := range u.Followers {
		if f.ID == other.ID {
			return true
		}
	}
	return false
}

// HasLiked reports whether msg is in the loaded Likes association.
func (u *User) HasLiked(msg *Message) bool {
	if msg == nil {
		return false
	}
	for _, m := range u.Likes {
		if m.ID == msg.ID {
			return true
		}
	}
	return false
}

func FindUser(db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchUsers lists users whose username contains q; an empty q lists everyone.
func SearchUsers(db *gorm.DB, q string) ([]User, error) {
	var users []User
	query := db.Order("username")
	if q != "" {
		query = query.Where("username LIKE ?", "%"+q+"%")
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

type UserStats struct {
	MessagesCount  int64 `json:"messagesCount"`
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
	LikesCount     int64 `json:"likesCount"`
}

func StatsFor(db *gorm.DB, userID uint) (UserStats, error) {
	var stats UserStats
	if err := db.Model(&Message{}).Where("user_id = ?", userID).Count(&stats.MessagesCount).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&Follow{}).Where("followed_id = ?", userID).Count(&stats.FollowersCount).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&Follow{}).Where("follower_id = ?", userID).Count(&stats.FollowingCount).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&Like{}).Where("user_id = ?", userID).Count(&stats.LikesCount).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

// DeleteUser removes the user together with everything that references it:
// follows in both directions, likes by the user or on the user's messages,
// and the user's messages.
func DeleteUser(db *gorm.DB, user *User) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR followed_id = ?", user.ID, user.ID).Delete(&Follow{}).Error; err != nil {
			return fmt.Errorf("delete follows: %w", err)
		}
		owned := tx.Model(&Message{}).Select("id").Where("user_id = ?", user.ID)
		if err := tx.Where("user_id = ? OR message_id IN (?)", user.ID, owned).Delete(&Like{}).Error; err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&Message{}).Error; err != nil {
			return fmt.Errorf("delete messages: %w", err)
		}
		if err := tx.Delete(user).Error; err != nil {
			return fmt.Errorf("delete user %d: %w", user.ID, err)
		}
		return nil
	})
}
