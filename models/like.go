package models

import (
	"gorm.io/gorm"
)

// Like is a row of the likes join table behind User.Likes.
type Like struct {
	UserID    uint `gorm:"primaryKey"`
	MessageID uint `gorm:"primaryKey"`
}

func (Like) TableName() string {
	return "likes"
}

func HasLiked(db *gorm.DB, user *User, msg *Message) (bool, error) {
	var n int64
	err := db.Model(&Like{}).
		Where("user_id = ? AND message_id = ?", user.ID, msg.ID).
		Count(&n).Error
	return n > 0, err
}

// ToggleLike likes msg for user, or removes the like if it already exists.
// It reports whether the message is liked afterwards.
func ToggleLike(db *gorm.DB, user *User, msg *Message) (bool, error) {
	liked, err := HasLiked(db, user, msg)
	if err != nil {
		return false, err
	}
	if liked {
		return false, db.Model(user).Association("Likes").Delete(msg)
	}
	return true, db.Model(user).Association("Likes").Append(msg)
}

func LikedMessages(db *gorm.DB, user *User) ([]Message, error) {
	var messages []Message
	err := db.Preload("User").
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", user.ID).
		Order("messages.timestamp DESC").
		Find(&messages).Error
	return messages, err
}

// LikedMessageIDs is the set of message ids liked by userID, for rendering like toggles.
func LikedMessageIDs(db *gorm.DB, userID uint) (map[uint]bool, error) {
	var ids []uint
	if err := db.Model(&Like{}).Where("user_id = ?", userID).Pluck("message_id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
