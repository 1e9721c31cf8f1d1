package models

import (
	"gorm.io/gorm"
)

// Follow is a row of the follows join table behind User.Following/Followers.
type Follow struct {
	FollowerID uint `gorm:"primaryKey"`
	FollowedID uint `gorm:"primaryKey"`
}

func (Follow) TableName() string {
	return "follows"
}

// IsFollowing reports whether user follows other.
func IsFollowing(db *gorm.DB, user, other *User) (bool, error) {
	var n int64
	err := db.Model(&Follow{}).
		Where("follower_id = ? AND followed_id = ?", user.ID, other.ID).
		Count(&n).Error
	return n > 0, err
}

// IsFollowedBy reports whether other follows user.
func IsFollowedBy(db *gorm.DB, user, other *User) (bool, error) {
	return IsFollowing(db, other, user)
}

func FollowUser(db *gorm.DB, follower, followed *User) error {
	return db.Model(follower).Association("Following").Append(followed)
}

func UnfollowUser(db *gorm.DB, follower, followed *User) error {
	return db.Model(follower).Association("Following").Delete(followed)
}

func FollowingOf(db *gorm.DB, user *User) ([]*User, error) {
	var users []*User
	err := db.Model(user).Order("username").Association("Following").Find(&users)
	return users, err
}

func FollowersOf(db *gorm.DB, user *User) ([]*User, error) {
	var users []*User
	err := db.Model(user).Order("username").Association("Followers").Find(&users)
	return users, err
}

func FollowingIDs(db *gorm.DB, userID uint) (map[uint]bool, error) {
	var ids []uint
	if err := db.Model(&Follow{}).Where("follower_id = ?", userID).Pluck("followed_id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
