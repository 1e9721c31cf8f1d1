package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

// MaxMessageLength is counted in characters and matches the text column size.
const MaxMessageLength = 140

var (
	ErrEmptyMessage   = errors.New("message text is empty")
	ErrMessageTooLong = fmt.Errorf("message text is longer than %d characters", MaxMessageLength)
)

// NormalizeText trims surrounding whitespace and checks the result fits a message.
func NormalizeText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return "", ErrMessageTooLong
	}
	return text, nil
}

type Message struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Text      string    `gorm:"type:varchar(140);not null" json:"text"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if utf8.RuneCountInString(m.Text) > MaxMessageLength {
		return ErrMessageTooLong
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	return nil
}

func (m *Message) String() string {
	return fmt.Sprintf("<Message #%d: %s>", m.ID, m.Text)
}

func FindMessage(db *gorm.DB, id uint) (*Message, error) {
	var msg Message
	if err := db.Preload("User").First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func MessagesBy(db *gorm.DB, userID uint, limit int) ([]Message, error) {
	var messages []Message
	err := db.Preload("User").
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// Timeline returns the latest messages written by user or by anyone user follows.
func Timeline(db *gorm.DB, user *User, limit int) ([]Message, error) {
	followed := db.Model(&Follow{}).Select("followed_id").Where("follower_id = ?", user.ID)

	var messages []Message
	err := db.Preload("User").
		Where("user_id = ? OR user_id IN (?)", user.ID, followed).
		Order("timestamp DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// DeleteMessage removes msg and the likes pointing at it.
func DeleteMessage(db *gorm.DB, msg *Message) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", msg.ID).Delete(&Like{}).Error; err != nil {
			return fmt.Errorf("delete likes of message %d: %w", msg.ID, err)
		}
		if err := tx.Delete(msg).Error; err != nil {
			return fmt.Errorf("delete message %d: %w", msg.ID, err)
		}
		return nil
	})
}
