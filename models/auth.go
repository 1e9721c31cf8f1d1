package models

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordCost is the bcrypt cost used when hashing new passwords.
var PasswordCost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// Signup hashes the password and inserts a new user through db, which may be
// a transaction owned by the caller. Uniqueness is left to the database: a
// taken username or email comes back as an error for which IsIntegrityError
// holds.
func Signup(db *gorm.DB, username, email, password, imageURL string) (*User, error) {
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username: username,
		Email:    email,
		Password: hashed,
		ImageURL: imageURL,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("signup %q: %w", username, err)
	}
	return user, nil
}

// Authenticate returns the user when username and password match. Unknown
// usernames and wrong passwords yield a nil user and a nil error; only
// storage failures are reported as errors.
func Authenticate(db *gorm.DB, username, password string) (*User, error) {
	var user User
	err := db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate %q: %w", username, err)
	}
	if !user.CheckPassword(password) {
		return nil, nil
	}
	return &user, nil
}
