package controllers

type StandardResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type SignupForm struct {
	Username string `form:"username" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
	ImageURL string `form:"image_url"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type MessageForm struct {
	Text string `form:"text" json:"text" binding:"required"`
}

type ProfileForm struct {
	Username       string `form:"username" binding:"required"`
	Email          string `form:"email" binding:"required,email"`
	ImageURL       string `form:"image_url"`
	HeaderImageURL string `form:"header_image_url"`
	Bio            string `form:"bio"`
	Location       string `form:"location"`
	Password       string `form:"password" binding:"required"`
}

type TokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserSummary struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ImageURL       string `json:"imageUrl"`
	HeaderImageURL string `json:"headerImageUrl"`
	Bio            string `json:"bio,omitempty"`
	Location       string `json:"location,omitempty"`
	MessagesCount  int64  `json:"messagesCount"`
	FollowersCount int64  `json:"followersCount"`
	FollowingCount int64  `json:"followingCount"`
	LikesCount     int64  `json:"likesCount"`
}

type MessageResponse struct {
	ID        uint   `json:"id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	UserID    uint   `json:"userId"`
	Username  string `json:"username,omitempty"`
}
