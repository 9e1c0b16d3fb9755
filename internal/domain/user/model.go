package user

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// VerifyStatus tracks the email-verification/ban state of a user.
// Banned is terminal.
type VerifyStatus int

const (
	Unverified VerifyStatus = iota
	Verified
	Banned
)

func (s VerifyStatus) String() string {
	switch s {
	case Unverified:
		return "unverified"
	case Verified:
		return "verified"
	case Banned:
		return "banned"
	}
	return "unknown"
}

// User is the account record. Password holds only the argon2id hash.
// EmailVerifyToken is non-empty only while verification is pending;
// ForgotPasswordToken only between a forgot-password request and the reset.
type User struct {
	ID                  bson.ObjectID `bson:"_id,omitempty"`
	Username            string        `bson:"username"`
	Email               string        `bson:"email"`
	Password            string        `bson:"password"`
	DateOfBirth         time.Time     `bson:"date_of_birth"`
	Verify              VerifyStatus  `bson:"verify"`
	EmailVerifyToken    string        `bson:"email_verify_token"`
	ForgotPasswordToken string        `bson:"forgot_password_token"`
	Bio                 string        `bson:"bio"`
	Location            string        `bson:"location"`
	Website             string        `bson:"website"`
	Avatar              string        `bson:"avatar"`
	CoverPhoto          string        `bson:"cover_photo"`
	CreatedAt           time.Time     `bson:"created_at"`
	UpdatedAt           time.Time     `bson:"updated_at"`
}

// Profile is the outward projection of a User: no password hash, no tokens.
type Profile struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	DateOfBirth time.Time    `json:"date_of_birth"`
	Verify      VerifyStatus `json:"verify"`
	Bio         string       `json:"bio"`
	Location    string       `json:"location"`
	Website     string       `json:"website"`
	Avatar      string       `json:"avatar"`
	CoverPhoto  string       `json:"cover_photo"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:          u.ID.Hex(),
		Username:    u.Username,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth,
		Verify:      u.Verify,
		Bio:         u.Bio,
		Location:    u.Location,
		Website:     u.Website,
		Avatar:      u.Avatar,
		CoverPhoto:  u.CoverPhoto,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// RefreshToken is a ledger entry for one issued refresh token. A refresh
// token is honoured only while its entry exists.
type RefreshToken struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Token     string        `bson:"token"`
	UserID    bson.ObjectID `bson:"user_id"`
	CreatedAt time.Time     `bson:"created_at"`
}

// Follower is a (user_id, followed_user_id) edge.
type Follower struct {
	ID             bson.ObjectID `bson:"_id,omitempty"`
	UserID         bson.ObjectID `bson:"user_id"`
	FollowedUserID bson.ObjectID `bson:"followed_user_id"`
	CreatedAt      time.Time     `bson:"created_at"`
}

// TokenPair is the result of a successful authentication event.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	AccessTTL    time.Duration `json:"-"`
	RefreshTTL   time.Duration `json:"-"`
	UserID       string        `json:"user_id"`
}
