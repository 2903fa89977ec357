package models

import "github.com/golang-jwt/jwt/v5"

// TokenDetails holds a freshly issued access/refresh token pair together with
// the UUIDs under which the pair is registered in the token store.
type TokenDetails struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	AccessUUID   string `json:"-"`
	RefreshUUID  string `json:"-"`
	AtExpires    int64  `json:"at_expires"`
	RtExpires    int64  `json:"rt_expires"`
}

// Claims represents the JWT claims carried by both access and refresh tokens.
type Claims struct {
	AccountID int64 `json:"account_id"`
	jwt.RegisteredClaims
}
