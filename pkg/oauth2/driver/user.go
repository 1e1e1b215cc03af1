package driver

import (
	"time"

	"golang.org/x/oauth2"
)

const TokenTypeBearer = "bearer"

type EmailVerificationState string

const (
	EmailVerified    EmailVerificationState = "verified"
	EmailUnverified  EmailVerificationState = "unverified"
	EmailUnsupported EmailVerificationState = "unsupported"
)

type AccessToken struct {
	Token string `json:"token"`
	Type  string `json:"type"`

	RefreshToken string    `json:"refreshToken,omitempty"`
	IDToken      string    `json:"idToken,omitempty"`
	Expiry       time.Time `json:"expiry,omitzero"`
}

func NewAccessToken(token *oauth2.Token) *AccessToken {
	accessToken := &AccessToken{
		Token:        token.AccessToken,
		Type:         TokenTypeBearer,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}

	if idToken, ok := token.Extra("id_token").(string); ok {
		accessToken.IDToken = idToken
	}

	return accessToken
}

// User is the provider independent shape of an authenticated user.
type User struct {
	ID                     string                 `json:"id"`
	NickName               string                 `json:"nickName"`
	Name                   string                 `json:"name"`
	Email                  string                 `json:"email"`
	AvatarURL              string                 `json:"avatarUrl"`
	EmailVerificationState EmailVerificationState `json:"emailVerificationState"`
	Original               map[string]any         `json:"original"`
	Token                  AccessToken            `json:"token"`
}
