// Package models holds the dev API's persisted and served data types.
package models

import "time"

// User is an account of the dev API. Email is stored lower-cased.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	FullName     string
	ProfileType  string
	Company      string
	Country      string
	FirmType     string
	MarketRegion string
	CreatedAt    time.Time
}
