package model

import "time"

// User represents an identity record in the `users` table. Accounts
// are created out-of-band (seeder or admin tooling); the API only
// reads them during authentication.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – contact email, may be empty.
//  PasswordHash – bcrypt hashed password.
//  IsSuperuser  – grants unrestricted visibility of appointments and reviews.
//  IsActive     – whether the account may log in.
//  DateJoined   – timestamp the account was created.
type User struct {
	ID           uint64    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsSuperuser  bool      `json:"is_superuser"`
	IsActive     bool      `json:"is_active"`
	DateJoined   time.Time `json:"date_joined"`
}
