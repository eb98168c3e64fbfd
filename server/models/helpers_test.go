package models

import (
	"testing"

	"github.com/xrendezvous/ConnectiveApp/server/auth"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

func createTestUser(t *testing.T, username string) *User {
	t.Helper()

	user := &User{
		Username: username,
		Email:    username + "@example.com",
		Password: "very-secure",
	}

	if err := CreateUser(user); err != nil {
		t.Fatalf("could not create user %v: %v", username, err)
	}

	return user
}

func birthdate(value string) *Date {
	date, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return &date
}
