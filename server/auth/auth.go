package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt"
	"github.com/xrendezvous/ConnectiveApp/server/auth/key"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used to hash user passwords
var BcryptCost = 14

type ConnectiveTokenClaims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.StandardClaims
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func EncodeJWT(claims ConnectiveTokenClaims, keyPair *key.KeyPair) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod("RS256"), claims)
	token.Header["kid"] = keyPair.Kid

	tokenString, err := token.SignedString(keyPair.PrivateKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func DecodeJWT(tokenString string, keyPair *key.KeyPair) (*ConnectiveTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ConnectiveTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return keyPair.PublicKey, nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid jwt: %v", err)
	}

	tokenClaims, ok := token.Claims.(*ConnectiveTokenClaims)
	if !ok {
		return nil, fmt.Errorf("unable to assert token.Claims to ConnectiveTokenClaims")
	}

	return tokenClaims, nil
}
