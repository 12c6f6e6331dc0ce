package server

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var (
	ErrInvalidToken = errors.New("token is invalid")
	ErrExpiredToken = errors.New("token has expired")
)

type Payload struct {
	ID      uint
	Expires int64
}

func (payload *Payload) Valid() error {
	if time.Now().After(time.Unix(payload.Expires, 0)) {
		return ErrExpiredToken
	}
	return nil
}

type Token struct {
	secretKey string
}

func NewToken(n int) Token {
	letters := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	s := make([]rune, n)
	for i := range s {
		s[i] = letters[rand.Intn(len(letters))]
	}
	return Token{secretKey: string(s)}
}

func (t *Token) CreateToken(id uint, duration time.Duration) (string, error) {
	payload := Payload{ID: id, Expires: time.Now().Add(duration).Unix()}
	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, &payload)
	signedToken, err := jwtToken.SignedString([]byte(t.secretKey))
	if err != nil {
		return "", err
	}
	return signedToken, nil
}

func ExtractToken(r *http.Request) string {
	bearToken := r.Header.Get("Authorization")
	parts := strings.Split(bearToken, " ")
	if len(parts) == 2 {
		return parts[1]
	}
	return ""
}

func (t *Token) CheckTokenRequest(r *http.Request) (*Payload, error) {
	return t.VerifyToken(ExtractToken(r))
}

func (t *Token) CheckTokenVars(vars map[string]string) (*Payload, error) {
	token, ok := vars["sessionToken"]
	if !ok {
		return nil, fmt.Errorf("missing sessionToken parameter")
	}
	return t.VerifyToken(token)
}

func (t *Token) VerifyToken(token string) (*Payload, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(t.secretKey), nil
	}

	jwtToken, err := jwt.ParseWithClaims(token, &Payload{}, keyFunc)
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && errors.Is(verr.Inner, ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	payload, ok := jwtToken.Claims.(*Payload)
	if !ok {
		return nil, ErrInvalidToken
	}
	return payload, nil
}
