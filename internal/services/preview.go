package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrPreviewToken = errors.New("invalid preview token")

type previewClaims struct {
	PostID string `json:"post_id"`
	jwt.RegisteredClaims
}

// PreviewSigner mints and checks short-lived tokens that let the public
// frontend render an unpublished post.
type PreviewSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewPreviewSigner(secret string, ttlMin int) *PreviewSigner {
	if ttlMin <= 0 {
		ttlMin = 30
	}
	return &PreviewSigner{secret: []byte(secret), ttl: time.Duration(ttlMin) * time.Minute}
}

func (s *PreviewSigner) Mint(postID string) (string, error) {
	claims := previewClaims{
		PostID: postID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify returns the post ID the token grants access to.
func (s *PreviewSigner) Verify(tokenString string) (string, error) {
	claims := &previewClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrPreviewToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.PostID == "" {
		return "", ErrPreviewToken
	}
	return claims.PostID, nil
}
