package jwt

import (
	"encoding/json"
	"fmt"
	"time"
	types "xtopay-checkout/internal/common/type"
	"xtopay-checkout/internal/pkg/helper"
	"xtopay-checkout/internal/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

const (
	EmbedDataKey = "embed_data"
)

func getJWTSecret() []byte {
	secret := helper.GetEnv("JWT_SECRET")
	if secret == "" {
		logger.Warning.Println("JWT_SECRET not found, using default secret")
		secret = "$d3f4uIt_s3cr3t_key#"
	}
	return []byte(secret)
}

// GenerateEmbedToken signs a short-lived handle for one embed session. The
// host page presents it when closing or completing the overlay.
func GenerateEmbedToken(data types.EmbedSessionData) (string, *time.Time) {
	var tokenDuration = time.Hour
	exp := time.Now().Add(tokenDuration)

	claims := jwt.MapClaims{
		"exp":        exp.Unix(),
		EmbedDataKey: data,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(getJWTSecret())
	if err != nil {
		return "", nil
	}

	return signedToken, &exp
}

// ValidateEmbedToken parses and verifies an embed handle token.
func ValidateEmbedToken(jwtToken string) (*types.EmbedSessionData, error) {
	token, err := jwt.Parse(jwtToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTSecret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if claims[EmbedDataKey] == nil {
			return nil, fmt.Errorf("embed data not found in token claims")
		}

		raw, err := json.Marshal(claims[EmbedDataKey])
		if err != nil {
			return nil, fmt.Errorf("error marshalling embed data: %v", err)
		}

		var data types.EmbedSessionData
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("error unmarshalling embed data: %v", err)
		}

		return &data, nil
	}

	return nil, fmt.Errorf("invalid token")
}
