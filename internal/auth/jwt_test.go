package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// 44-character base64 string, as produced by `openssl rand -base64 32`
const testSecret = "wJ6Qk8Qn1v9Qw1Zb2l8Qk9J3p6Qk8Qn1v9Qw1Zb2l8Qk="

func TestGenerateToken(t *testing.T) {
	svc := NewJWTService(testSecret)

	tests := []struct {
		name     string
		userID   string
		username string
		wantErr  bool
	}{
		{
			name:     "valid token",
			userID:   "user-123",
			username: "ravi",
			wantErr:  false,
		},
		{
			name:     "empty userID",
			userID:   "",
			username: "ravi",
			wantErr:  true,
		},
		{
			name:     "empty username",
			userID:   "user-123",
			username: "",
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.GenerateToken(tt.userID, tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("GenerateToken() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err == nil && token == "" {
				t.Error("GenerateToken() returned empty token")
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	svc := NewJWTService(testSecret)

	validToken, err := svc.GenerateToken("user-123", "ravi")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	tests := []struct {
		name         string
		token        string
		wantUserID   string
		wantUsername string
		wantErr      error
	}{
		{
			name:         "valid token",
			token:        validToken,
			wantUserID:   "user-123",
			wantUsername: "ravi",
			wantErr:      nil,
		},
		{
			name:    "invalid token format",
			token:   "not-a-valid-token",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidateToken(tt.token)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("ValidateToken() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateToken() unexpected error = %v", err)
				return
			}
			if claims.Subject != tt.wantUserID {
				t.Errorf("ValidateToken() Subject = %v, want %v", claims.Subject, tt.wantUserID)
			}
			if claims.Username != tt.wantUsername {
				t.Errorf("ValidateToken() Username = %v, want %v", claims.Username, tt.wantUsername)
			}
		})
	}
}

func TestTokenClaims(t *testing.T) {
	svc := NewJWTService(testSecret)

	beforeGen := time.Now().Add(-1 * time.Second)
	token, err := svc.GenerateToken("user-123", "ravi")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	afterGen := time.Now().Add(1 * time.Second)

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if claims.Subject != "user-123" {
		t.Errorf("Subject = %v, want user-123", claims.Subject)
	}
	if claims.Username != "ravi" {
		t.Errorf("Username = %v, want ravi", claims.Username)
	}

	if claims.IssuedAt == nil {
		t.Error("IssuedAt is nil")
	} else {
		iat := claims.IssuedAt.Time
		if iat.Before(beforeGen) || iat.After(afterGen) {
			t.Errorf("IssuedAt = %v, want between %v and %v", iat, beforeGen, afterGen)
		}
	}

	if claims.ExpiresAt == nil {
		t.Error("ExpiresAt is nil")
	} else {
		expectedExp := claims.IssuedAt.Time.Add(AccessTokenExpiry)
		if !claims.ExpiresAt.Time.Equal(expectedExp) {
			t.Errorf("ExpiresAt = %v, want %v", claims.ExpiresAt.Time, expectedExp)
		}
	}
}

func TestExpiredToken(t *testing.T) {
	svc := NewJWTServiceWithLeeway(testSecret, 0) // No leeway for this test

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-expired",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Hour)), // Expired 1 hour ago
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to create expired token: %v", err)
	}

	_, err = svc.ValidateToken(tokenString)
	if err != ErrExpiredToken {
		t.Errorf("ValidateToken() error = %v, want %v", err, ErrExpiredToken)
	}
}

func TestTamperedToken(t *testing.T) {
	svc := NewJWTService(testSecret)

	validToken, err := svc.GenerateToken("user-123", "ravi")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	parts := strings.Split(validToken, ".")
	if len(parts) != 3 {
		t.Fatalf("Invalid token format")
	}

	// Corrupt the signature
	tamperedToken := parts[0] + "." + parts[1] + ".tamperedsignature"

	_, err = svc.ValidateToken(tamperedToken)
	if err != ErrInvalidToken {
		t.Errorf("ValidateToken() error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestWrongSecretToken(t *testing.T) {
	svc1 := NewJWTService("secret-one")
	svc2 := NewJWTService("secret-two")

	token, err := svc1.GenerateToken("user-123", "ravi")
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	_, err = svc2.ValidateToken(token)
	if err != ErrInvalidToken {
		t.Errorf("ValidateToken() error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestLeewayValidation(t *testing.T) {
	// Create a token that expired just now (within leeway)
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-leeway",
			IssuedAt:  jwt.NewNumericDate(now.Add(-1 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second)), // Expired 10 seconds ago
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}

	t.Run("with default leeway (30s) - should pass", func(t *testing.T) {
		svc := NewJWTService(testSecret) // Default 30s leeway
		_, err := svc.ValidateToken(tokenString)
		if err != nil {
			t.Errorf("ValidateToken() error = %v, expected no error (within leeway)", err)
		}
	})

	t.Run("with no leeway - should fail", func(t *testing.T) {
		svc := NewJWTServiceWithLeeway(testSecret, 0)
		_, err := svc.ValidateToken(tokenString)
		if err != ErrExpiredToken {
			t.Errorf("ValidateToken() error = %v, want %v", err, ErrExpiredToken)
		}
	})
}
