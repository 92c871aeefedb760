package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-doc-ledger/models"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	userID := "user-123"
	duration := time.Hour
	key := "secret-key"

	token, err := GenerateJWTToken(issuer, userID, duration, key)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token.SignedString == "" {
		t.Error("expected non-empty SignedString")
	}
	if token.Token == nil {
		t.Error("expected non-nil jwt.Token object")
	}

	// Verify claims
	claims, ok := token.Token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		t.Fatal("could not cast claims to RegisteredClaims")
	}
	if claims.Issuer != issuer {
		t.Errorf("expected issuer %s, got %s", issuer, claims.Issuer)
	}
	if claims.Subject != "user-123" {
		t.Errorf("expected subject 'user-123', got %s", claims.Subject)
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		userID   string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", "user-1", time.Hour, "key"},
		{"empty user ID", "iss", "", time.Hour, "key"},
		{"zero duration", "iss", "user-1", 0, "key"},
		{"empty key", "iss", "user-1", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateJWTToken(tt.issuer, tt.userID, tt.duration, tt.key)
			if err == nil {
				t.Error("expected error for invalid parameters, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken_Success(t *testing.T) {
	issuer := "test-issuer"
	userID := "user-456"
	key := "secret-key"
	duration := time.Minute * 5

	// First generate a valid token
	genToken, _ := GenerateJWTToken(issuer, userID, duration, key)

	// Now validate it
	parsedToken, err := ValidateAndParseJWTToken(genToken.SignedString, key, issuer)

	if err != nil {
		t.Fatalf("expected token to be valid, got error: %v", err)
	}
	if parsedToken.UserID != userID {
		t.Errorf("expected userID %q, got %q", userID, parsedToken.UserID)
	}
}

func TestValidateAndParseJWTToken_InvalidKey(t *testing.T) {
	issuer := "test-issuer"
	key := "correct-key"
	wrongKey := "wrong-key"

	genToken, _ := GenerateJWTToken(issuer, "user-1", time.Hour, key)

	_, err := ValidateAndParseJWTToken(genToken.SignedString, wrongKey, issuer)
	if err == nil {
		t.Error("expected error due to signature mismatch, got nil")
	}
}

func TestValidateAndParseJWTToken_Expired(t *testing.T) {
	issuer := "test-issuer"
	key := "key"
	// Token that expired 1 second ago
	genToken, _ := GenerateJWTToken(issuer, "user-1", -time.Second, key)

	_, err := ValidateAndParseJWTToken(genToken.SignedString, key, issuer)
	if err == nil {
		t.Error("expected error for expired token, got nil")
	}
}

func TestValidateAndParseJWTToken_WrongIssuer(t *testing.T) {
	key := "key"
	genToken, _ := GenerateJWTToken("real-issuer", "user-1", time.Hour, key)

	_, err := ValidateAndParseJWTToken(genToken.SignedString, key, "fake-issuer")
	if err == nil {
		t.Error("expected error for issuer mismatch, got nil")
	}
}

func TestValidateAndParseJWTToken_Malformed(t *testing.T) {
	_, err := ValidateAndParseJWTToken("not.a.token", "key", "iss")
	if err == nil {
		t.Error("expected error for malformed token string, got nil")
	}
}

func TestTokenGetUserID(t *testing.T) {
	token := models.Token{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-7"},
	}

	userID, err := token.GetUserID()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if userID != "user-7" {
		t.Errorf("expected 'user-7', got %q", userID)
	}
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"missing token", "Bearer", "", true},
		{"empty header", "", "", true},
		{"empty token value", "Bearer ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
