package utils

import (
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	shopID := int64(3)
	token, err := GenerateAccessToken(42, "owner@shop.test", RoleOwner, &shopID)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "owner@shop.test" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != RoleOwner {
		t.Errorf("Role = %q, want %q", claims.Role, RoleOwner)
	}
	if claims.BarbershopID == nil || *claims.BarbershopID != 3 {
		t.Errorf("BarbershopID = %v, want 3", claims.BarbershopID)
	}
}

func TestAccessTokenSuperAdminHasNoShop(t *testing.T) {
	token, err := GenerateAccessToken(1, "admin@platform.test", RoleSuperAdmin, nil)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.BarbershopID != nil {
		t.Errorf("BarbershopID = %v, want nil", claims.BarbershopID)
	}
}

func TestRefreshTokenCarriesOnlyUserID(t *testing.T) {
	token, err := GenerateRefreshToken(42)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "" || claims.Email != "" {
		t.Errorf("refresh token carries role %q email %q, want empty", claims.Role, claims.Email)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.jwt"); err == nil {
		t.Error("garbage token accepted")
	}
	if _, err := ValidateToken(""); err == nil {
		t.Error("empty token accepted")
	}
}

func TestValidateTokenRejectsTamperedSignature(t *testing.T) {
	token, err := GenerateAccessToken(42, "owner@shop.test", RoleOwner, nil)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	tampered := token[:len(token)-2] + "xx"
	if _, err := ValidateToken(tampered); err == nil {
		t.Error("tampered token accepted")
	}
}
