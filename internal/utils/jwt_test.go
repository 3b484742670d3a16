package utils

import (
    "testing"
    "time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
    tok, err := NewAccessToken("s3cret", "alice", RoleEditor, time.Hour)
    if err != nil {
        t.Fatalf("NewAccessToken() error = %v", err)
    }
    if !tok.Exp.After(time.Now()) {
        t.Errorf("Exp = %v, want future", tok.Exp)
    }
    claims, err := ParseAccessToken("s3cret", tok.Token)
    if err != nil {
        t.Fatalf("ParseAccessToken() error = %v", err)
    }
    if claims.Subject != "alice" || claims.Role != RoleEditor {
        t.Errorf("claims = %+v", claims)
    }
}

func TestParseAccessTokenRejects(t *testing.T) {
    good, _ := NewAccessToken("s3cret", "alice", RoleEditor, time.Hour)
    expired, _ := NewAccessToken("s3cret", "alice", RoleEditor, -time.Minute)

    tests := []struct {
        name   string
        secret string
        raw    string
    }{
        {"wrong secret", "other", good.Token},
        {"expired", "s3cret", expired.Token},
        {"garbage", "s3cret", "not-a-jwt"},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            if _, err := ParseAccessToken(tt.secret, tt.raw); err == nil {
                t.Error("ParseAccessToken() should fail")
            }
        })
    }
}

func TestNewAccessTokenEmptySecret(t *testing.T) {
    if _, err := NewAccessToken("", "alice", RoleEditor, time.Hour); err == nil {
        t.Error("empty secret should be rejected")
    }
}
