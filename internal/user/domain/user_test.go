package domain

import (
	"testing"
	"time"
)

func TestUser_Validate(t *testing.T) {
	clientID := "c1"

	u := &User{Email: "a@b.co", Role: RoleClient}
	if err := u.Validate(); err != nil {
		t.Fatalf("client: %v", err)
	}

	u = &User{Email: "a@b.co", Role: RoleMember}
	if err := u.Validate(); err == nil {
		t.Fatal("member without client id should fail")
	}

	u = &User{Email: "a@b.co", Role: RoleMember, ClientID: &clientID}
	if err := u.Validate(); err != nil {
		t.Fatalf("member with client id: %v", err)
	}

	u = &User{Email: "a@b.co", Role: RoleClient, ClientID: &clientID}
	if err := u.Validate(); err == nil {
		t.Fatal("client with client id should fail")
	}

	u = &User{Email: "", Role: RoleAdmin}
	if err := u.Validate(); err == nil {
		t.Fatal("empty email should fail")
	}

	u = &User{Email: "a@b.co", Role: Role("owner")}
	if err := u.Validate(); err == nil {
		t.Fatal("unknown role should fail")
	}
}

func TestUser_Sanitized(t *testing.T) {
	clientID := "c1"
	u := &User{
		ID:           "u1",
		Name:         "Jane",
		Email:        "jane@example.com",
		PasswordHash: "$2a$10$secret",
		Phone:        "+15550001111",
		Role:         RoleMember,
		ClientID:     &clientID,
		CreatedAt:    time.Now(),
	}
	p := u.Sanitized()
	if p.ID != "u1" || p.Email != "jane@example.com" || p.Role != RoleMember {
		t.Errorf("unexpected profile: %+v", p)
	}
	if p.ClientID == nil || *p.ClientID != clientID {
		t.Error("profile should keep client id")
	}
}
