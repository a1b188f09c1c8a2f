package access

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"admin", "admin"},
		{"user", "user"},
		{"security", "security"},
		{"", "user"},
		{"superuser", "user"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.role); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestCan(t *testing.T) {
	tests := []struct {
		role string
		area string
		want bool
	}{
		{RoleAdmin, AreaUsers, true},
		{RoleAdmin, AreaUpload, true},
		{RoleUser, AreaUpload, true},
		{RoleUser, AreaUsers, false},
		{RoleSecurity, AreaUpload, false},
		{RoleSecurity, AreaRequests, true},
		{"unknown", AreaUpload, true}, // falls back to user
		{"unknown", AreaUsers, false},
	}

	for _, tt := range tests {
		if got := Can(tt.role, tt.area); got != tt.want {
			t.Errorf("Can(%q, %q) = %v, want %v", tt.role, tt.area, got, tt.want)
		}
	}
}

func TestCheckInAndDelete(t *testing.T) {
	if !CanCheckIn(RoleSecurity) || !CanCheckIn(RoleAdmin) {
		t.Error("security and admin should check in visitors")
	}
	if CanCheckIn(RoleUser) {
		t.Error("user should not check in visitors")
	}
	if !CanDelete(RoleAdmin) {
		t.Error("admin should delete requests")
	}
	if CanDelete(RoleSecurity) || CanDelete(RoleUser) {
		t.Error("only admin should delete requests")
	}
}
