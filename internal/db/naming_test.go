package db

import "testing"

func TestModelName(t *testing.T) {
	tests := []struct {
		table string
		want  string
	}{
		{"users", "User"},
		{"order_items", "OrderItem"},
		{"companies", "Company"},
		{"status", "Status"},
		{"UserAccounts", "UserAccount"},
		{"audit-log", "AuditLog"},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			if got := modelName(tt.table); got != tt.want {
				t.Errorf("modelName(%q) = %q, want %q", tt.table, got, tt.want)
			}
		})
	}
}

func TestUniqueModelName(t *testing.T) {
	taken := map[string]bool{}

	first := uniqueModelName("user", taken)
	second := uniqueModelName("users", taken)
	third := uniqueModelName("User", taken)

	if first != "User" || second != "Users" || third != "User2" {
		t.Errorf("uniqueModelName() = %q, %q, %q, want User, Users, User2", first, second, third)
	}
}

func TestCamelCase(t *testing.T) {
	tests := []struct {
		column string
		want   string
	}{
		{"company_id", "companyId"},
		{"companyId", "companyId"},
		{"ID", "id"},
		{"created_at", "createdAt"},
		{"Email", "email"},
		{"first name", "firstName"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			if got := camelCase(tt.column); got != tt.want {
				t.Errorf("camelCase(%q) = %q, want %q", tt.column, got, tt.want)
			}
		})
	}
}

func TestForwardRelationName(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		fields  map[string]string
		target  string
		want    string
	}{
		{"snake case id", []string{"company_id"}, map[string]string{"company_id": "companyId"}, "Company", "company"},
		{"camel case id", []string{"authorId"}, map[string]string{"authorId": "authorId"}, "User", "author"},
		{"no id suffix", []string{"owner"}, map[string]string{"owner": "owner"}, "User", "user"},
		{"bare id", []string{"id"}, map[string]string{"id": "id"}, "Account", "account"},
		{"composite", []string{"a_id", "b_id"}, map[string]string{}, "OrderItem", "orderItem"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := forwardRelationName(tt.columns, tt.fields, tt.target); got != tt.want {
				t.Errorf("forwardRelationName() = %q, want %q", got, tt.want)
			}
		})
	}
}
