package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminCan(t *testing.T) {
	tests := []struct {
		name  string
		admin string
		tag   string
		want  bool
	}{
		{"super admin", `{"is_super_admin":true,"permissions":null}`, "admin-management", true},
		{"direct tag as JSON string", `{"permissions":"[\"admin-management\"]"}`, "admin-management", true},
		{"bare scalar", `{"permissions":"admin-management"}`, "admin-management", true},
		{"wildcard", `{"permissions":["*"]}`, "user-management", true},
		{"through role", `{"permissions":[],"role":{"id":1,"name":"Ops","permissions":["admin-management"]}}`, "admin-management", true},
		{"missing tag", `{"permissions":["user-management"],"role":{"id":2,"name":"Support","permissions":"transactions"}}`, "admin-management", false},
		{"no permissions", `{}`, "admin-management", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Admin
			require.NoError(t, json.Unmarshal([]byte(tt.admin), &a))
			assert.Equal(t, tt.want, a.Can(tt.tag))
		})
	}
}
