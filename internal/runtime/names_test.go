package runtime

import "testing"

func TestWorkspaceContainerName(t *testing.T) {
	tests := []struct {
		domain    string
		workspace string
		want      string
	}{
		{"work", "api", "darp_work_api"},
		{"personal", "blog", "darp_personal_blog"},
		{"a", "b", "darp_a_b"},
	}
	for _, tt := range tests {
		if got := WorkspaceContainerName(tt.domain, tt.workspace); got != tt.want {
			t.Errorf("WorkspaceContainerName(%q, %q) = %q, want %q",
				tt.domain, tt.workspace, got, tt.want)
		}
	}
}
