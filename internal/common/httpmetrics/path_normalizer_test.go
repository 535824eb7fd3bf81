package httpmetrics

import "testing"

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", "/"},
		{"root", "/", "/"},
		{"static", "/api/posts/me", "/api/posts/me"},
		{"auth", "/api/auth/login", "/api/auth/login"},
		{"uuid", "/api/posts/3f2504e0-4f89-41d3-9a0c-0305e82c3301", "/api/posts/{id}"},
		{"uppercase uuid", "/api/posts/update/3F2504E0-4F89-41D3-9A0C-0305E82C3301", "/api/posts/update/{id}"},
		{"numeric", "/api/posts/delete/42", "/api/posts/delete/{id}"},
		{"malformed id", "/api/posts/not-a-uuid", "/api/posts/{id}"},
		{"malformed update id", "/api/posts/update/abc", "/api/posts/update/{id}"},
		{"trailing slash", "/api/posts/", unmatchedPath},
		{"unknown", "/wp-admin/login.php", unmatchedPath},
		{"deep unknown", "/api/posts/a/b/c", unmatchedPath},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizePath(tc.path); got != tc.want {
				t.Errorf("NormalizePath(%q) = %q, want %q", tc.path, got, tc.want)
			}
		})
	}
}
