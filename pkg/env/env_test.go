package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("STOREFRONT_TEST_VALUE", " 8080 ")
	if got := Get("STOREFRONT_TEST_VALUE", "3000"); got != "8080" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
	if got := Get("STOREFRONT_TEST_MISSING", "3000"); got != "3000" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestFirst(t *testing.T) {
	t.Setenv("STOREFRONT_TEST_A", "")
	t.Setenv("STOREFRONT_TEST_B", "web.2")
	if got := First("local", "STOREFRONT_TEST_A", "STOREFRONT_TEST_B"); got != "web.2" {
		t.Fatalf("expected second key, got %q", got)
	}
	if got := First("local", "STOREFRONT_TEST_A"); got != "local" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
