package cache

import "testing"

func TestProductKey(t *testing.T) {
	t.Parallel()

	if got := ProductKey("BBCA"); got != "product:BBCA" {
		t.Errorf("ProductKey(BBCA) = %q, want product:BBCA", got)
	}
}

func TestAccountKey(t *testing.T) {
	t.Parallel()

	if got := AccountKey(42); got != "account:42" {
		t.Errorf("AccountKey(42) = %q, want account:42", got)
	}
}
