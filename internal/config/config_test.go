package config

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("CLUBLIT_TEST_KEY", "set")
	if got := GetEnv("CLUBLIT_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("GetEnv = %q, want %q", got, "set")
	}
	if got := GetEnv("CLUBLIT_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnv = %q, want %q", got, "fallback")
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("CLUBLIT_TEST_INT", "42")
	if got := GetEnvInt("CLUBLIT_TEST_INT", 7); got != 42 {
		t.Errorf("GetEnvInt = %d, want 42", got)
	}

	t.Setenv("CLUBLIT_TEST_INT", "not-a-number")
	if got := GetEnvInt("CLUBLIT_TEST_INT", 7); got != 7 {
		t.Errorf("GetEnvInt on bad value = %d, want default 7", got)
	}

	if got := GetEnvInt("CLUBLIT_TEST_INT_MISSING", 7); got != 7 {
		t.Errorf("GetEnvInt on missing key = %d, want default 7", got)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList("http://localhost:5173, https://clublit.app ,")
	want := []string{"http://localhost:5173", "https://clublit.app"}
	if len(got) != len(want) {
		t.Fatalf("splitList returned %d entries, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
