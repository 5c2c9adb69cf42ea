package dump

import "testing"

func TestExtractModifiersNone(t *testing.T) {
	remaining, pre, post, hasPost := ExtractModifiers("plain value")
	if remaining != "plain value" || len(pre) != 0 || hasPost || post != "" {
		t.Fatalf("got remaining=%q pre=%v post=%q hasPost=%v", remaining, pre, post, hasPost)
	}
}

func TestExtractModifiersPreLoad(t *testing.T) {
	remaining, pre, _, hasPost := ExtractModifiers("42//^random(0,100)^//")
	if remaining != "42" {
		t.Fatalf("remaining = %q", remaining)
	}
	if len(pre) != 1 || pre[0] != "random(0,100)" {
		t.Fatalf("pre = %v", pre)
	}
	if hasPost {
		t.Fatalf("did not expect a post-load modifier")
	}
}

func TestExtractModifiersPostLoad(t *testing.T) {
	remaining, pre, post, hasPost := ExtractModifiers("up//$increment(1)")
	if remaining != "up" {
		t.Fatalf("remaining = %q", remaining)
	}
	if len(pre) != 0 {
		t.Fatalf("did not expect a pre-load modifier, got %v", pre)
	}
	if !hasPost || post != "increment(1)" {
		t.Fatalf("post = %q hasPost=%v", post, hasPost)
	}
}
