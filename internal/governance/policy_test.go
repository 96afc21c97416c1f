package governance

import (
	"context"
	"testing"
)

func TestDefaultPolicyEngine_Evaluate(t *testing.T) {
	engine := NewDefaultPolicyEngine()
	ctx := context.Background()

	// Test Allow (Default)
	req1 := Request{Tool: "search"}
	res1, err := engine.Evaluate(ctx, req1)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res1.Effect != EffectAllow {
		t.Errorf("Expected EffectAllow, got %s", res1.Effect)
	}

	// Test Deny
	engine.DenyTool("browser")
	req2 := Request{Tool: "browser"}
	res2, err := engine.Evaluate(ctx, req2)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res2.Effect != EffectDeny {
		t.Errorf("Expected EffectDeny, got %s", res2.Effect)
	}
}

func TestDefaultPolicyEngine_DenyArguments(t *testing.T) {
	engine := NewDefaultPolicyEngine()
	ctx := context.Background()

	if err := engine.DenyArguments(`file://`); err != nil {
		t.Fatalf("DenyArguments failed: %v", err)
	}

	res, err := engine.Evaluate(ctx, Request{Tool: "scraper", Arguments: `{"url":"file:///etc/passwd"}`})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Effect != EffectDeny {
		t.Errorf("Expected EffectDeny for file URL, got %s", res.Effect)
	}

	res, err = engine.Evaluate(ctx, Request{Tool: "scraper", Arguments: `{"url":"https://example.com"}`})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Effect != EffectAllow {
		t.Errorf("Expected EffectAllow for https URL, got %s", res.Effect)
	}
}

func TestDefaultPolicyEngine_DenyURLScheme(t *testing.T) {
	engine := NewDefaultPolicyEngine()
	engine.DenyURLScheme("file")

	res, err := engine.Evaluate(context.Background(), Request{Tool: "browser", Arguments: `{"action":"navigate","url":"file:///etc/hosts"}`})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Effect != EffectDeny {
		t.Errorf("Expected EffectDeny for a file URL, got %s", res.Effect)
	}
}

func TestDefaultPolicyEngine_DenyLocalTargets(t *testing.T) {
	engine := NewDefaultPolicyEngine()
	engine.DenyLocalTargets()
	ctx := context.Background()

	for _, arg := range []string{
		`{"url":"http://localhost:8080/admin"}`,
		`{"url":"https://127.0.0.1/"}`,
	} {
		res, err := engine.Evaluate(ctx, Request{Tool: "scraper", Arguments: arg})
		if err != nil {
			t.Fatalf("Evaluate failed: %v", err)
		}
		if res.Effect != EffectDeny {
			t.Errorf("Expected EffectDeny for %s, got %s", arg, res.Effect)
		}
	}

	res, err := engine.Evaluate(ctx, Request{Tool: "scraper", Arguments: `{"url":"https://example.com"}`})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if res.Effect != EffectAllow {
		t.Errorf("Expected EffectAllow for a public URL, got %s", res.Effect)
	}
}

func TestDefaultPolicyEngine_BadPattern(t *testing.T) {
	engine := NewDefaultPolicyEngine()
	if err := engine.DenyArguments(`([`); err == nil {
		t.Error("Expected an error for an invalid pattern")
	}
}
