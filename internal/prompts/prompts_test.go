package prompts

import (
	"strings"
	"testing"
)

func TestRenderRewrite(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		previous []string
		want     string
	}{
		{
			name: "no history",
			want: "Current question: giá sữa tươi?\n\nGenerate an optimized search query combining relevant context from previous questions with the current question:",
		},
		{
			name:     "with history",
			previous: []string{"sữa Vinamilk", "loại 1L"},
			want:     "Previous questions:\n- sữa Vinamilk\n- loại 1L\n\nCurrent question: giá sữa tươi?\n\nGenerate an optimized search query combining relevant context from previous questions with the current question:",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sys, user, err := RenderRewrite("giá sữa tươi?", tt.previous)
			if err != nil {
				t.Fatalf("RenderRewrite: %v", err)
			}
			if !strings.Contains(sys, "search query optimizer") || !strings.Contains(sys, "Return ONLY the optimized search query") {
				t.Fatalf("unexpected system prompt %q", sys)
			}
			if user != tt.want {
				t.Fatalf("user prompt =\n%q\nwant\n%q", user, tt.want)
			}
		})
	}
}

func TestRenderAnswerSystem(t *testing.T) {
	t.Parallel()
	sys, err := RenderAnswerSystem([]Retailer{
		{Name: "Kingfoodmart", URL: "https://kingfoodmart.com", Host: "kingfoodmart.com"},
		{Name: "Bách Hóa Xanh", URL: "https://bachhoaxanh.com", Host: "bachhoaxanh.com"},
		{Name: "Winmart", URL: "https://winmart.vn", Host: "winmart.vn"},
	})
	if err != nil {
		t.Fatalf("RenderAnswerSystem: %v", err)
	}
	for _, want := range []string{
		"Allowed domains: https://kingfoodmart.com, https://bachhoaxanh.com, https://winmart.vn",
		"**DISCOUNT: X%**",
		"**SALE PRICE**",
		"[Product Name](URL)",
		"NEVER mix languages",
		"- Mention \"Kingfoodmart\" if there's data from kingfoodmart.com",
		"- Mention \"Bách Hóa Xanh\" if there's data from bachhoaxanh.com",
		"- Mention \"Winmart\" if there's data from winmart.vn",
	} {
		if !strings.Contains(sys, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	if strings.HasSuffix(sys, "\n") {
		t.Errorf("system prompt should not end with a newline")
	}
}

func TestRenderAnswerUser(t *testing.T) {
	t.Parallel()
	got, err := RenderAnswerUser("Sữa tươi giá bao nhiêu?", "", "")
	if err != nil {
		t.Fatalf("RenderAnswerUser: %v", err)
	}
	want := "Search results:\n\n\nUser question: Sữa tươi giá bao nhiêu?\n\nRetailers with data: "
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	// template syntax inside values is data, not markup
	got, err = RenderAnswerUser("{{.Question}}", "Source: a", "Winmart")
	if err != nil {
		t.Fatalf("RenderAnswerUser: %v", err)
	}
	if !strings.Contains(got, "User question: {{.Question}}") || !strings.HasSuffix(got, "Retailers with data: Winmart") {
		t.Fatalf("unexpected prompt %q", got)
	}
}
