package main

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/myrjola/liftcalc/internal/e2etest"
	"github.com/myrjola/liftcalc/internal/testhelpers"
)

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "LIFTCALC_SQLITE_URL":
		return ":memory:", true
	case "LIFTCALC_ADDR":
		return "localhost:0", true
	default:
		return "", false
	}
}

func startTestServer(t *testing.T) *e2etest.Client {
	t.Helper()
	server, err := e2etest.StartServer(t, testhelpers.NewWriter(t), testLookupEnv, run)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	return server.Client()
}

// texts returns the text of every element in sel with whitespace collapsed.
func texts(sel *goquery.Selection) []string {
	out := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.Join(strings.Fields(s.Text()), " "))
	})
	return out
}

func Test_application_home(t *testing.T) {
	var (
		ctx    = t.Context()
		client = startTestServer(t)
		doc    *goquery.Document
		err    error
	)

	t.Run("Initial state", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, "/"); err != nil {
			t.Fatalf("Failed to get document: %v", err)
		}
		if doc.Find("form[action='/calculate']").Length() != 1 {
			t.Error("Expected calculator form")
		}
		if got := doc.Find(".set-row").Length(); got != 0 {
			t.Errorf("Expected no sets before calculating, got %d", got)
		}
		if got, _ := doc.Find("#sets").Attr("value"); got != "7" {
			t.Errorf("Expected default sets 7, got %q", got)
		}
	})

	t.Run("Work up to 300", func(t *testing.T) {
		formData := map[string]string{
			"Exercise":         "Back squat",
			"Mode":             "1rm",
			"Target weight":    "300",
			"Scheme":           "standard",
			"Use small plates": "on",
		}
		if doc, err = client.SubmitForm(ctx, doc, "/calculate", formData); err != nil {
			t.Fatalf("Failed to submit form: %v", err)
		}

		wantWeights := []string{"180", "210", "235", "255", "275", "290", "300"}
		if diff := cmp.Diff(wantWeights, texts(doc.Find(".set-row .set-weight"))); diff != "" {
			t.Errorf("Set weights mismatch (-want +got):\n%s", diff)
		}
		wantPercentages := []string{"60%", "70%", "78%", "85%", "92%", "97%", "100%"}
		if diff := cmp.Diff(wantPercentages, texts(doc.Find(".set-row .set-percentage"))); diff != "" {
			t.Errorf("Percentages mismatch (-want +got):\n%s", diff)
		}

		wantFirst := []string{"45 × 1", "15 × 1", "5 × 1", "2.5 × 1"}
		if diff := cmp.Diff(wantFirst, texts(doc.Find(".set-row").First().Find(".plate-counts li"))); diff != "" {
			t.Errorf("Plates of first set mismatch (-want +got):\n%s", diff)
		}
		wantLast := []string{"45 × 2", "35 × 1", "2.5 × 1"}
		if diff := cmp.Diff(wantLast, texts(doc.Find(".set-row").Last().Find(".plate-counts li"))); diff != "" {
			t.Errorf("Plates of last set mismatch (-want +got):\n%s", diff)
		}
		if got := doc.Find(".set-row").Last().Find(".plate-stack .plate").Length(); got != 4 {
			t.Errorf("Expected 4 plates drawn on the last set, got %d", got)
		}
		if doc.Find(".max-effort").Length() != 1 {
			t.Error("Expected max effort warning for a squat single")
		}
		if got, _ := doc.Find("#target_weight").Attr("value"); got != "300" {
			t.Errorf("Expected the form to keep the target weight, got %q", got)
		}
	})

	t.Run("Uniform sets", func(t *testing.T) {
		formData := map[string]string{
			"Mode":           "uniform",
			"Working weight": "135",
			"Sets":           "3",
			"Reps":           "5",
		}
		if doc, err = client.SubmitForm(ctx, doc, "/calculate", formData); err != nil {
			t.Fatalf("Failed to submit form: %v", err)
		}
		if diff := cmp.Diff([]string{"135", "135", "135"}, texts(doc.Find(".set-row .set-weight"))); diff != "" {
			t.Errorf("Set weights mismatch (-want +got):\n%s", diff)
		}
		wantPlates := []string{"45 × 1"}
		if diff := cmp.Diff(wantPlates, texts(doc.Find(".set-row").First().Find(".plate-counts li"))); diff != "" {
			t.Errorf("Plates mismatch (-want +got):\n%s", diff)
		}
		if doc.Find(".max-effort").Length() != 0 {
			t.Error("Expected no max effort warning in uniform mode")
		}
	})

	t.Run("Invalid weight shows no sets", func(t *testing.T) {
		if doc, err = client.SubmitForm(ctx, doc, "/calculate", map[string]string{"Target weight": "abc"}); err != nil {
			t.Fatalf("Failed to submit form: %v", err)
		}
		if got := doc.Find(".set-row").Length(); got != 0 {
			t.Errorf("Expected no sets, got %d", got)
		}
		if doc.Find(".results .empty").Length() != 1 {
			t.Error("Expected hint to enter a weight")
		}
	})

	t.Run("Reset", func(t *testing.T) {
		if doc, err = client.SubmitForm(ctx, doc, "/reset", nil); err != nil {
			t.Fatalf("Failed to reset: %v", err)
		}
		if doc.Find(".results").Length() != 0 {
			t.Error("Expected no results after reset")
		}
		if got, _ := doc.Find("#target_weight").Attr("value"); got != "" {
			t.Errorf("Expected empty target weight after reset, got %q", got)
		}
	})
}

func Test_application_home_shortfall(t *testing.T) {
	var (
		ctx    = t.Context()
		client = startTestServer(t)
	)

	// Only two pairs of 45s and nothing else.
	for _, d := range []string{"35", "25", "15", "10", "5", "2.5"} {
		if _, err := client.PostForm(ctx, "/settings/plates/"+d+"/toggle", nil); err != nil {
			t.Fatalf("Failed to toggle plate %s: %v", d, err)
		}
	}
	// Limiting an unlimited plate starts at two pairs.
	if _, err := client.PostForm(ctx, "/settings/plates/45/quantity", map[string][]string{"action": {"inc"}}); err != nil {
		t.Fatalf("Failed to adjust quantity: %v", err)
	}

	doc, err := client.PostForm(ctx, "/calculate", map[string][]string{
		"mode":           {"uniform"},
		"uniform_weight": {"315"},
		"sets":           {"1"},
	})
	if err != nil {
		t.Fatalf("Failed to calculate: %v", err)
	}
	if diff := cmp.Diff([]string{"45 × 2"}, texts(doc.Find(".set-row .plate-counts li"))); diff != "" {
		t.Errorf("Plates mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Short 90.0 lbs (limited plates)"}, texts(doc.Find(".set-row .shortfall"))); diff != "" {
		t.Errorf("Shortfall mismatch (-want +got):\n%s", diff)
	}
}
