package main

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func Test_application_history(t *testing.T) {
	var (
		ctx    = t.Context()
		client = startTestServer(t)
		doc    *goquery.Document
		err    error
	)

	calculate := func(values map[string][]string) {
		t.Helper()
		if _, err = client.PostForm(ctx, "/calculate", values); err != nil {
			t.Fatalf("Failed to calculate: %v", err)
		}
	}

	t.Run("Empty", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, "/history"); err != nil {
			t.Fatalf("Failed to get document: %v", err)
		}
		if doc.Find(".history-entry").Length() != 0 || doc.Find(".empty").Length() != 1 {
			t.Error("Expected empty history")
		}
	})

	t.Run("Records calculations newest first", func(t *testing.T) {
		calculate(map[string][]string{"mode": {"1rm"}, "target_weight": {"300"}, "scheme": {"standard"}})
		// Repeating a calculation doesn't add an entry.
		calculate(map[string][]string{"mode": {"1rm"}, "target_weight": {"300"}, "scheme": {"standard"}})
		calculate(map[string][]string{"mode": {"uniform"}, "uniform_weight": {"135"}, "sets": {"3"}, "reps": {"5"}})
		// Empty results are not recorded.
		calculate(map[string][]string{"mode": {"1rm"}, "target_weight": {""}})

		if doc, err = client.GetDoc(ctx, "/history"); err != nil {
			t.Fatalf("Failed to get document: %v", err)
		}
		want := []string{
			"3 × 5 at 135 lbs",
			"1RM 300 lbs · Standard Load Progression",
		}
		if diff := cmp.Diff(want, texts(doc.Find(".history-entry .summary"))); diff != "" {
			t.Errorf("History mismatch (-want +got):\n%s", diff)
		}
		wantWeights := []string{"135, 135, 135", "180, 210, 235, 255, 275, 290, 300"}
		if diff := cmp.Diff(wantWeights, texts(doc.Find(".history-entry .weights"))); diff != "" {
			t.Errorf("Weights mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Export", func(t *testing.T) {
		resp, getErr := client.Get(ctx, "/history/export.xlsx")
		if getErr != nil {
			t.Fatalf("Failed to export: %v", getErr)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", resp.StatusCode)
		}
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			t.Fatalf("Failed to read body: %v", readErr)
		}
		f, openErr := excelize.OpenReader(bytes.NewReader(body))
		if openErr != nil {
			t.Fatalf("Failed to open spreadsheet: %v", openErr)
		}
		defer f.Close()
		rows, rowsErr := f.GetRows("History")
		if rowsErr != nil {
			t.Fatalf("Failed to read rows: %v", rowsErr)
		}
		if got := len(rows); got != 3 {
			t.Fatalf("Expected header and 2 rows, got %d", got)
		}
		if got := rows[2][len(rows[2])-1]; got != strconv.Itoa(300) {
			t.Errorf("Expected last set of oldest entry to be 300, got %q", got)
		}
	})

	t.Run("Load entry", func(t *testing.T) {
		action := doc.Find(".history-entry").Last().Find("form").AttrOr("action", "")
		if doc, err = client.SubmitForm(ctx, doc, action, nil); err != nil {
			t.Fatalf("Failed to load entry: %v", err)
		}
		if doc.Url.Path != "/" {
			t.Errorf("Expected redirect to calculator, got %s", doc.Url.Path)
		}
		if got, _ := doc.Find("#target_weight").Attr("value"); got != "300" {
			t.Errorf("Expected target weight 300, got %q", got)
		}
		if got := doc.Find(".set-row").Length(); got != 7 {
			t.Errorf("Expected 7 sets, got %d", got)
		}
	})

	t.Run("Load unknown entry", func(t *testing.T) {
		for _, path := range []string{
			"/history/not-a-uuid/load",
			"/history/00000000-0000-0000-0000-000000000000/load",
		} {
			if _, err = client.PostForm(ctx, path, nil); err == nil {
				t.Errorf("Expected loading %s to fail", path)
			}
		}
	})

	t.Run("Clear", func(t *testing.T) {
		if doc, err = client.GetDoc(ctx, "/history"); err != nil {
			t.Fatalf("Failed to get document: %v", err)
		}
		if doc, err = client.SubmitForm(ctx, doc, "/history/clear", nil); err != nil {
			t.Fatalf("Failed to clear: %v", err)
		}
		if doc.Find(".history-entry").Length() != 0 {
			t.Error("Expected empty history after clearing")
		}
	})
}
