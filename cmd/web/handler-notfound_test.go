package main

import (
	"net/http"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func Test_application_notFound(t *testing.T) {
	var (
		ctx    = t.Context()
		client = startTestServer(t)
	)

	tests := []struct {
		name string
		path string
	}{
		{name: "nonexistent path", path: "/nonexistent"},
		{name: "unknown scheme", path: "/schemes/nope"},
		{name: "directory traversal", path: "/../go.mod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.Get(ctx, tt.path)
			if err != nil {
				t.Fatalf("Failed to get %s: %v", tt.path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusNotFound {
				t.Errorf("Expected status code %d for %s, got %d", http.StatusNotFound, tt.path, resp.StatusCode)
			}

			doc, err := goquery.NewDocumentFromReader(resp.Body)
			if err != nil {
				t.Fatalf("Failed to parse 404 document: %v", err)
			}
			if title := doc.Find("h1").First().Text(); !strings.Contains(title, "404") {
				t.Errorf("Expected 404 page title, got %q", title)
			}
			if subtitle := doc.Find("h2").First().Text(); !strings.Contains(subtitle, "Page Not Found") {
				t.Errorf("Expected 'Page Not Found' subtitle, got %q", subtitle)
			}
			if home := doc.Find("main a[href='/']").First().Text(); !strings.Contains(home, "Go Home") {
				t.Errorf("Expected 'Go Home' link, got %q", home)
			}
		})
	}

	t.Run("static file is served", func(t *testing.T) {
		resp, err := client.Get(ctx, "/main.css")
		if err != nil {
			t.Fatalf("Failed to get stylesheet: %v", err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected status 200, got %d", resp.StatusCode)
		}
		if got := resp.Header.Get("Cache-Control"); !strings.Contains(got, "immutable") {
			t.Errorf("Expected immutable caching, got %q", got)
		}
	})
}
