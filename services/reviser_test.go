package services

import (
	"strings"
	"testing"

	"github.com/billow-homes/homes-api/models"
)

func TestReviseImagePaths(t *testing.T) {
	oldMain := "https://cdn.example.com/old-main.jpg"
	price := 410000.0
	patch := models.HomePatch{Price: &price, HouseImgMain: &oldMain}
	files := models.UploadedFiles{
		models.FieldAgentImg: {FieldName: models.FieldAgentImg, StoragePath: "uploads/171-agent.jpg"},
	}

	got := ReviseImagePaths(files, "http://localhost:5000", patch)

	if got.AgentImg == nil || *got.AgentImg != "http://localhost:5000/uploads/171-agent.jpg" {
		t.Fatalf("agent_img not revised: %v", got.AgentImg)
	}
	if got.HouseImgMain == nil || *got.HouseImgMain != oldMain {
		t.Fatalf("house_img_main should keep caller value, got %v", got.HouseImgMain)
	}
	if got.Price == nil || *got.Price != price {
		t.Fatalf("price dropped: %v", got.Price)
	}
	if got.HouseImgInside1 != nil || got.HouseImgInside2 != nil {
		t.Fatal("fields without upload or caller value must stay unset")
	}
	if patch.AgentImg != nil {
		t.Fatal("input patch was mutated")
	}
}

func TestReviseImagePathsNoUploads(t *testing.T) {
	city := "Shelbyville"
	patch := models.HomePatch{City: &city}

	got := ReviseImagePaths(nil, "http://localhost:5000", patch)
	if len(got.Fields()) != 1 || *got.City != city {
		t.Fatalf("unexpected patch %+v", got.Fields())
	}
}

func TestPublicURI(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://localhost:5000", "uploads/a.jpg", "http://localhost:5000/uploads/a.jpg"},
		{"http://localhost:5000/", "/uploads/a.jpg", "http://localhost:5000/uploads/a.jpg"},
		{"https://api.example.com", "https://bucket.s3.us-east-1.amazonaws.com/a.jpg", "https://bucket.s3.us-east-1.amazonaws.com/a.jpg"},
	}

	for _, tt := range tests {
		if got := PublicURI(tt.base, tt.path); got != tt.want {
			t.Errorf("PublicURI(%q, %q) = %q; want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Elm St ", "Elm St"},
		{"<script>alert(1)</script>Elm St", "Elm St"},
		{"<b>Oak</b> St", "Oak St"},
		{"O'Neil St", "O'Neil St"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Elm St", "Elm St"},
		{"&lt;b&gt;Oak&lt;/b&gt; St", "Oak St"},
		{"Smith & Sons Rd", "Smith & Sons Rd"},
		{"Smith &amp; Sons Rd", "Smith & Sons Rd"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeNeverEmitsMarkup(t *testing.T) {
	for _, in := range []string{
		"&lt;img src=x onerror=alert(1)&gt;",
		"&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;",
		"&#60;b&#62;bold&#60;/b&#62;",
	} {
		if got := Sanitize(in); strings.ContainsAny(got, "<>") {
			t.Errorf("Sanitize(%q) = %q; markup survived", in, got)
		}
	}
}
