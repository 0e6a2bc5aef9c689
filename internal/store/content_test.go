package store

import (
	"reflect"
	"testing"

	"portfolio/api/internal/content"
)

func TestSelectColumnsIncludesAssetColumnOnlyWhenSectionHasOne(t *testing.T) {
	withAsset := content.Section{
		Columns: []string{"name", "issuer", "date"},
		Asset:   &content.AssetClass{Bucket: "cert-documents"},
	}
	got := selectColumns(withAsset)
	want := []string{"id", "name", "issuer", "date", "document_url"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selectColumns = %v, want %v", got, want)
	}

	plain := content.Section{Columns: []string{"name"}}
	got = selectColumns(plain)
	want = []string{"id", "name"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("selectColumns = %v, want %v", got, want)
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(3); got != "$1, $2, $3" {
		t.Errorf("placeholders(3) = %q", got)
	}
	if got := placeholders(1); got != "$1" {
		t.Errorf("placeholders(1) = %q", got)
	}
}
