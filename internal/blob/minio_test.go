package blob

import "testing"

func TestPublicURL(t *testing.T) {
	s := &Store{publicBase: "https://assets.example.com"}
	got := s.PublicURL("cert-documents", "certifications/row-1-1700000000.pdf")
	want := "https://assets.example.com/cert-documents/certifications/row-1-1700000000.pdf"
	if got != want {
		t.Errorf("PublicURL = %q, want %q", got, want)
	}
}

func TestKeyFromURL(t *testing.T) {
	s := &Store{publicBase: "https://assets.example.com"}

	tests := []struct {
		name       string
		url        string
		wantBucket string
		wantKey    string
		wantOK     bool
	}{
		{
			name:       "resolved url",
			url:        "https://assets.example.com/profile-images/home/slot-1-1700000000.png",
			wantBucket: "profile-images",
			wantKey:    "home/slot-1-1700000000.png",
			wantOK:     true,
		},
		{
			name:   "data url",
			url:    "data:image/png;base64,aGVsbG8=",
			wantOK: false,
		},
		{
			name:   "foreign host",
			url:    "https://cdn.elsewhere.net/profile-images/x.png",
			wantOK: false,
		},
		{
			name:   "bucket without key",
			url:    "https://assets.example.com/profile-images",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, key, ok := s.KeyFromURL(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if bucket != tt.wantBucket || key != tt.wantKey {
				t.Errorf("got %q/%q, want %q/%q", bucket, key, tt.wantBucket, tt.wantKey)
			}
		})
	}
}
