package common

import "testing"

func TestValidateOutputFormat(t *testing.T) {
	configured := []string{"json", "text", "markdown"}

	tests := []struct {
		name      string
		format    string
		supported []string
		wantErr   bool
	}{
		{name: "configured format passes", format: "markdown", supported: configured},
		{name: "unknown format rejected", format: "xml", supported: configured, wantErr: true},
		{name: "matching is case sensitive", format: "JSON", supported: configured, wantErr: true},
		{name: "empty format rejected", format: "", supported: configured, wantErr: true},
		{name: "no restriction allows anything", format: "xml", supported: nil},
		{name: "single-entry list", format: "text", supported: []string{"json"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.wantErr && err == nil {
				t.Errorf("ValidateOutputFormat(%q, %v) = nil, expected error", tt.format, tt.supported)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateOutputFormat(%q, %v) = %v, expected nil", tt.format, tt.supported, err)
			}
		})
	}
}

func TestValidateOutputFormatErrorNamesAlternatives(t *testing.T) {
	err := ValidateOutputFormat("yaml", []string{"json", "text"})
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	want := "unsupported output format 'yaml'. Supported formats: [json text]"
	if err.Error() != want {
		t.Errorf("error %q, expected %q", err.Error(), want)
	}
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	configured := []string{"json", "text", "markdown"}
	for b.Loop() {
		_ = ValidateOutputFormat("markdown", configured)
	}
}
