package req

import (
	"io"
	"strings"
	"testing"
)

type payload struct {
	Name string `json:"name"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "ok", body: `{"name":"classic"}`, want: "classic"},
		{name: "empty", body: ``, wantErr: true},
		{name: "unknown field", body: `{"name":"a","extra":1}`, wantErr: true},
		{name: "broken json", body: `{"name":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode[payload](io.NopCloser(strings.NewReader(tt.body)))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.Name != tt.want {
				t.Fatalf("name = %q, want %q", got.Name, tt.want)
			}
		})
	}
}
