package handler

import "testing"

func TestRecordingObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantKey string
		wantOK  bool
	}{
		{
			name:    "standard object url",
			raw:     "https://minio.local:9000/call-recordings/3f2c/call_ab12cd34.mp3",
			wantKey: "3f2c/call_ab12cd34.mp3",
			wantOK:  true,
		},
		{
			name:   "bucket only, no key",
			raw:    "https://minio.local:9000/call-recordings",
			wantOK: false,
		},
		{
			name:   "empty",
			raw:    "",
			wantOK: false,
		},
		{
			name:   "unparseable",
			raw:    "://nope",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := recordingObjectKey(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if key != tt.wantKey {
				t.Fatalf("key = %q, want %q", key, tt.wantKey)
			}
		})
	}
}
