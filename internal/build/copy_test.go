package build

import "testing"

func TestParseCopy(t *testing.T) {
	tests := []struct {
		name     string
		copyStr  string
		workdir  string
		wantSrc  string
		wantDest string
		wantErr  bool
	}{
		{
			name:     "absolute dest",
			copyStr:  "requirements.txt /code/requirements.txt",
			wantSrc:  "requirements.txt",
			wantDest: "/code/requirements.txt",
		},
		{
			name:     "context root to absolute dest",
			copyStr:  ". /code",
			wantSrc:  ".",
			wantDest: "/code",
		},
		{
			name:     "relative dest with workdir",
			copyStr:  "app.py app.py",
			workdir:  "/code",
			wantSrc:  "app.py",
			wantDest: "/code/app.py",
		},
		{
			name:    "relative dest without workdir",
			copyStr: "app.py app.py",
			wantErr: true,
		},
		{
			name:    "missing dest",
			copyStr: "app.py",
			wantErr: true,
		},
		{
			name:    "too many fields",
			copyStr: "a b c",
			wantErr: true,
		},
		{
			name:    "empty",
			copyStr: "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, dest, err := parseCopy(tt.copyStr, tt.workdir)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if src != tt.wantSrc {
				t.Fatalf("src = %q, want %q", src, tt.wantSrc)
			}
			if dest != tt.wantDest {
				t.Fatalf("dest = %q, want %q", dest, tt.wantDest)
			}
		})
	}
}
