package lang

import "testing"

func TestForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		lang Language
	}{
		{".py", Python},
		{".go", Go},
		{".js", JavaScript},
		{".jsx", JavaScript},
		{".ts", TypeScript},
		{".tsx", TSX},
		{".java", Java},
		{".cs", CSharp},
		{".php", PHP},
		{".rb", Ruby},
	}
	for _, tt := range tests {
		spec := ForExtension(tt.ext)
		if spec == nil {
			t.Errorf("ForExtension(%q) = nil, want %s", tt.ext, tt.lang)
			continue
		}
		if spec.Language != tt.lang {
			t.Errorf("ForExtension(%q).Language = %s, want %s", tt.ext, spec.Language, tt.lang)
		}
	}
}

func TestForLanguage(t *testing.T) {
	for _, l := range AllLanguages() {
		spec := ForLanguage(l)
		if spec == nil {
			t.Errorf("ForLanguage(%s) = nil", l)
		}
	}
}

func TestUnknownExtension(t *testing.T) {
	if spec := ForExtension(".xyz"); spec != nil {
		t.Errorf("ForExtension(.xyz) should be nil, got %v", spec)
	}
}

func TestLanguageForExtension(t *testing.T) {
	l, ok := LanguageForExtension(".rb")
	if !ok || l != Ruby {
		t.Errorf("LanguageForExtension(.rb) = (%s, %v), want (ruby, true)", l, ok)
	}
	if _, ok := LanguageForExtension(".xyz"); ok {
		t.Errorf("LanguageForExtension(.xyz) should report ok=false")
	}
}
