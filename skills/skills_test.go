package skills

import (
	"testing"
	"testing/fstest"
)

func TestLoadBundledSkills(t *testing.T) {
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded) != 1 {
		t.Fatalf("Expected one bundled skill, got %d", len(loaded))
	}
	skill := loaded[0]
	if skill.Name != "code-review" {
		t.Errorf("Expected skill name code-review, got %q", skill.Name)
	}
	if skill.Description == "" {
		t.Error("Bundled skill should have a description")
	}
	if skill.Version == "" {
		t.Error("Bundled skill should declare a version")
	}
	if skill.File != SkillFileName {
		t.Errorf("Expected skill file %s, got %s", SkillFileName, skill.File)
	}
	if skill.Body == "" {
		t.Error("Bundled skill should have a body")
	}
}

func TestBundleContainsInstallableFiles(t *testing.T) {
	bundle := Bundle()
	for _, name := range BundledFiles {
		if _, err := bundle.Open(name); err != nil {
			t.Errorf("Bundle is missing %s: %v", name, err)
		}
	}
}

func TestLoadFromSkipsPlainDocuments(t *testing.T) {
	bundle := fstest.MapFS{
		"SKILL.md": &fstest.MapFile{
			Data: []byte("---\nname: demo\ndescription: a demo skill\n---\nbody text\n"),
		},
		"guide.md": &fstest.MapFile{
			Data: []byte("# Guide\nNo frontmatter here.\n"),
		},
	}

	loaded, err := LoadFrom(bundle)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Expected one skill, got %d", len(loaded))
	}
	if loaded[0].Name != "demo" || loaded[0].Body != "body text" {
		t.Errorf("Unexpected skill: %+v", loaded[0])
	}
}

func TestLoadFromRejectsNamelessSkill(t *testing.T) {
	bundle := fstest.MapFS{
		"SKILL.md": &fstest.MapFile{
			Data: []byte("---\ndescription: nameless\n---\nbody\n"),
		},
	}

	if _, err := LoadFrom(bundle); err == nil {
		t.Error("Expected an error for a skill without a name")
	}
}

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFront string
		wantBody  string
		wantOK    bool
	}{
		{
			name:      "with frontmatter",
			input:     "---\nname: x\n---\nbody\n",
			wantFront: "name: x",
			wantBody:  "body",
			wantOK:    true,
		},
		{
			name:     "no frontmatter",
			input:    "# Title\nbody\n",
			wantBody: "# Title\nbody",
			wantOK:   false,
		},
		{
			name:     "unterminated frontmatter",
			input:    "---\nname: x\nbody\n",
			wantBody: "---\nname: x\nbody",
			wantOK:   false,
		},
		{
			name:      "windows line endings",
			input:     "---\r\nname: x\r\n---\r\nbody\r\n",
			wantFront: "name: x",
			wantBody:  "body",
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			front, body, ok := splitFrontmatter(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if front != tt.wantFront {
				t.Errorf("front = %q, want %q", front, tt.wantFront)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}
