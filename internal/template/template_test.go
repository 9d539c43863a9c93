package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/openskills/internal/manifest"
	"github.com/klauern/openskills/internal/model"
	"github.com/klauern/openskills/internal/util"
)

func TestParseType(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Type
		wantErr bool
	}{
		"guide":              {input: "guide", want: Guide},
		"instructions alias": {input: "instructions", want: Guide},
		"workflow":           {input: "workflow", want: Workflow},
		"flow alias":         {input: "flow", want: Workflow},
		"reference":          {input: "reference", want: Reference},
		"ref alias":          {input: "ref", want: Reference},
		"case insensitive":   {input: "GUIDE", want: Guide},
		"unknown":            {input: "mystery", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateProducesLoadableSkills(t *testing.T) {
	gen, err := New()
	util.AssertNoError(t, err)

	data := Data{Name: "my-skill", Description: "Does something useful"}

	for _, typ := range []Type{Guide, Workflow, Reference} {
		t.Run(string(typ), func(t *testing.T) {
			content, err := gen.Generate(typ, data)
			util.AssertNoError(t, err)

			m, body, err := manifest.Parse([]byte(content))
			if err != nil {
				t.Fatalf("generated %s skill does not parse: %v", typ, err)
			}
			util.AssertEqual(t, m.Name, "my-skill")
			util.AssertEqual(t, m.Description, "Does something useful")
			if !strings.Contains(body, "# my-skill") {
				t.Error("generated body missing title heading")
			}
		})
	}
}

func TestGenerateUnknownType(t *testing.T) {
	gen, err := New()
	util.AssertNoError(t, err)

	if _, err := gen.Generate(Type("mystery"), Data{Name: "x"}); err == nil {
		t.Error("Generate() succeeded with unknown type")
	}
}

func TestCreateSkillDir(t *testing.T) {
	gen, err := New()
	util.AssertNoError(t, err)

	root := util.CreateTempDir(t)
	skillPath, err := gen.CreateSkillDir(Workflow, Data{
		Name:        "release",
		Description: "Runs a release",
	}, root)
	util.AssertNoError(t, err)

	util.AssertEqual(t, skillPath, filepath.Join(root, "release", model.ManifestFileName))

	content, err := os.ReadFile(skillPath)
	util.AssertNoError(t, err)
	m, _, err := manifest.Parse(content)
	util.AssertNoError(t, err)
	util.AssertEqual(t, m.Name, "release")

	for _, subdir := range []string{"references", "scripts"} {
		info, err := os.Stat(filepath.Join(root, "release", subdir))
		if err != nil || !info.IsDir() {
			t.Errorf("missing %s stub directory", subdir)
		}
	}
}

func TestLoadCustomTemplate(t *testing.T) {
	gen, err := New()
	util.AssertNoError(t, err)

	dir := util.CreateTempDir(t)
	tmplPath := filepath.Join(dir, "custom.tmpl")
	util.WriteFile(t, tmplPath, "---\nname: {{.Name}}\ndescription: {{.Description}}\n---\nCustom body for {{.Name}}\n")

	util.AssertNoError(t, gen.LoadCustomTemplate("custom", tmplPath))

	content, err := gen.Generate(Type("custom"), Data{Name: "special", Description: "Custom skill"})
	util.AssertNoError(t, err)

	m, body, err := manifest.Parse([]byte(content))
	util.AssertNoError(t, err)
	util.AssertEqual(t, m.Name, "special")
	util.AssertEqual(t, body, "Custom body for special\n")
}

func TestValidateGeneratedRejectsBroken(t *testing.T) {
	gen, err := New()
	util.AssertNoError(t, err)

	if err := gen.ValidateGenerated("no metadata block at all"); err == nil {
		t.Error("ValidateGenerated() accepted an unloadable document")
	}
}
