package analyzer

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"

	"github.com/templui/campus-collector/internal/markdown"
	"github.com/templui/campus-collector/internal/model"
)

//go:embed prompts/*.md
var promptFS embed.FS

// DefaultLanguage is used when a request names no supported language.
const DefaultLanguage = model.LanguageChinese

// Prompts holds the rendered instruction text per language.
type Prompts struct {
	text map[model.Language]string
}

type promptData struct {
	Fields []model.Vocabulary
}

// LoadPrompts renders the embedded prompt templates with the photo vocabularies.
func LoadPrompts() (*Prompts, error) {
	return loadPrompts(promptFS, "prompts")
}

func loadPrompts(fsys fs.FS, dir string) (*Prompts, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts: %w", err)
	}

	parser := markdown.NewParser()
	funcs := template.FuncMap{"join": strings.Join}
	prompts := &Prompts{text: make(map[model.Language]string)}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
			continue
		}

		source, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt %s: %w", entry.Name(), err)
		}

		meta, body := parser.Split(source)
		lang, _ := meta["language"].(string)
		if lang == "" {
			lang = strings.TrimSuffix(entry.Name(), ".md")
		}

		tmpl, err := template.New(entry.Name()).Funcs(funcs).Parse(string(body))
		if err != nil {
			return nil, fmt.Errorf("failed to parse prompt %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		err = tmpl.Execute(&buf, promptData{Fields: model.Vocabularies})
		if err != nil {
			return nil, fmt.Errorf("failed to render prompt %s: %w", entry.Name(), err)
		}
		prompts.text[model.Language(lang)] = strings.TrimSpace(buf.String())
	}

	for _, lang := range []model.Language{model.LanguageChinese, model.LanguageEnglish} {
		if prompts.text[lang] == "" {
			return nil, fmt.Errorf("missing prompt for language %q", lang)
		}
	}
	return prompts, nil
}

// For returns the prompt for lang, falling back to DefaultLanguage.
func (p *Prompts) For(lang model.Language) string {
	if text, ok := p.text[lang]; ok {
		return text
	}
	return p.text[DefaultLanguage]
}
