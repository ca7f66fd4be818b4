package expand

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"

	"cssroll/config"
)

// Values is a struct that holds variables we make available for output name
// template expansion
type Values struct {
	SourceFile string // source base name without extension
	Seed       int64  // seed the run was generated with
	Animations int    // animation names issued during expansion
	Date       string
}

// BuildOutputName expands the configured output name template and resolves
// it against the destination directory.
func BuildOutputName(tmplText, src, dst string, seed int64, animations int) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New("output-name").Funcs(funcMap).Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("unable to parse output name template: %w", err)
	}

	values := Values{
		SourceFile: strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		Seed:       seed,
		Animations: animations,
		Date:       time.Now().Format("2006-01-02"),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}

	name := config.CleanFileName(buf.String())
	if !strings.HasSuffix(name, ".css") {
		name += ".css"
	}
	return filepath.Join(dst, name), nil
}
