package templateutil

import (
	"embed"
	"fmt"
	"html/template"
	"path"
	"strconv"
)

type TemplateGroup struct {
	Files []string
	Add   func(t *template.Template)
}

func hex(v uint64) string {
	return "0x" + strconv.FormatUint(v, 16)
}

func profileURL(id64 uint64) string {
	return "https://steamcommunity.com/profiles/" + strconv.FormatUint(id64, 10)
}

func ParseFS(fs embed.FS, groups []TemplateGroup) error {
	funcMap := template.FuncMap{
		"hex":        hex,
		"profileURL": profileURL,
	}

	for _, group := range groups {
		name := path.Base(group.Files[0])
		t := template.New(name).Funcs(funcMap)

		t, err := t.ParseFS(fs, group.Files...)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}

		group.Add(t)
	}

	return nil
}
