package catalog

import (
	"embed"
	"fmt"
)

//go:embed templates
var templatesFS embed.FS

func mustReadTemplate(featureType, file string) string {
	content, err := templatesFS.ReadFile("templates/" + featureType + "/" + file + ".tmpl")
	if err != nil {
		panic(fmt.Sprintf("catalog: missing embedded template %s/%s: %v", featureType, file, err))
	}
	return string(content)
}
