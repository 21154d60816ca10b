package build

import (
	"bytes"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/spf13/afero"

	"github.com/glyphkit/glyphkit/pkg/assets"
	"github.com/glyphkit/glyphkit/pkg/errors"
	"github.com/glyphkit/glyphkit/pkg/svg"
)

// componentTemplate is the self-registering custom element emitted per
// brand. Icon content is inlined as JSON string literals; the element
// renders inside a shadow root so host page styling cannot leak in.
var componentTemplate = template.Must(template.New("component").Parse(`// Generated by glyphkit. Do not edit.

const ICONS = {
{{- range .Icons}}
  {{.NameJSON}}: {{.ContentJSON}},
{{- end}}
};

class {{.ClassName}} extends HTMLElement {
  static get observedAttributes() {
    return ["name", "size", "color"];
  }

  constructor() {
    super();
    this.attachShadow({ mode: "open" });
  }

  connectedCallback() {
    this.render();
  }

  attributeChangedCallback() {
    this.render();
  }

  render() {
    const name = this.getAttribute("name");
    const size = this.getAttribute("size") || "24";
    const color = this.getAttribute("color") || "currentColor";
    const svg = ICONS[name];
    if (!svg) {
      console.warn("{{.TagName}}: unknown icon \"" + name + "\"");
      this.shadowRoot.innerHTML = "";
      return;
    }
    this.shadowRoot.innerHTML =
      '<style>:host{display:inline-block;line-height:0}svg{width:' + size + 'px;height:' + size + 'px;fill:' + color + '}</style>' + svg;
  }
}

customElements.define("{{.TagName}}", {{.ClassName}});
{{range .Icons}}
export function create{{.Pascal}}Icon(attrs = {}) {
  const el = document.createElement("{{$.TagName}}");
  el.setAttribute("name", {{.NameJSON}});
  for (const [key, value] of Object.entries(attrs)) {
    el.setAttribute(key, value);
  }
  return el;
}
{{end}}
export default {{.ClassName}};
`))

type componentIcon struct {
	NameJSON    string
	ContentJSON string
	Pascal      string
}

type componentData struct {
	TagName   string
	ClassName string
	Icons     []componentIcon
}

// componentStage emits one self-registering UI component per brand, with a
// factory function per icon for programmatic instantiation.
func (p *Pipeline) componentStage(brand string, icons []assets.Icon, outDir string) ([]string, error) {
	dir := outFile(outDir, "component")
	if err := p.fs.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrFileWrite, "cannot create component output directory")
	}

	data := componentData{
		TagName:   "gk-" + brand + "-icon",
		ClassName: pascalCase("gk-"+brand) + "Icon",
	}
	for _, icon := range icons {
		if icon.Format != assets.FormatVector {
			continue
		}
		content, err := p.store.ReadIcon(brand, icon.Name)
		if err != nil {
			return nil, err
		}
		embedded, err := embedMarkup(content)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidContent, "cannot embed icon %q", icon.Name)
		}
		nameJSON, _ := json.Marshal(icon.Name)
		contentJSON, _ := json.Marshal(embedded)
		data.Icons = append(data.Icons, componentIcon{
			NameJSON:    string(nameJSON),
			ContentJSON: string(contentJSON),
			Pascal:      pascalCase(icon.Name),
		})
	}

	var buf bytes.Buffer
	if err := componentTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "component template failed")
	}

	path := outFile(dir, "glyphkit-"+brand+"-icon.js")
	if err := afero.WriteFile(p.fs, path, buf.Bytes(), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
	}
	return []string{relOut(outDir, path)}, nil
}

// embedMarkup rebuilds the icon as a bare viewBox-only svg element. Width
// and height attributes baked into the source would override the
// element's size attribute, so only the viewBox and the child markup
// survive.
func embedMarkup(content []byte) (string, error) {
	viewBox, err := svg.ViewBox(content)
	if err != nil {
		return "", err
	}
	inner, err := svg.Inner(content)
	if err != nil {
		return "", err
	}
	return `<svg xmlns="http://www.w3.org/2000/svg" viewBox="` + viewBox + `">` + inner + `</svg>`, nil
}

// pascalCase turns a kebab-case identifier into PascalCase for generated
// class and factory names.
func pascalCase(name string) string {
	parts := strings.Split(name, "-")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
