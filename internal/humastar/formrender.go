// formrender.go — Runtime HTML form generation from OpenAPI schemas.
//
// At server startup, RegisterFormTemplates walks schemas with x-datastar
// extensions and builds Datastar-bound HTML form fragments:
//
//	string                     → <input type="text">
//	string + enum              → <select> with options
//	boolean                    → <input type="checkbox">
//	number/integer             → <input type="number"> with min/max/step
//	enum array + x-input:"checkset" → one checkbox per option
//
// Each form is registered as a named Go template (e.g. "capture-form") in
// the Renderer, replacing static hand-written HTML files.
//
// Numeric inputs reset to the empty string, not zero: an untouched field
// must stay distinguishable from an explicit zero.
package humastar

import (
	"fmt"
	"slices"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterFormTemplates walks OpenAPI schemas with x-datastar extensions and
// registers dynamic form templates in the Renderer. The server renders forms
// at runtime from the spec.
//
// Call after InjectExtensions and before serving pages.
func RegisterFormTemplates(api huma.API, r *Renderer) {
	schemas := api.OpenAPI().Components.Schemas.Map()

	for _, schema := range schemas {
		ds, ok := schema.Extensions["x-datastar"]
		if !ok {
			continue
		}
		dsMeta, ok := ds.(DatastarSchema)
		if !ok {
			continue
		}
		if dsMeta.FormTmpl == "" {
			continue
		}

		html := renderFormHTML(schema, dsMeta)
		tmplText := fmt.Sprintf(`{{define "%s"}}%s{{end}}`, dsMeta.FormTmpl, html)

		// Parse errors here are programming errors in the generator, not user input
		if err := r.Parse(tmplText); err != nil {
			panic(fmt.Sprintf("form template %q: %v", dsMeta.FormTmpl, err))
		}
	}
}

// renderFormHTML builds the HTML form groups for a schema.
func renderFormHTML(schema *huma.Schema, ds DatastarSchema) string {
	var b strings.Builder

	// Walk properties in required-first order, then alphabetical
	propNames := sortedPropertyNames(schema)

	for _, jsonName := range propNames {
		prop := schema.Properties[jsonName]

		// Skip $schema (OpenAPI meta-property)
		if strings.HasPrefix(jsonName, "$") {
			continue
		}

		xInput, _ := prop.Extensions["x-input"].(string)

		// Objects never render; arrays only as check sets
		if prop.Type == "object" {
			continue
		}
		if prop.Type == "array" && xInput != "checkset" {
			continue
		}

		// Signal name: prefix + (x-signal override or lowercase json name)
		suffix := strings.ToLower(jsonName)
		if sig, ok := prop.Extensions["x-signal"]; ok {
			suffix = fmt.Sprint(sig)
		}
		signal := ds.Prefix + suffix

		required := slices.Contains(schema.Required, jsonName)
		label := prop.Description
		if label == "" {
			label = jsonName
		}

		switch {
		case xInput == "checkset":
			renderCheckSet(&b, label, signal, prop)

		case prop.Type == "boolean":
			renderCheckbox(&b, label, signal)

		case len(prop.Enum) > 0:
			renderEnumSelect(&b, label, signal, prop, required)

		case prop.Type == "number" || prop.Type == "integer":
			renderNumberInput(&b, label, signal, prop, required)

		default: // string text input
			renderTextInput(&b, label, signal, prop, required)
		}
	}

	return b.String()
}

func renderTextInput(b *strings.Builder, label, signal string, prop *huma.Schema, required bool) {
	b.WriteString(`<div class="form-group">`)
	fmt.Fprintf(b, "\n    <label>%s</label>\n", label)
	fmt.Fprintf(b, `    <input type="text" data-bind:%s`, signal)
	if prop.Default != nil {
		fmt.Fprintf(b, ` placeholder="%v"`, prop.Default)
	}
	if required {
		b.WriteString(` required`)
	}
	b.WriteString(">\n</div>\n")
}

func renderNumberInput(b *strings.Builder, label, signal string, prop *huma.Schema, required bool) {
	b.WriteString(`<div class="form-group">`)
	fmt.Fprintf(b, "\n    <label>%s</label>\n", label)
	fmt.Fprintf(b, `    <input type="number" data-bind:%s`, signal)
	if prop.Minimum != nil {
		fmt.Fprintf(b, ` min="%v"`, *prop.Minimum)
	}
	if prop.Maximum != nil {
		fmt.Fprintf(b, ` max="%v"`, *prop.Maximum)
	}
	// Step: any for floats, 1 for integers
	if prop.Type == "number" {
		b.WriteString(` step="any"`)
	}
	if required {
		b.WriteString(` required`)
	}
	b.WriteString(">\n</div>\n")
}

func renderCheckbox(b *strings.Builder, label, signal string) {
	b.WriteString(`<div class="form-group">`)
	// Checkboxes: unchecked is a valid state, never mark required
	fmt.Fprintf(b, "\n    <label><input type=\"checkbox\" data-bind:%s> %s</label>\n</div>\n", signal, label)
}

func renderCheckSet(b *strings.Builder, label, signal string, prop *huma.Schema) {
	if prop.Items == nil || len(prop.Items.Enum) == 0 {
		return
	}
	b.WriteString(`<div class="form-group">`)
	fmt.Fprintf(b, "\n    <label>%s</label>\n", label)
	b.WriteString("    <div class=\"check-group\">\n")
	for _, v := range prop.Items.Enum {
		opt := fmt.Sprint(v)
		fmt.Fprintf(b, "        <label><input type=\"checkbox\" data-bind:%s%s> %s</label>\n",
			signal, strings.ToLower(opt), opt)
	}
	b.WriteString("    </div>\n</div>\n")
}

func renderEnumSelect(b *strings.Builder, label, signal string, prop *huma.Schema, required bool) {
	b.WriteString(`<div class="form-group">`)
	fmt.Fprintf(b, "\n    <label>%s</label>\n", label)
	fmt.Fprintf(b, `    <select data-bind:%s`, signal)
	if required {
		b.WriteString(` required`)
	}
	b.WriteString(">\n")
	for _, v := range prop.Enum {
		fmt.Fprintf(b, "        <option value=\"%v\">%v</option>\n", v, v)
	}
	b.WriteString("    </select>\n</div>\n")
}

// sortedPropertyNames returns property names: required first, then optional, both alphabetical.
func sortedPropertyNames(schema *huma.Schema) []string {
	var req, opt []string
	for name := range schema.Properties {
		if slices.Contains(schema.Required, name) {
			req = append(req, name)
		} else {
			opt = append(opt, name)
		}
	}
	slices.Sort(req)
	slices.Sort(opt)
	return append(req, opt...)
}
