package view

import "html/template"

var funcs = template.FuncMap{
	"field": newField,
}

// Field is one labelled text-like input of a form.
type Field struct {
	Name      string
	Label     string
	Type      string
	Value     string
	Error     string
	Required  bool
	MaxLength int
}

func newField(name, label, typ, value string, errs map[string]string, required bool, maxLength int) Field {
	return Field{
		Name:      name,
		Label:     label,
		Type:      typ,
		Value:     value,
		Error:     errs[name],
		Required:  required,
		MaxLength: maxLength,
	}
}
