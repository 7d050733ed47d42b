package service

// Field identifies one input of the email form.
type Field int

const (
	FieldFromName Field = iota
	FieldFromEmail
	FieldToName
	FieldToEmail
	FieldSubject
	FieldBody
)

// Fields lists every form field in display order.
var Fields = []Field{
	FieldFromName,
	FieldFromEmail,
	FieldToName,
	FieldToEmail,
	FieldSubject,
	FieldBody,
}

type fieldInfo struct {
	name      string
	label     string
	inputType string
}

var fieldInfos = map[Field]fieldInfo{
	FieldFromName:  {name: "fromName", label: "From Name", inputType: "text"},
	FieldFromEmail: {name: "fromEmail", label: "From Email", inputType: "email"},
	FieldToName:    {name: "toName", label: "To Name", inputType: "text"},
	FieldToEmail:   {name: "toEmail", label: "To Email", inputType: "email"},
	FieldSubject:   {name: "subject", label: "Subject", inputType: "text"},
	FieldBody:      {name: "body", label: "Body", inputType: "textarea"},
}

// Name is the input name, which is also the JSON key and the error key.
func (f Field) Name() string {
	return fieldInfos[f].name
}

func (f Field) Label() string {
	return fieldInfos[f].label
}

// InputType is the HTML input type, or "textarea".
func (f Field) InputType() string {
	return fieldInfos[f].inputType
}

func (f Field) String() string {
	return f.Name()
}

func ParseField(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name() == name {
			return f, true
		}
	}

	return 0, false
}
